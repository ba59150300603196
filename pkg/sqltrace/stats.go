package sqltrace

import (
	"fmt"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

// RegisterStats reports the connection pool statistics of d (open, idle and
// in-use connections, wait counts) through meterProvider. Unregister the
// returned registration before closing d.
func RegisterStats(d *DB, meterProvider metric.MeterProvider) (metric.Registration, error) {
	registration, err := otelsql.RegisterDBStatsMetrics(d.db,
		otelsql.WithMeterProvider(meterProvider),
		otelsql.WithAttributes(attribute.String(typedspan.DBSystemKey, d.attrs.system)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register db stats metrics: %w", err)
	}
	return registration, nil
}
