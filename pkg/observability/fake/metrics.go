package fake

import (
	"context"
	"sync"
	"time"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// FakeMetrics captures metric instruments and their values.
type FakeMetrics struct {
	mu         sync.RWMutex
	counters   map[string]*FakeCounter
	histograms map[string]*FakeHistogram
	upDowns    map[string]*FakeUpDownCounter
	gauges     map[string]observability.GaugeCallback
}

// NewFakeMetrics creates a new capturing metrics recorder.
func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		counters:   make(map[string]*FakeCounter),
		histograms: make(map[string]*FakeHistogram),
		upDowns:    make(map[string]*FakeUpDownCounter),
		gauges:     make(map[string]observability.GaugeCallback),
	}
}

// Counter returns the counter called name, creating it on first use.
func (m *FakeMetrics) Counter(name, description, unit string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, exists := m.counters[name]; exists {
		return c
	}
	c := &FakeCounter{Name: name, Description: description, Unit: unit}
	m.counters[name] = c
	return c
}

// Histogram returns the histogram called name, creating it on first use.
func (m *FakeMetrics) Histogram(name, description, unit string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, exists := m.histograms[name]; exists {
		return h
	}
	h := &FakeHistogram{Name: name, Description: description, Unit: unit}
	m.histograms[name] = h
	return h
}

// UpDownCounter returns the up-down counter called name, creating it on first use.
func (m *FakeMetrics) UpDownCounter(name, description, unit string) observability.UpDownCounter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, exists := m.upDowns[name]; exists {
		return u
	}
	u := &FakeUpDownCounter{FakeCounter{Name: name, Description: description, Unit: unit}}
	m.upDowns[name] = u
	return u
}

// Gauge stores callback so tests can read the gauge with GaugeValue.
func (m *FakeMetrics) Gauge(name, description, unit string, callback observability.GaugeCallback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = callback
	return nil
}

// GetCounter returns the counter called name, or nil.
func (m *FakeMetrics) GetCounter(name string) *FakeCounter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

// GetHistogram returns the histogram called name, or nil.
func (m *FakeMetrics) GetHistogram(name string) *FakeHistogram {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.histograms[name]
}

// GetUpDownCounter returns the up-down counter called name, or nil.
func (m *FakeMetrics) GetUpDownCounter(name string) *FakeUpDownCounter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upDowns[name]
}

// GaugeValue invokes the callback registered for name.
func (m *FakeMetrics) GaugeValue(ctx context.Context, name string) (float64, bool) {
	m.mu.RLock()
	callback, ok := m.gauges[name]
	m.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return callback(ctx), true
}

// CounterValue is one captured counter change.
type CounterValue struct {
	Value     int64
	Fields    []observability.Field
	Timestamp time.Time
}

// FakeCounter captures counter changes.
type FakeCounter struct {
	mu          sync.RWMutex
	Name        string
	Description string
	Unit        string
	values      []CounterValue
}

func (c *FakeCounter) Add(ctx context.Context, value int64, fields ...observability.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, CounterValue{
		Value:     value,
		Fields:    fields,
		Timestamp: time.Now(),
	})
}

func (c *FakeCounter) Increment(ctx context.Context, fields ...observability.Field) {
	c.Add(ctx, 1, fields...)
}

// GetValues returns all captured changes.
func (c *FakeCounter) GetValues() []CounterValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]CounterValue, len(c.values))
	copy(result, c.values)
	return result
}

// Total returns the sum of all captured changes.
func (c *FakeCounter) Total() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, v := range c.values {
		total += v.Value
	}
	return total
}

// FakeUpDownCounter captures up-down counter changes.
type FakeUpDownCounter struct {
	FakeCounter
}

// HistogramValue is one captured histogram observation.
type HistogramValue struct {
	Value     float64
	Fields    []observability.Field
	Timestamp time.Time
}

// FakeHistogram captures histogram observations.
type FakeHistogram struct {
	mu          sync.RWMutex
	Name        string
	Description string
	Unit        string
	values      []HistogramValue
}

func (h *FakeHistogram) Record(ctx context.Context, value float64, fields ...observability.Field) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, HistogramValue{
		Value:     value,
		Fields:    fields,
		Timestamp: time.Now(),
	})
}

// GetValues returns all captured observations.
func (h *FakeHistogram) GetValues() []HistogramValue {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]HistogramValue, len(h.values))
	copy(result, h.values)
	return result
}
