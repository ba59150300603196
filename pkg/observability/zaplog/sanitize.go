package zaplog

import (
	"strings"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

const (
	redactedValue       = "[REDACTED]"
	maxFieldValueLength = 1024
	maxFields           = 64
)

var sensitiveKeyParts = []string{
	"password",
	"api_key",
	"apikey",
	"token",
	"authorization",
	"bearer",
	"credit_card",
	"creditcard",
	"ssn",
	"secret",
	"credential",
	"private_key",
	"session",
	"cookie",
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// SanitizeFields redacts sensitive keys, truncates long strings and caps the
// number of fields. Only log output goes through it; span attributes are
// recorded as given.
func SanitizeFields(fields []observability.Field) []observability.Field {
	if len(fields) > maxFields {
		fields = fields[:maxFields]
	}

	result := make([]observability.Field, len(fields))
	for i, field := range fields {
		switch {
		case isSensitiveKey(field.Key):
			result[i] = observability.String(field.Key, redactedValue)
		default:
			if s, ok := field.Value.(string); ok && len(s) > maxFieldValueLength {
				result[i] = observability.String(field.Key, s[:maxFieldValueLength]+"...[truncated]")
				continue
			}
			result[i] = field
		}
	}
	return result
}
