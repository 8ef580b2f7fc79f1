package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldCompany is the structured log field key for a company name.
	FieldCompany = "company"
	// FieldWebsite is the structured log field key for a company website.
	FieldWebsite = "website"
	// FieldPipeline is the structured log field key for the running pipeline.
	FieldPipeline = "pipeline"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CompanyFields describes a company in log entries. Empty values are dropped.
func CompanyFields(name, website string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCompany, Value: name},
		StringField{Key: FieldWebsite, Value: website},
	)
}

// ForPipeline returns a logger tagged with the pipeline name.
func ForPipeline(logger *zap.Logger, pipeline string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldPipeline, Value: pipeline})...)
}
