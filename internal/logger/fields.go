package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldDocument  = "document"
	FieldFile      = "file"
	FieldRequestID = "request_id"
)

// NonEmpty returns a zap string field per key/value pair, skipping pairs whose
// trimmed key or value is empty. A trailing key without value is ignored.
func NonEmpty(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(kv[i])
		value := strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// WithFields attaches fields to logger; a nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithCommonFields tags a logger with the AI provider and model.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, NonEmpty(FieldProvider, provider, FieldModel, model)...)
}

// ForDocument tags a logger with the document kind ("cv" or "job") and its file name.
func ForDocument(logger *zap.Logger, kind, file string) *zap.Logger {
	return WithFields(logger, NonEmpty(FieldDocument, kind, FieldFile, file)...)
}
