package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

const (
	fieldCollection = "collection"
	fieldDocumentID = "document_id"
	fieldLocale     = "locale"
)

// WithFields attaches structured fields when the logger supports
// interfaces.FieldsLogger. Other loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

// WithDocumentContext enriches the logger with the collection, document id and
// locale a hierarchy operation is working on. Empty values are skipped.
func WithDocumentContext(logger interfaces.Logger, collection, id, locale string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	return WithFields(logger, fields)
}
