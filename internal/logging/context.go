package logging

import (
	"context"
	"log/slog"

	"nugetctl/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldOperation is the standardized key for the public operation (pack, push, setapikey).
	FieldOperation = "operation"
	// FieldStage is the standardized key for pipeline stage names.
	FieldStage = "stage"
	// FieldCorrelationID is the standardized key for per-operation correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldInput names the path (or stream) an operation was invoked with.
	FieldInput = "input"
	// FieldEventType tags notable lifecycle events so they can be filtered.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if op, ok := services.OperationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOperation, op))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

// contextHandler stamps context fields onto records logged through the
// *Context slog methods, unless the logger already carries them.
type contextHandler struct {
	base slog.Handler
	keys map[string]struct{}
}

func newContextHandler(base slog.Handler) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &contextHandler{base: base}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, field := range ContextFields(ctx) {
		if _, ok := h.keys[field.Key]; ok {
			continue
		}
		record.AddAttrs(field)
	}
	return h.base.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	keys := make(map[string]struct{}, len(h.keys)+len(attrs))
	for k := range h.keys {
		keys[k] = struct{}{}
	}
	for _, attr := range attrs {
		keys[attr.Key] = struct{}{}
	}
	return &contextHandler{base: h.base.WithAttrs(attrs), keys: keys}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{base: h.base.WithGroup(name), keys: h.keys}
}
