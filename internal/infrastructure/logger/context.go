package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type loggerKey struct{}

type requestFieldsKey struct{}

// RequestFields identifies the caller of the current request
type RequestFields struct {
	RequestID string
	TenantID  string
	UserID    string
}

// WithContext returns a new context carrying logger
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestFields stores the request identity in ctx
func WithRequestFields(ctx context.Context, fields RequestFields) context.Context {
	return context.WithValue(ctx, requestFieldsKey{}, fields)
}

// GetRequestFields returns the request identity stored in ctx
func GetRequestFields(ctx context.Context) RequestFields {
	fields, _ := ctx.Value(requestFieldsKey{}).(RequestFields)
	return fields
}

// GetRequestID returns the request id stored in ctx
func GetRequestID(ctx context.Context) string {
	return GetRequestFields(ctx).RequestID
}

// L returns the context logger enriched with request identity and the
// active trace and span ids.
//
//	logger.L(ctx).Info("category reparented", zap.String("new_path", p))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the request identity and trace correlation from ctx to logger
func Enrich(ctx context.Context, logger *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 5)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	rf := GetRequestFields(ctx)
	if rf.RequestID != "" {
		fields = append(fields, zap.String("request_id", rf.RequestID))
	}
	if rf.TenantID != "" {
		fields = append(fields, zap.String("tenant_id", rf.TenantID))
	}
	if rf.UserID != "" {
		fields = append(fields, zap.String("user_id", rf.UserID))
	}

	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
