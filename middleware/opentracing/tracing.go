package opentracing

import (
	"context"

	"github.com/fyerfyer/fyer-session/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type MiddlewareBuilder struct {
	Tracer trace.Tracer
	// Backend 写入 db.system 属性，例如 mysql、redis
	Backend string
}

const defaultInstrumentationName = "github.com/fyerfyer/fyer-session"

// Build 为每次存储调用创建一个 span，失败时记录错误
func (m *MiddlewareBuilder) Build() session.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(defaultInstrumentationName)
	}

	return session.Intercept(func(ctx context.Context, inv session.Invocation, next func(ctx context.Context) error) error {
		ctx, span := m.Tracer.Start(ctx, "session."+string(inv.Op), trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		span.SetAttributes(attribute.String("session.op", string(inv.Op)))
		if inv.ID != "" {
			span.SetAttributes(attribute.String("session.id", inv.ID))
		}
		if m.Backend != "" {
			span.SetAttributes(attribute.String("db.system", m.Backend))
		}
		span.SetAttributes(attribute.String("component", "session"))

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	})
}
