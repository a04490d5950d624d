// Package otel exports a span per API call, built from eventbus events.
package otel

import (
	"context"
	"sync"

	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	events "github.com/innabox/fulfillment-console/internal/events"
	reqid "github.com/innabox/fulfillment-console/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/innabox/fulfillment-console"

// Setup configures an OTLP/gRPC trace exporter and attaches eventbus
// subscribers. If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	detach := newSubscriber(otel.Tracer(instrumentationName)).register()

	return func(ctx context.Context) error {
		detach()
		return tp.Shutdown(ctx)
	}, nil
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // rid -> trace.Span
}

func newSubscriber(tracer trace.Tracer) *subscriber { return &subscriber{tracer: tracer} }

func (s *subscriber) register() (detach func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.CallStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, e.Service+"/"+e.Method, trace.WithSpanKind(trace.SpanKindClient))
			span.SetAttributes(
				semconv.RPCSystemKey.String(e.Protocol),
				semconv.RPCServiceKey.String(e.Service),
				semconv.RPCMethodKey.String(e.Method),
			)
			s.spans.Store(rid, span)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.ConfigResolved) {
			// Resolution happens inside the first call, so it is recorded on
			// that call's span.
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.spans.Load(rid)
			if !ok {
				return
			}
			attrs := []attribute.KeyValue{attribute.String("fulfillment.api_url", e.URL)}
			if e.Err != nil {
				attrs = append(attrs, attribute.String("error", e.Err.Error()))
			}
			v.(trace.Span).AddEvent("config.resolved", trace.WithAttributes(attrs...))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.CallFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.spans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(
				attribute.String("grpc.code", e.Code.String()),
				attribute.String("net.peer.name", e.Target),
			)
			if e.HTTPStatus != 0 {
				span.SetAttributes(semconv.HTTPStatusCodeKey.Int(e.HTTPStatus))
			}
			if e.Err != nil {
				span.RecordError(e.Err)
				span.SetStatus(codes.Error, e.Code.String())
			}
			span.End()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
