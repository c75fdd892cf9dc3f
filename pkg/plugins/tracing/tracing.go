// Package tracing starts an OpenTelemetry span for every store action.
//
//	r := store.NewRegistry(store.WithPlugins(tracing.Plugin(
//	    tracing.WithTracerName("my-app"),
//	)))
//
// The tracer comes from the global OpenTelemetry tracer provider unless one
// is given with WithTracerProvider. Configure it in main() before stores are
// constructed:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// A span ends when the action settles. For an action returning a *store.Future
// that is when the future settles, not when the action function returns.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vstore/pkg/store"
)

// Default tracer name for store spans.
const defaultTracerName = "vstore"

// Config configures the tracing plugin.
type Config struct {
	// TracerName is the name of the tracer (default: "vstore").
	TracerName string

	// TracerProvider supplies the tracer. If nil, otel.GetTracerProvider()
	// is used.
	TracerProvider trace.TracerProvider

	// IncludeArgs adds the argument count as a span attribute.
	IncludeArgs bool

	// Filter determines which actions to trace.
	// If nil, all actions are traced.
	Filter func(call *store.ActionContext) bool

	// AttributeExtractor adds custom attributes for each traced action.
	AttributeExtractor func(call *store.ActionContext) []attribute.KeyValue
}

// Option configures the tracing plugin.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithIncludeArgs enables recording the argument count.
func WithIncludeArgs(include bool) Option {
	return func(c *Config) {
		c.IncludeArgs = include
	}
}

// WithActionFilter sets a filter function for actions.
func WithActionFilter(filter func(call *store.ActionContext) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(call *store.ActionContext) []attribute.KeyValue) Option {
	return func(c *Config) {
		c.AttributeExtractor = extractor
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
	}
}

// Plugin returns a store plugin that traces every action of the stores it is
// installed on.
func Plugin(opts ...Option) store.Plugin {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(ctx store.PluginContext) {
		ctx.Store.OnAction(func(call *store.ActionContext) {
			if config.Filter != nil && !config.Filter(call) {
				return
			}

			attrs := []attribute.KeyValue{
				attribute.String("vstore.store", call.StoreID()),
				attribute.String("vstore.action", call.Name),
				attribute.String("vstore.registry", ctx.Registry.ID()),
			}
			if config.IncludeArgs {
				attrs = append(attrs, attribute.Int("vstore.args", len(call.Args)))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(call)...)
			}

			_, span := tracer.Start(
				context.Background(),
				spanName(call),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)

			call.After(func(any) any {
				span.SetStatus(codes.Ok, "")
				span.End()
				return nil
			})
			call.OnError(func(err error) {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.End()
			})
		})
	}
}

func spanName(call *store.ActionContext) string {
	return fmt.Sprintf("vstore %s.%s", call.StoreID(), call.Name)
}
