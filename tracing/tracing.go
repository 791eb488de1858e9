// Package tracing reports runtime scheduling events as OpenTelemetry spans.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	sig "github.com/AnatoleLucet/signalgraph"
)

const defaultTracerName = "github.com/AnatoleLucet/signalgraph"

// Config configures the OpenTelemetry observer.
type Config struct {
	// TracerName is the name of the tracer.
	TracerName string

	// TracerProvider provides the tracer (default: the global provider).
	TracerProvider trace.TracerProvider

	// Context is the parent of every span (default: context.Background()).
	Context context.Context

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = provider
	}
}

// WithContext parents the spans to the span carried by ctx.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Observer emits a span per propagation pass, and an error span per failed
// computation or aborted flush.
type Observer struct {
	config Config
	tracer trace.Tracer
}

var _ sig.Observer = (*Observer)(nil)

func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	provider := config.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &Observer{
		config: config,
		tracer: provider.Tracer(config.TracerName),
	}
}

// PassCompleted records the pass after the fact, backdating the span to when it started.
func (o *Observer) PassCompleted(stats sig.PassStats) {
	end := time.Now()

	attrs := append([]attribute.KeyValue{
		attribute.Int64("sig.pass", int64(stats.Pass)),
		attribute.Int("sig.runs", stats.Runs),
		attribute.Int("sig.effect_runs", stats.EffectRuns),
		attribute.Int("sig.deferred", stats.Deferred),
		attribute.Int("sig.writes", stats.Writes),
		attribute.Int("sig.failures", stats.Failures),
	}, o.config.Attributes...)

	_, span := o.tracer.Start(
		o.config.Context,
		"sig.pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-stats.Duration)),
	)

	if stats.Failures > 0 {
		span.SetStatus(codes.Error, "computation failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(end))
}

func (o *Observer) ComputationFailed(id uint64, kind sig.Kind, err error) {
	attrs := append([]attribute.KeyValue{
		attribute.Int64("sig.id", int64(id)),
		attribute.String("sig.kind", kind.String()),
	}, o.config.Attributes...)

	_, span := o.tracer.Start(o.config.Context, "sig.computation", trace.WithAttributes(attrs...))
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (o *Observer) DeferralLimitExceeded(passes int) {
	attrs := append([]attribute.KeyValue{
		attribute.Int("sig.passes", passes),
	}, o.config.Attributes...)

	_, span := o.tracer.Start(o.config.Context, "sig.deferral_limit", trace.WithAttributes(attrs...))
	defer span.End()

	span.RecordError(sig.ErrDeferralLimit)
	span.SetStatus(codes.Error, sig.ErrDeferralLimit.Error())
}
