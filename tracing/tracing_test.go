package tracing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	sig "github.com/AnatoleLucet/signalgraph"
)

type recordedSpan struct {
	noop.Span

	name   string
	attrs  []attribute.KeyValue
	start  time.Time
	end    time.Time
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordedSpan) End(opts ...trace.SpanEndOption) {
	cfg := trace.NewSpanEndConfig(opts...)
	s.end = cfg.Timestamp()
	s.ended = true
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}

func (s *recordedSpan) attr(key string) attribute.Value {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

type recordingTracer struct {
	noop.Tracer

	spans []*recordedSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	config := trace.NewSpanStartConfig(opts...)
	span := &recordedSpan{
		name:  name,
		attrs: config.Attributes(),
		start: config.Timestamp(),
	}
	t.spans = append(t.spans, span)

	return trace.ContextWithSpan(ctx, span), span
}

type recordingProvider struct {
	noop.TracerProvider

	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func newRecorder() (*recordingProvider, *recordingTracer) {
	tracer := &recordingTracer{}
	return &recordingProvider{tracer: tracer}, tracer
}

func TestObserver(t *testing.T) {
	t.Run("one span per pass", func(t *testing.T) {
		provider, tracer := newRecorder()
		obs := New(WithTracerProvider(provider), WithAttributes(attribute.String("graph", "test")))
		rt := sig.NewRuntime(sig.WithObserver(obs))

		count := sig.NewSignal(rt, 0)
		double := sig.NewComputed(rt, func() int { return count.Read() * 2 })
		sig.NewEffect(rt, func() { double.Read() })

		count.Write(1)
		count.Write(2)

		require.Len(t, tracer.spans, 2)
		for i, span := range tracer.spans {
			assert.Equal(t, "sig.pass", span.name)
			assert.True(t, span.ended)
			assert.Equal(t, codes.Ok, span.status)
			assert.Equal(t, int64(i+1), span.attr("sig.pass").AsInt64())
			assert.Equal(t, int64(2), span.attr("sig.runs").AsInt64())
			assert.Equal(t, int64(1), span.attr("sig.effect_runs").AsInt64())
			assert.Equal(t, "test", span.attr("graph").AsString())
			assert.False(t, span.end.Before(span.start))
		}
	})

	t.Run("failures", func(t *testing.T) {
		provider, tracer := newRecorder()
		obs := New(WithTracerProvider(provider))
		rt := sig.NewRuntime(sig.WithObserver(obs), sig.WithErrorHandler(func(error) {}))

		count := sig.NewSignal(rt, 0)
		effect := sig.NewEffect(rt, func() {
			if count.Read() > 0 {
				panic("boom")
			}
		})

		count.Write(1)

		require.Len(t, tracer.spans, 2)

		failed := tracer.spans[0]
		assert.Equal(t, "sig.computation", failed.name)
		assert.Equal(t, codes.Error, failed.status)
		assert.Equal(t, int64(effect.ID()), failed.attr("sig.id").AsInt64())
		assert.Equal(t, "effect", failed.attr("sig.kind").AsString())
		require.Len(t, failed.errs, 1)
		assert.EqualError(t, failed.errs[0], "sig: panic: boom")

		pass := tracer.spans[1]
		assert.Equal(t, "sig.pass", pass.name)
		assert.Equal(t, codes.Error, pass.status)
		assert.Equal(t, int64(1), pass.attr("sig.failures").AsInt64())
	})

	t.Run("deferral limit", func(t *testing.T) {
		provider, tracer := newRecorder()
		obs := New(WithTracerProvider(provider))
		rt := sig.NewRuntime(
			sig.WithObserver(obs),
			sig.WithMaxPasses(2),
			sig.WithLogger(slog.New(slog.DiscardHandler)),
		)

		count := sig.NewSignal(rt, 0)
		sig.NewEffect(rt, func() { count.Write(count.Read() + 1) })

		require.Len(t, tracer.spans, 3)
		limit := tracer.spans[2]
		assert.Equal(t, "sig.deferral_limit", limit.name)
		assert.Equal(t, int64(2), limit.attr("sig.passes").AsInt64())
		assert.ErrorIs(t, limit.errs[0], sig.ErrDeferralLimit)
	})

	t.Run("uses the global provider by default", func(t *testing.T) {
		obs := New()
		rt := sig.NewRuntime(sig.WithObserver(obs))

		count := sig.NewSignal(rt, 0)
		sig.NewEffect(rt, func() { count.Read() })

		assert.NotPanics(t, func() { count.Write(1) })
	})
}
