package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func tracedContext() context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestStartSpan(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		spanName  string
		wantChild bool
	}{
		{name: "handler span", ctx: tracedContext(), spanName: "httpapi.Handler.RecordEvent", wantChild: true},
		{name: "middleware span", ctx: tracedContext(), spanName: "httpapi.RequestLogging"},
		{name: "helper span", ctx: tracedContext(), spanName: "httpapi.writeError"},
		{name: "untraced request", ctx: context.Background(), spanName: "httpapi.Handler.Healthz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, span := startSpan(tt.ctx, tt.spanName)
			defer span.End()

			if tt.wantChild {
				if !span.SpanContext().IsValid() {
					t.Fatalf("expected span under traced parent for %q", tt.spanName)
				}
				return
			}
			if span != noopSpan {
				t.Fatalf("expected noop span for %q", tt.spanName)
			}
			if ctx != tt.ctx {
				t.Fatalf("expected context unchanged for %q", tt.spanName)
			}
		})
	}
}
