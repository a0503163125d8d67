package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_DisabledWithoutEndpoint(t *testing.T) {
	tp, err := InitTracing(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tp.Enabled() {
		t.Error("Expected tracing to be disabled")
	}
	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("Expected a no-op span")
	}
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected nil shutdown error, got %v", err)
	}
}

func TestSessionInjector(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sessionInjector{}),
		sdktrace.WithSpanProcessor(rec),
	)
	ctx := WithSessionID(context.Background(), "sess-1")
	_, span := tp.Tracer("test").Start(ctx, "cycle")
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(ended))
	}
	found := false
	for _, kv := range ended[0].Attributes() {
		if kv.Key == "session.id" && kv.Value.AsString() == "sess-1" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected session.id attribute, got %v", ended[0].Attributes())
	}
}

func TestSessionIDFromContext_Empty(t *testing.T) {
	if got := SessionIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty id, got %q", got)
	}
}

func TestGenAIAttributes(t *testing.T) {
	attrs := GenAIAttributes("chat", "gpt-4", 12, 0)
	want := map[attribute.Key]string{
		"gen_ai.operation.name": "chat",
		"gen_ai.system":         "openai",
		"gen_ai.request.model":  "gpt-4",
	}
	for _, kv := range attrs {
		if v, ok := want[kv.Key]; ok && kv.Value.AsString() != v {
			t.Errorf("%s: expected %q, got %q", kv.Key, v, kv.Value.AsString())
		}
		if kv.Key == "gen_ai.usage.output_tokens" {
			t.Error("Expected zero output tokens to be omitted")
		}
	}
	if len(attrs) != 4 {
		t.Errorf("Expected 4 attributes, got %d", len(attrs))
	}
}
