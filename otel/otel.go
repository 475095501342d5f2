// Package otel decorates trace spans with gen_ai.* attributes and
// content events for model calls. It only talks to the OpenTelemetry
// API; installing a tracer provider and exporters is the application's
// job.
package otel

import (
	"context"

	"github.com/goccy/go-json"
	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/calder/facet/call"
	"github.com/calder/facet/provider"
)

const instrumentationName = "github.com/calder/facet/otel"

// Tracer returns this library's tracer from the globally registered
// provider.
func Tracer() trace.Tracer {
	return otelapi.Tracer(instrumentationName)
}

// Start opens a span for one model call. End the span after recording
// the outcome with RecordResponse or RecordStream.
func Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// RequestAttributes describes the assembled call: the backend, the
// requested model and the sampling parameters that were set.
func RequestAttributes(inv *provider.Invocation) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.system", inv.ProviderName),
		attribute.String("gen_ai.request.model", inv.Kwargs.Model),
	}
	if inv.PromptTemplate != "" {
		attrs = append(attrs, attribute.String("gen_ai.prompt_template", inv.PromptTemplate))
	}
	if p := inv.Kwargs.Params; p != nil {
		if p.MaxTokens != nil {
			attrs = append(attrs, attribute.Int64("gen_ai.request.max_tokens", *p.MaxTokens))
		}
		if p.Temperature != nil {
			attrs = append(attrs, attribute.Float64("gen_ai.request.temperature", *p.Temperature))
		}
		if p.TopP != nil {
			attrs = append(attrs, attribute.Float64("gen_ai.request.top_p", *p.TopP))
		}
	}
	return attrs
}

// ResponseAttributes describes one completed response. Usage and cost
// attributes appear only when the provider reported them.
func ResponseAttributes(resp call.Response) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.response.model", resp.Model()),
		attribute.String("gen_ai.response.id", resp.ID()),
	}
	if reasons := resp.FinishReasons(); len(reasons) > 0 {
		attrs = append(attrs, attribute.StringSlice("gen_ai.response.finish_reasons", reasons))
	}
	if in, ok := resp.InputTokens(); ok {
		attrs = append(attrs, attribute.Int64("gen_ai.usage.input_tokens", in))
	}
	if out, ok := resp.OutputTokens(); ok {
		attrs = append(attrs, attribute.Int64("gen_ai.usage.output_tokens", out))
	}
	if cost, ok := resp.Cost(); ok {
		attrs = append(attrs, attribute.Float64("gen_ai.usage.cost", cost))
	}
	return attrs
}

// StreamAttributes describes one exhausted stream.
func StreamAttributes(s *call.Stream) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.response.model", s.Model()),
		attribute.String("gen_ai.response.id", s.ID()),
	}
	if reasons := s.FinishReasons(); len(reasons) > 0 {
		attrs = append(attrs, attribute.StringSlice("gen_ai.response.finish_reasons", reasons))
	}
	if usage := s.Usage(); usage.TotalTokens > 0 {
		attrs = append(attrs,
			attribute.Int64("gen_ai.usage.input_tokens", usage.InputTokens),
			attribute.Int64("gen_ai.usage.output_tokens", usage.OutputTokens),
		)
	}
	if cost, ok := s.Cost(); ok {
		attrs = append(attrs, attribute.Float64("gen_ai.usage.cost", cost))
	}
	return attrs
}

// RecordResponse attaches the request and response attributes to span
// and emits the prompt and completion content events.
func RecordResponse(span trace.Span, inv *provider.Invocation, resp call.Response) {
	if span == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(append(RequestAttributes(inv), ResponseAttributes(resp)...)...)
	addContentEvents(span, inv, map[string]any{
		"role":    "assistant",
		"content": resp.Content(),
	})
}

// RecordStream attaches the request and accumulated stream attributes
// to span and emits the prompt and completion content events. Call it
// after the stream is exhausted.
func RecordStream(span trace.Span, inv *provider.Invocation, s *call.Stream) {
	if span == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(append(RequestAttributes(inv), StreamAttributes(s)...)...)
	addContentEvents(span, inv, s.WireParam())
}

func addContentEvents(span trace.Span, inv *provider.Invocation, completion map[string]any) {
	if prompt := lastUserMessage(inv.Messages); prompt != nil {
		if b, err := json.Marshal(prompt); err == nil {
			span.AddEvent("gen_ai.content.prompt",
				trace.WithAttributes(attribute.String("gen_ai.prompt", string(b))))
		}
	}
	if b, err := json.Marshal(completion); err == nil {
		span.AddEvent("gen_ai.content.completion",
			trace.WithAttributes(attribute.String("gen_ai.completion", string(b))))
	}
}

func lastUserMessage(wire []map[string]any) map[string]any {
	for i := len(wire) - 1; i >= 0; i-- {
		if role, _ := wire[i]["role"].(string); role == "user" {
			return wire[i]
		}
	}
	return nil
}
