package openai

import (
	"github.com/openai/openai-go"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pricing"
)

// Chunk adapts one openai.ChatCompletionChunk to the normalized chunk
// view. Usage and cost only appear on the final chunk of a stream, when
// usage reporting was requested.
type Chunk struct {
	chunk *openai.ChatCompletionChunk
}

var _ call.Chunk = (*Chunk)(nil)

func NewChunk(chunk *openai.ChatCompletionChunk) *Chunk {
	return &Chunk{chunk: chunk}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (c *Chunk) Raw() *openai.ChatCompletionChunk { return c.chunk }

func (c *Chunk) Content() string {
	if len(c.chunk.Choices) == 0 {
		return ""
	}
	return c.chunk.Choices[0].Delta.Content
}

func (c *Chunk) Model() string { return c.chunk.Model }

func (c *Chunk) ID() string { return c.chunk.ID }

func (c *Chunk) FinishReasons() []string {
	var reasons []string
	for _, choice := range c.chunk.Choices {
		if choice.FinishReason != "" {
			reasons = append(reasons, string(choice.FinishReason))
		}
	}
	return reasons
}

func (c *Chunk) Usage() any { return c.chunk.Usage }

func (c *Chunk) InputTokens() (int64, bool) {
	u := c.chunk.Usage
	if u.TotalTokens == 0 {
		return 0, false
	}
	return u.PromptTokens, true
}

func (c *Chunk) OutputTokens() (int64, bool) {
	u := c.chunk.Usage
	if u.TotalTokens == 0 {
		return 0, false
	}
	return u.CompletionTokens, true
}

func (c *Chunk) ToolCallDeltas() []call.ToolCallDelta {
	if len(c.chunk.Choices) == 0 {
		return nil
	}
	delta := c.chunk.Choices[0].Delta
	if len(delta.ToolCalls) == 0 {
		return nil
	}
	deltas := make([]call.ToolCallDelta, len(delta.ToolCalls))
	for i, tc := range delta.ToolCalls {
		deltas[i] = call.ToolCallDelta{
			Index:          int(tc.Index),
			ID:             tc.ID,
			Name:           tc.Function.Name,
			ArgumentsDelta: tc.Function.Arguments,
		}
	}
	return deltas
}

func (c *Chunk) Cost() (float64, bool) {
	in, ok := c.InputTokens()
	if !ok {
		return 0, false
	}
	out, _ := c.OutputTokens()
	return pricing.Calculate(providerName, c.chunk.Model, in, out)
}
