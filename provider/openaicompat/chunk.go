package openaicompat

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pricing"
)

// Chunk adapts an openai.ChatCompletionStreamResponse to the normalized
// chunk view. Usage rides on the final chunk when usage reporting was
// requested.
type Chunk struct {
	provider string
	resp     *openai.ChatCompletionStreamResponse
}

var _ call.Chunk = (*Chunk)(nil)

func NewChunk(provider string, resp *openai.ChatCompletionStreamResponse) *Chunk {
	return &Chunk{provider: provider, resp: resp}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (c *Chunk) Raw() *openai.ChatCompletionStreamResponse { return c.resp }

func (c *Chunk) Content() string {
	if len(c.resp.Choices) == 0 {
		return ""
	}
	return c.resp.Choices[0].Delta.Content
}

func (c *Chunk) Model() string { return c.resp.Model }

func (c *Chunk) ID() string { return c.resp.ID }

func (c *Chunk) FinishReasons() []string {
	var reasons []string
	for _, choice := range c.resp.Choices {
		if choice.FinishReason != "" {
			reasons = append(reasons, string(choice.FinishReason))
		}
	}
	return reasons
}

func (c *Chunk) Usage() any {
	if c.resp.Usage == nil {
		return nil
	}
	return *c.resp.Usage
}

func (c *Chunk) InputTokens() (int64, bool) {
	if c.resp.Usage == nil {
		return 0, false
	}
	return int64(c.resp.Usage.PromptTokens), true
}

func (c *Chunk) OutputTokens() (int64, bool) {
	if c.resp.Usage == nil {
		return 0, false
	}
	return int64(c.resp.Usage.CompletionTokens), true
}

func (c *Chunk) ToolCallDeltas() []call.ToolCallDelta {
	if len(c.resp.Choices) == 0 {
		return nil
	}
	delta := c.resp.Choices[0].Delta
	if len(delta.ToolCalls) == 0 {
		return nil
	}
	deltas := make([]call.ToolCallDelta, len(delta.ToolCalls))
	for i, tc := range delta.ToolCalls {
		d := call.ToolCallDelta{
			ID:             tc.ID,
			Name:           tc.Function.Name,
			ArgumentsDelta: tc.Function.Arguments,
		}
		if tc.Index != nil {
			d.Index = *tc.Index
		}
		deltas[i] = d
	}
	return deltas
}

func (c *Chunk) Cost() (float64, bool) {
	in, ok := c.InputTokens()
	if !ok {
		return 0, false
	}
	out, _ := c.OutputTokens()
	return pricing.Calculate(c.provider, c.resp.Model, in, out)
}
