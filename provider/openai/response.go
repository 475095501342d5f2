package openai

import (
	"github.com/openai/openai-go"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
	"github.com/calder/facet/pricing"
)

// Response adapts an openai.ChatCompletion to the normalized response
// view. Accessors read straight from the wrapped value.
type Response struct {
	completion *openai.ChatCompletion
}

var _ call.Response = (*Response)(nil)

func NewResponse(completion *openai.ChatCompletion) *Response {
	return &Response{completion: completion}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (r *Response) Raw() *openai.ChatCompletion { return r.completion }

func (r *Response) Content() string {
	if len(r.completion.Choices) == 0 {
		return ""
	}
	return r.completion.Choices[0].Message.Content
}

func (r *Response) Model() string { return r.completion.Model }

func (r *Response) ID() string { return r.completion.ID }

func (r *Response) FinishReasons() []string {
	var reasons []string
	for _, choice := range r.completion.Choices {
		if choice.FinishReason != "" {
			reasons = append(reasons, string(choice.FinishReason))
		}
	}
	return reasons
}

func (r *Response) Usage() any { return r.completion.Usage }

func (r *Response) InputTokens() (int64, bool) {
	u := r.completion.Usage
	if u.TotalTokens == 0 {
		return 0, false
	}
	return u.PromptTokens, true
}

func (r *Response) OutputTokens() (int64, bool) {
	u := r.completion.Usage
	if u.TotalTokens == 0 {
		return 0, false
	}
	return u.CompletionTokens, true
}

func (r *Response) ToolCalls() []messages.ToolCallData {
	if len(r.completion.Choices) == 0 {
		return nil
	}
	choice := r.completion.Choices[0].Message
	if len(choice.ToolCalls) == 0 {
		return nil
	}
	tcd := make([]messages.ToolCallData, len(choice.ToolCalls))
	for i, tc := range choice.ToolCalls {
		tcd[i] = messages.ToolCallData{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return tcd
}

func (r *Response) Cost() (float64, bool) {
	in, ok := r.InputTokens()
	if !ok {
		return 0, false
	}
	out, _ := r.OutputTokens()
	return pricing.Calculate(providerName, r.completion.Model, in, out)
}
