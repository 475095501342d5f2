package openaicompat

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
	"github.com/calder/facet/pricing"
)

// Response adapts an openai.ChatCompletionResponse to the normalized
// view.
type Response struct {
	provider string
	resp     *openai.ChatCompletionResponse
}

var _ call.Response = (*Response)(nil)

func NewResponse(provider string, resp *openai.ChatCompletionResponse) *Response {
	return &Response{provider: provider, resp: resp}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (r *Response) Raw() *openai.ChatCompletionResponse { return r.resp }

func (r *Response) Content() string {
	if len(r.resp.Choices) == 0 {
		return ""
	}
	return r.resp.Choices[0].Message.Content
}

func (r *Response) Model() string { return r.resp.Model }

func (r *Response) ID() string { return r.resp.ID }

func (r *Response) FinishReasons() []string {
	var reasons []string
	for _, choice := range r.resp.Choices {
		if choice.FinishReason != "" {
			reasons = append(reasons, string(choice.FinishReason))
		}
	}
	return reasons
}

func (r *Response) Usage() any { return r.resp.Usage }

func (r *Response) InputTokens() (int64, bool) {
	if r.resp.Usage.TotalTokens == 0 {
		return 0, false
	}
	return int64(r.resp.Usage.PromptTokens), true
}

func (r *Response) OutputTokens() (int64, bool) {
	if r.resp.Usage.TotalTokens == 0 {
		return 0, false
	}
	return int64(r.resp.Usage.CompletionTokens), true
}

func (r *Response) ToolCalls() []messages.ToolCallData {
	if len(r.resp.Choices) == 0 {
		return nil
	}
	choice := r.resp.Choices[0].Message
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
	return pricing.Calculate(r.provider, r.resp.Model, in, out)
}
