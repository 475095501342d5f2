package anthropic

import (
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/goccy/go-json"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
	"github.com/calder/facet/pricing"
)

// Response adapts an anthropic.Message to the normalized response view.
type Response struct {
	message *anthropic.Message
}

var _ call.Response = (*Response)(nil)

func NewResponse(message *anthropic.Message) *Response {
	return &Response{message: message}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (r *Response) Raw() *anthropic.Message { return r.message }

func (r *Response) Content() string {
	var sb strings.Builder
	for _, blockUnion := range r.message.Content {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

func (r *Response) Model() string { return string(r.message.Model) }

func (r *Response) ID() string { return r.message.ID }

func (r *Response) FinishReasons() []string {
	if r.message.StopReason == "" {
		return nil
	}
	return []string{string(r.message.StopReason)}
}

func (r *Response) Usage() any { return r.message.Usage }

func (r *Response) InputTokens() (int64, bool) {
	u := r.message.Usage
	if u.InputTokens == 0 && u.OutputTokens == 0 {
		return 0, false
	}
	return u.InputTokens, true
}

func (r *Response) OutputTokens() (int64, bool) {
	u := r.message.Usage
	if u.InputTokens == 0 && u.OutputTokens == 0 {
		return 0, false
	}
	return u.OutputTokens, true
}

func (r *Response) ToolCalls() []messages.ToolCallData {
	var tcd []messages.ToolCallData
	for _, blockUnion := range r.message.Content {
		block, ok := blockUnion.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}

		args := "{}"
		if block.Input != nil {
			if data, err := json.Marshal(block.Input); err == nil {
				args = string(data)
			}
		}
		tcd = append(tcd, messages.ToolCallData{
			ID:        block.ID,
			Name:      block.Name,
			Arguments: args,
		})
	}
	return tcd
}

func (r *Response) Cost() (float64, bool) {
	in, ok := r.InputTokens()
	if !ok {
		return 0, false
	}
	out, _ := r.OutputTokens()
	return pricing.Calculate(providerName, string(r.message.Model), in, out)
}
