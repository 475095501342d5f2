package ollama

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/ollama/ollama/api"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
)

// Response adapts a final api.ChatResponse to the normalized view.
// Ollama reports usage as eval counts and never exposes pricing.
type Response struct {
	resp *api.ChatResponse
}

var _ call.Response = (*Response)(nil)

func NewResponse(resp *api.ChatResponse) *Response {
	return &Response{resp: resp}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (r *Response) Raw() *api.ChatResponse { return r.resp }

func (r *Response) Content() string { return r.resp.Message.Content }

func (r *Response) Model() string { return r.resp.Model }

// ID returns "". Ollama responses carry no identifier.
func (r *Response) ID() string { return "" }

func (r *Response) FinishReasons() []string {
	if r.resp.DoneReason == "" {
		return nil
	}
	return []string{r.resp.DoneReason}
}

func (r *Response) Usage() any {
	if r.resp.PromptEvalCount == 0 && r.resp.EvalCount == 0 {
		return nil
	}
	return r.resp.Metrics
}

func (r *Response) InputTokens() (int64, bool) {
	if r.resp.PromptEvalCount == 0 && r.resp.EvalCount == 0 {
		return 0, false
	}
	return int64(r.resp.PromptEvalCount), true
}

func (r *Response) OutputTokens() (int64, bool) {
	if r.resp.PromptEvalCount == 0 && r.resp.EvalCount == 0 {
		return 0, false
	}
	return int64(r.resp.EvalCount), true
}

func (r *Response) ToolCalls() []messages.ToolCallData {
	calls := r.resp.Message.ToolCalls
	if len(calls) == 0 {
		return nil
	}
	result := make([]messages.ToolCallData, len(calls))
	for i, tc := range calls {
		args := "{}"
		if len(tc.Function.Arguments) > 0 {
			if b, err := json.Marshal(tc.Function.Arguments); err == nil {
				args = string(b)
			}
		}
		result[i] = messages.ToolCallData{
			// The server assigns no call IDs; synthesize stable ones.
			ID:        fmt.Sprintf("call_%s_%d", tc.Function.Name, i),
			Name:      tc.Function.Name,
			Arguments: args,
		}
	}
	return result
}

// Cost always reports unknown: local inference has no per-token price.
func (r *Response) Cost() (float64, bool) { return 0, false }
