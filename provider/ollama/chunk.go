package ollama

import (
	"github.com/goccy/go-json"
	"github.com/ollama/ollama/api"

	"github.com/calder/facet/call"
)

// Chunk adapts one streamed api.ChatResponse fragment. Ollama streams
// whole chat responses with incremental message content; eval counts
// arrive on the final fragment only.
type Chunk struct {
	resp *api.ChatResponse
}

var _ call.Chunk = (*Chunk)(nil)

func NewChunk(resp *api.ChatResponse) *Chunk {
	return &Chunk{resp: resp}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (c *Chunk) Raw() *api.ChatResponse { return c.resp }

func (c *Chunk) Content() string { return c.resp.Message.Content }

func (c *Chunk) Model() string { return c.resp.Model }

func (c *Chunk) ID() string { return "" }

func (c *Chunk) FinishReasons() []string {
	if c.resp.DoneReason == "" {
		return nil
	}
	return []string{c.resp.DoneReason}
}

func (c *Chunk) Usage() any {
	if !c.resp.Done {
		return nil
	}
	return c.resp.Metrics
}

func (c *Chunk) InputTokens() (int64, bool) {
	if !c.resp.Done {
		return 0, false
	}
	return int64(c.resp.PromptEvalCount), true
}

func (c *Chunk) OutputTokens() (int64, bool) {
	if !c.resp.Done {
		return 0, false
	}
	return int64(c.resp.EvalCount), true
}

func (c *Chunk) ToolCallDeltas() []call.ToolCallDelta {
	calls := c.resp.Message.ToolCalls
	if len(calls) == 0 {
		return nil
	}
	deltas := make([]call.ToolCallDelta, len(calls))
	for i, tc := range calls {
		args := ""
		if len(tc.Function.Arguments) > 0 {
			if b, err := json.Marshal(tc.Function.Arguments); err == nil {
				args = string(b)
			}
		}
		deltas[i] = call.ToolCallDelta{
			Index:          tc.Function.Index,
			Name:           tc.Function.Name,
			ArgumentsDelta: args,
		}
	}
	return deltas
}

func (c *Chunk) Cost() (float64, bool) { return 0, false }
