package call

import "github.com/calder/facet/messages"

// Response is the normalized read-only view over exactly one completed
// provider response. Implementations wrap the raw SDK value and derive
// every accessor on each call; they hold no duplicated state.
//
// Content returns the text of the first choice, or "" when the response
// carries no textual content. It never panics on empty responses.
type Response interface {
	Content() string
	Model() string
	ID() string

	// FinishReasons returns the provider's stop codes, or nil when the
	// response carries none.
	FinishReasons() []string

	// Usage returns the provider-native usage value untouched, or nil.
	Usage() any
	InputTokens() (int64, bool)
	OutputTokens() (int64, bool)

	// ToolCalls returns the raw tool-call payloads of the first choice.
	ToolCalls() []messages.ToolCallData

	// Cost returns the call cost in USD when a price is known for the model.
	Cost() (float64, bool)
}

// Chunk is the streaming analogue of Response: the normalized view over
// one incremental fragment. Chunks are ephemeral; the Stream accumulator
// consumes and discards them.
type Chunk interface {
	Content() string
	Model() string
	ID() string
	FinishReasons() []string
	Usage() any
	InputTokens() (int64, bool)
	OutputTokens() (int64, bool)

	// ToolCallDeltas returns this fragment's partial tool-call data, if any.
	ToolCallDeltas() []ToolCallDelta

	Cost() (float64, bool)
}

// ToolCallDelta is one fragment of a tool call under construction during
// streaming. Index correlates fragments that belong to the same call.
type ToolCallDelta struct {
	Index          int
	ID             string
	Name           string
	ArgumentsDelta string
	_              struct{}
}
