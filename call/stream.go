package call

import (
	"iter"
	"strings"

	"github.com/calder/facet/messages"
	"github.com/calder/facet/thread"
)

// TextField names where the accumulated assistant text lives in a
// provider's wire message shape. Most chat providers put it under
// "content"; completion-style providers use a bare "message" field.
// Declaring this per provider replaces runtime shape sniffing.
type TextField uint8

const (
	// TextFieldContent stores accumulated text under the "content" key.
	TextFieldContent TextField = iota
	// TextFieldMessage stores accumulated text under the "message" key.
	TextFieldMessage
)

func (f TextField) key() string {
	if f == TextFieldMessage {
		return "message"
	}
	return "content"
}

// Stream accumulates provider chunks into a growing response while the
// caller consumes them. It starts accumulating and flips to done only
// when the underlying sequence is exhausted without error; a consumer
// that stops early leaves the stream accumulating with whatever partial
// state was gathered. Iteration is single-consumption: after the stream
// is done, further Iter calls yield nothing.
type Stream struct {
	source    iter.Seq2[Chunk, error]
	textField TextField

	content   strings.Builder
	toolCalls []messages.ToolCallData
	usage     thread.Usage
	model     string
	id        string
	finish    []string
	cost      *float64
	consumed  bool
	done      bool
}

// NewStream wraps a provider chunk sequence. The text field tells
// MessageParam and WireParam where to place accumulated content for this
// provider's message shape.
func NewStream(source iter.Seq2[Chunk, error], textField TextField) *Stream {
	return &Stream{source: source, textField: textField}
}

// Iter yields each chunk to the consumer after folding it into the
// accumulated state. A transport error ends iteration with the error as
// the second value; the stream stays in its accumulating state. When the
// source is exhausted cleanly the stream becomes done.
func (s *Stream) Iter() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		if s.consumed {
			return
		}
		s.consumed = true
		for chunk, err := range s.source {
			if err != nil {
				yield(nil, err)
				return
			}
			s.fold(chunk)
			if !yield(chunk, nil) {
				return
			}
		}
		s.done = true
	}
}

func (s *Stream) fold(chunk Chunk) {
	s.content.WriteString(chunk.Content())
	s.mergeToolDeltas(chunk.ToolCallDeltas())
	if m := chunk.Model(); m != "" {
		s.model = m
	}
	if id := chunk.ID(); id != "" {
		s.id = id
	}
	if fr := chunk.FinishReasons(); len(fr) > 0 {
		s.finish = fr
	}
	if in, ok := chunk.InputTokens(); ok {
		s.usage.InputTokens = in
	}
	if out, ok := chunk.OutputTokens(); ok {
		s.usage.OutputTokens = out
	}
	s.usage.TotalTokens = s.usage.InputTokens + s.usage.OutputTokens
	// Cost is authoritative per chunk, not additive: the newest
	// non-null figure already covers the whole call so far.
	if c, ok := chunk.Cost(); ok {
		s.cost = &c
	}
}

// mergeToolDeltas folds streamed tool call fragments into complete tool
// calls. Fragments carry an index; the first fragment at an index opens
// the call, later ones append argument text.
func (s *Stream) mergeToolDeltas(deltas []ToolCallDelta) {
	for _, d := range deltas {
		for d.Index >= len(s.toolCalls) {
			s.toolCalls = append(s.toolCalls, messages.ToolCallData{})
		}
		tc := &s.toolCalls[d.Index]
		if d.ID != "" {
			tc.ID = d.ID
		}
		if d.Name != "" {
			tc.Name = d.Name
		}
		tc.Arguments += d.ArgumentsDelta
	}
}

// Done reports whether the source was consumed to exhaustion.
func (s *Stream) Done() bool { return s.done }

// Content returns the text accumulated so far.
func (s *Stream) Content() string { return s.content.String() }

// Model returns the last model identifier observed in a chunk.
func (s *Stream) Model() string { return s.model }

// ID returns the last response identifier observed in a chunk.
func (s *Stream) ID() string { return s.id }

// FinishReasons returns the most recent finish reasons, nil before any
// chunk carried them.
func (s *Stream) FinishReasons() []string { return s.finish }

// ToolCalls returns the tool calls assembled from streamed fragments.
// Indexes that never received a fragment (providers that number all
// content blocks, not just tool calls) are dropped.
func (s *Stream) ToolCalls() []messages.ToolCallData {
	out := make([]messages.ToolCallData, 0, len(s.toolCalls))
	for _, tc := range s.toolCalls {
		if tc.ID == "" && tc.Name == "" && tc.Arguments == "" {
			continue
		}
		out = append(out, tc)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Usage returns the token counts accumulated so far.
func (s *Stream) Usage() thread.Usage { return s.usage }

// Cost returns the most recent per-chunk cost figure. The second value
// is false until some chunk reported one.
func (s *Stream) Cost() (float64, bool) {
	if s.cost == nil {
		return 0, false
	}
	return *s.cost, true
}

// MessageParam renders the accumulated assistant turn for appending to
// a thread, so a streamed call leaves the same history a complete call
// would.
func (s *Stream) MessageParam() messages.AssistantMessage {
	return messages.AssistantMessage{
		Content: messages.AssistantContentOrParts{Content: s.content.String()},
	}
}

// WireParam renders the accumulated turn in the provider's wire shape,
// placing text under the field this provider uses.
func (s *Stream) WireParam() map[string]any {
	return map[string]any{
		"role":         "assistant",
		s.textField.key(): s.content.String(),
	}
}
