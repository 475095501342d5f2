package anthropic

import (
	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pricing"
)

// Chunk adapts one Messages API stream event to the normalized chunk
// view. The Anthropic stream spreads response metadata across event
// types: message_start carries id, model and input tokens, text arrives
// in content_block_delta events, and message_delta closes with the stop
// reason and output tokens.
type Chunk struct {
	event     *anthropic.MessageStreamEventUnion
	modelName string
}

var _ call.Chunk = (*Chunk)(nil)

func NewChunk(event *anthropic.MessageStreamEventUnion, modelName string) *Chunk {
	return &Chunk{event: event, modelName: modelName}
}

// Raw exposes the SDK value for callers that need provider specifics.
func (c *Chunk) Raw() *anthropic.MessageStreamEventUnion { return c.event }

func (c *Chunk) Content() string {
	evt, ok := c.event.AsAny().(anthropic.ContentBlockDeltaEvent)
	if !ok {
		return ""
	}
	if delta, ok := evt.Delta.AsAny().(anthropic.TextDelta); ok {
		return delta.Text
	}
	return ""
}

func (c *Chunk) Model() string {
	if evt, ok := c.event.AsAny().(anthropic.MessageStartEvent); ok {
		return string(evt.Message.Model)
	}
	return ""
}

func (c *Chunk) ID() string {
	if evt, ok := c.event.AsAny().(anthropic.MessageStartEvent); ok {
		return evt.Message.ID
	}
	return ""
}

func (c *Chunk) FinishReasons() []string {
	evt, ok := c.event.AsAny().(anthropic.MessageDeltaEvent)
	if !ok || evt.Delta.StopReason == "" {
		return nil
	}
	return []string{string(evt.Delta.StopReason)}
}

func (c *Chunk) Usage() any {
	switch evt := c.event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		return evt.Message.Usage
	case anthropic.MessageDeltaEvent:
		return evt.Usage
	default:
		return nil
	}
}

func (c *Chunk) InputTokens() (int64, bool) {
	if evt, ok := c.event.AsAny().(anthropic.MessageStartEvent); ok {
		return evt.Message.Usage.InputTokens, true
	}
	return 0, false
}

func (c *Chunk) OutputTokens() (int64, bool) {
	if evt, ok := c.event.AsAny().(anthropic.MessageDeltaEvent); ok {
		return evt.Usage.OutputTokens, true
	}
	return 0, false
}

func (c *Chunk) ToolCallDeltas() []call.ToolCallDelta {
	switch evt := c.event.AsAny().(type) {
	case anthropic.ContentBlockStartEvent:
		if block, ok := evt.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
			return []call.ToolCallDelta{{
				Index: int(evt.Index),
				ID:    block.ID,
				Name:  block.Name,
			}}
		}
	case anthropic.ContentBlockDeltaEvent:
		if delta, ok := evt.Delta.AsAny().(anthropic.InputJSONDelta); ok && delta.PartialJSON != "" {
			return []call.ToolCallDelta{{
				Index:          int(evt.Index),
				ArgumentsDelta: delta.PartialJSON,
			}}
		}
	}
	return nil
}

// Cost reports on the closing message_delta event, when output tokens
// become known.
func (c *Chunk) Cost() (float64, bool) {
	evt, ok := c.event.AsAny().(anthropic.MessageDeltaEvent)
	if !ok {
		return 0, false
	}
	return pricing.Calculate(providerName, c.modelName, evt.Usage.InputTokens, evt.Usage.OutputTokens)
}
