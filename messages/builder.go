package messages

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// Builder constructs message envelopes with a shared sender and fresh
// timestamps. The zero value is usable; New reads better at call sites.
type Builder struct {
	sender string
	_      struct{}
}

func New() Builder {
	return Builder{}
}

// WithSender returns a copy of the builder that stamps messages with the
// given sender.
func (b Builder) WithSender(sender string) Builder {
	b.sender = sender
	return b
}

// Instructions builds a system prompt message.
func (b Builder) Instructions(content string) Message[InstructionsMessage] {
	return envelope(b, InstructionsMessage{Content: content})
}

// UserPrompt builds a plain-text user message.
func (b Builder) UserPrompt(content string) Message[UserMessage] {
	return envelope(b, UserMessage{Content: ContentOrParts{Content: content}})
}

// UserPromptParts builds a multi-part user message.
func (b Builder) UserPromptParts(parts ...ContentPart) Message[UserMessage] {
	return envelope(b, UserMessage{Content: ContentOrParts{Parts: parts}})
}

// AssistantMessage builds a plain-text assistant message.
func (b Builder) AssistantMessage(content string) Message[AssistantMessage] {
	return envelope(b, AssistantMessage{Content: AssistantContentOrParts{Content: content}})
}

// ToolCall builds an assistant tool-call message.
func (b Builder) ToolCall(calls ...ToolCallData) Message[ToolCallMessage] {
	return envelope(b, ToolCallMessage{ToolCalls: calls})
}

// ToolResponse builds the reply for one completed tool invocation.
func (b Builder) ToolResponse(callID, toolName, content string) Message[ToolResponse] {
	return envelope(b, ToolResponse{ToolCallID: callID, ToolName: toolName, Content: content})
}

func envelope[T ModelMessage](b Builder, payload T) Message[T] {
	return Message[T]{
		Payload:   payload,
		Sender:    b.sender,
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

// EraseType converts a Message[T] to Message[ModelMessage] while keeping
// every envelope field. The conversion is safe because T is constrained
// to ModelMessage.
func EraseType[T ModelMessage](m Message[T]) Message[ModelMessage] {
	return Message[ModelMessage]{
		RunID:     m.RunID,
		TurnID:    m.TurnID,
		Payload:   m.Payload,
		Sender:    m.Sender,
		Timestamp: m.Timestamp,
		Meta:      m.Meta,
	}
}
