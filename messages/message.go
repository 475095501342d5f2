package messages

import (
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ModelMessage is the sealed union of every message payload that can
// travel to or from a model.
type ModelMessage interface {
	message()
}

// Request marks payloads that flow toward the model.
type Request interface {
	ModelMessage
	request()
}

// Response marks payloads produced by the model.
type Response interface {
	ModelMessage
	response()
}

// Message is the envelope around one payload. RunID identifies the overall
// generation run, TurnID the thread turn that produced the payload.
type Message[T ModelMessage] struct {
	RunID     uuid.UUID       `json:"run_id,omitempty"`
	TurnID    uuid.UUID       `json:"turn_id,omitempty"`
	Payload   T               `json:"payload"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

// InstructionsMessage carries the system prompt.
type InstructionsMessage struct {
	Content string `json:"content"`
	_       struct{}
}

func (InstructionsMessage) message() {}
func (InstructionsMessage) request() {}

// UserMessage is user input, either plain text or multi-part content.
type UserMessage struct {
	Content ContentOrParts `json:"content"`
	_       struct{}
}

func (UserMessage) message() {}
func (UserMessage) request() {}

// AssistantMessage is a model reply carrying text content and, for
// providers that support it, a refusal.
type AssistantMessage struct {
	Content AssistantContentOrParts `json:"content"`
	Refusal string                  `json:"refusal,omitempty"`
	_       struct{}
}

func (AssistantMessage) message()  {}
func (AssistantMessage) response() {}

// ToolCallData is one raw tool-call payload as reported by a provider:
// the call identifier, the tool name, and the serialized JSON arguments.
type ToolCallData struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCallMessage is a model reply requesting one or more tool invocations.
type ToolCallMessage struct {
	ToolCalls []ToolCallData `json:"tool_calls"`
	_         struct{}
}

func (ToolCallMessage) message()  {}
func (ToolCallMessage) response() {}

// ToolResponse carries the result of a tool invocation back to the model.
type ToolResponse struct {
	ToolName   string `json:"tool_name"`
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	_          struct{}
}

func (ToolResponse) message() {}
func (ToolResponse) request() {}
