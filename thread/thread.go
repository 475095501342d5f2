// Package thread manages the call history for a generation run: message
// aggregation, forking and joining for tool-call turns, and usage
// accounting.
package thread

import (
	"iter"
	"slices"

	"github.com/calder/facet/messages"
	"github.com/calder/facet/pkg/uuidx"
	"github.com/google/uuid"
)

// Thread owns an ordered collection of messages and the usage accumulated
// while producing them. Forking yields an independent copy for a turn;
// joining folds the turn's new messages and usage back in.
type Thread struct {
	id       uuid.UUID
	messages []messages.Message[messages.ModelMessage]
	initLen  int
	usage    Usage
}

func New() *Thread {
	return &Thread{
		id:       uuidx.New(),
		messages: make([]messages.Message[messages.ModelMessage], 0),
	}
}

// ID returns the unique identifier of this thread. A forked thread gets
// its own ID, which doubles as the turn identifier.
func (t *Thread) ID() uuid.UUID {
	return t.id
}

// Len returns the total number of messages held by the thread.
func (t *Thread) Len() int {
	return len(t.messages)
}

// TurnLen returns the number of messages added since the thread was forked.
func (t *Thread) TurnLen() int {
	return len(t.messages) - t.initLen
}

// Messages returns a copy of all messages in order.
func (t *Thread) Messages() []messages.Message[messages.ModelMessage] {
	return slices.Clone(t.messages)
}

// MessagesIter iterates the messages without copying.
func (t *Thread) MessagesIter() iter.Seq[messages.Message[messages.ModelMessage]] {
	return slices.Values(t.messages)
}

// AddMessage appends any payload type to the thread.
func AddMessage[T messages.ModelMessage](t *Thread, m messages.Message[T]) {
	t.add(messages.EraseType(m))
}

func (t *Thread) AddUserPrompt(m messages.Message[messages.UserMessage]) {
	t.add(messages.EraseType(m))
}

func (t *Thread) AddAssistantMessage(m messages.Message[messages.AssistantMessage]) {
	t.add(messages.EraseType(m))
}

func (t *Thread) AddToolCall(m messages.Message[messages.ToolCallMessage]) {
	t.add(messages.EraseType(m))
}

func (t *Thread) AddToolResponse(m messages.Message[messages.ToolResponse]) {
	t.add(messages.EraseType(m))
}

func (t *Thread) add(m messages.Message[messages.ModelMessage]) {
	t.messages = append(t.messages, m)
}

// Usage returns the usage accumulated on this thread so far.
func (t *Thread) Usage() Usage {
	return t.usage
}

// AddUsage folds one call's token counts into the thread total.
func (t *Thread) AddUsage(u Usage) {
	t.usage.AddUsage(&u)
}

// Fork creates a thread that starts with a copy of the current messages
// and remembers the fork point for a later Join.
func (t *Thread) Fork() *Thread {
	return &Thread{
		id:       uuidx.New(),
		messages: slices.Clone(t.messages),
		initLen:  len(t.messages),
	}
}

// Join appends the messages b gained after it was forked, and folds b's
// usage into this thread.
func (t *Thread) Join(b *Thread) {
	t.messages = append(t.messages, b.messages[b.initLen:]...)
	t.usage.AddUsage(&b.usage)
}
