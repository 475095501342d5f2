package thread

import (
	"testing"

	"github.com/calder/facet/messages"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	th := New()
	require.NotEqual(t, uuid.Nil, th.ID())
	assert.Zero(t, th.Len())
	assert.Zero(t, th.Usage())
}

func TestAddMessages(t *testing.T) {
	th := New()
	th.AddUserPrompt(messages.New().UserPrompt("hello"))
	th.AddAssistantMessage(messages.New().AssistantMessage("hi"))
	th.AddToolCall(messages.New().ToolCall(messages.ToolCallData{ID: "c1", Name: "lookup"}))
	th.AddToolResponse(messages.New().ToolResponse("c1", "lookup", "42"))

	require.Equal(t, 4, th.Len())

	var kinds []string
	for m := range th.MessagesIter() {
		switch m.Payload.(type) {
		case messages.UserMessage:
			kinds = append(kinds, "user")
		case messages.AssistantMessage:
			kinds = append(kinds, "assistant")
		case messages.ToolCallMessage:
			kinds = append(kinds, "tool_call")
		case messages.ToolResponse:
			kinds = append(kinds, "tool_response")
		}
	}
	assert.Equal(t, []string{"user", "assistant", "tool_call", "tool_response"}, kinds)
}

func TestMessagesReturnsCopy(t *testing.T) {
	th := New()
	th.AddUserPrompt(messages.New().UserPrompt("hello"))

	msgs := th.Messages()
	msgs[0].Sender = "mutated"

	assert.Empty(t, th.Messages()[0].Sender)
}

func TestForkJoin(t *testing.T) {
	orig := New()
	orig.AddUserPrompt(messages.New().UserPrompt("one"))
	orig.AddUserPrompt(messages.New().UserPrompt("two"))

	forked := orig.Fork()
	require.NotEqual(t, orig.ID(), forked.ID())
	require.Equal(t, 2, forked.Len())
	assert.Zero(t, forked.TurnLen())

	orig.AddUserPrompt(messages.New().UserPrompt("three"))
	forked.AddAssistantMessage(messages.New().AssistantMessage("four"))
	forked.AddUsage(Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15})
	assert.Equal(t, 1, forked.TurnLen())

	orig.Join(forked)

	require.Equal(t, 4, orig.Len())
	last := orig.Messages()[3]
	payload, ok := last.Payload.(messages.AssistantMessage)
	require.True(t, ok)
	assert.Equal(t, "four", payload.Content.Content)
	assert.Equal(t, int64(15), orig.Usage().TotalTokens)
}

func TestUsageAccumulates(t *testing.T) {
	th := New()
	th.AddUsage(Usage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120})
	th.AddUsage(Usage{InputTokens: 50, OutputTokens: 10, TotalTokens: 60, CachedInputTokens: 25})

	u := th.Usage()
	assert.Equal(t, int64(150), u.InputTokens)
	assert.Equal(t, int64(30), u.OutputTokens)
	assert.Equal(t, int64(180), u.TotalTokens)
	assert.Equal(t, int64(25), u.CachedInputTokens)
}

func TestUsageAddNil(t *testing.T) {
	u := Usage{InputTokens: 1}
	u.AddUsage(nil)
	assert.Equal(t, int64(1), u.InputTokens)
}
