package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestBuilder(t *testing.T) {
	t.Run("user prompt", func(t *testing.T) {
		msg := New().WithSender("tester").UserPrompt("hello")
		assert.Equal(t, "hello", msg.Payload.Content.Content)
		assert.Equal(t, "tester", msg.Sender)
		assert.False(t, msg.Timestamp.IsZero())
	})

	t.Run("assistant message", func(t *testing.T) {
		msg := New().AssistantMessage("hi there")
		assert.Equal(t, "hi there", msg.Payload.Content.Content)
	})

	t.Run("tool call", func(t *testing.T) {
		msg := New().ToolCall(ToolCallData{ID: "call-1", Name: "lookup", Arguments: `{"q":"x"}`})
		require.Len(t, msg.Payload.ToolCalls, 1)
		assert.Equal(t, "lookup", msg.Payload.ToolCalls[0].Name)
	})

	t.Run("tool response", func(t *testing.T) {
		msg := New().ToolResponse("call-1", "lookup", "42")
		assert.Equal(t, "call-1", msg.Payload.ToolCallID)
		assert.Equal(t, "lookup", msg.Payload.ToolName)
		assert.Equal(t, "42", msg.Payload.Content)
	})
}

func TestEraseType(t *testing.T) {
	msg := New().WithSender("tester").UserPrompt("hello")
	erased := EraseType(msg)

	assert.Equal(t, msg.Sender, erased.Sender)
	assert.Equal(t, msg.Timestamp, erased.Timestamp)

	payload, ok := erased.Payload.(UserMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Content.Content)
}

func TestContentOrParts_MarshalJSON(t *testing.T) {
	t.Run("plain string", func(t *testing.T) {
		data, err := json.Marshal(ContentOrParts{Content: "hello"})
		require.NoError(t, err)
		assert.JSONEq(t, `"hello"`, string(data))
	})

	t.Run("nil is null", func(t *testing.T) {
		data, err := json.Marshal(ContentOrParts{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("parts", func(t *testing.T) {
		data, err := json.Marshal(ContentOrParts{Parts: []ContentPart{
			Text("look at this"),
			Image("https://example.com/cat.png"),
		}})
		require.NoError(t, err)

		jv := gjson.ParseBytes(data)
		require.True(t, jv.IsArray())
		assert.Equal(t, "text", jv.Get("0.type").String())
		assert.Equal(t, "look at this", jv.Get("0.text").String())
		assert.Equal(t, "image", jv.Get("1.type").String())
		assert.Equal(t, "https://example.com/cat.png", jv.Get("1.image_url.url").String())
	})
}

func TestContentOrParts_UnmarshalJSON(t *testing.T) {
	t.Run("plain string", func(t *testing.T) {
		var c ContentOrParts
		require.NoError(t, json.Unmarshal([]byte(`"hello"`), &c))
		assert.Equal(t, "hello", c.Content)
	})

	t.Run("parts round trip", func(t *testing.T) {
		orig := ContentOrParts{Parts: []ContentPart{
			Text("caption"),
			Image("https://example.com/cat.png"),
		}}
		data, err := json.Marshal(orig)
		require.NoError(t, err)

		var decoded ContentOrParts
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded.Parts, 2)
		assert.Equal(t, Text("caption"), decoded.Parts[0])
	})

	t.Run("unknown part type", func(t *testing.T) {
		var c ContentOrParts
		err := json.Unmarshal([]byte(`[{"type":"video"}]`), &c)
		assert.Error(t, err)
	})
}

func TestAssistantContentOrParts(t *testing.T) {
	t.Run("content and refusal conflict", func(t *testing.T) {
		_, err := json.Marshal(AssistantContentOrParts{Content: "yes", Refusal: "no"})
		assert.Error(t, err)
	})

	t.Run("refusal only", func(t *testing.T) {
		data, err := json.Marshal(AssistantContentOrParts{Refusal: "cannot help with that"})
		require.NoError(t, err)
		assert.Equal(t, "cannot help with that", gjson.GetBytes(data, "refusal").String())
	})

	t.Run("parts round trip", func(t *testing.T) {
		orig := AssistantContentOrParts{Parts: []AssistantContentPart{
			Text("partial answer"),
			Refusal("the rest is off limits"),
		}}
		data, err := json.Marshal(orig)
		require.NoError(t, err)

		var decoded AssistantContentOrParts
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded.Parts, 2)
		assert.Equal(t, Refusal("the rest is off limits"), decoded.Parts[1])
	})
}
