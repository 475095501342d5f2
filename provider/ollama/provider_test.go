package ollama

import (
	"context"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/facet/call"
	"github.com/calder/facet/provider"
	"github.com/calder/facet/tool"
)

type localModel struct {
	name string
	prov provider.Provider
}

func (m localModel) Name() string                { return m.name }
func (m localModel) Provider() provider.Provider { return m.prov }

func TestParseHost(t *testing.T) {
	u, err := parseHost("localhost:11434")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "localhost:11434", u.Host)

	u, err = parseHost("https://ollama.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
}

func TestBuildRequest(t *testing.T) {
	callParams, err := call.NewParams(
		call.Temperature(0.7),
		call.MaxTokens(100),
		call.StopSequences([]string{"END"}),
	)
	require.NoError(t, err)

	params := provider.SetupParams{
		Model:          localModel{name: "llama3.2"},
		Instructions:   "You are terse.",
		PromptTemplate: "Recommend a {genre} book",
		FnArgs:         call.Args{"genre": "fantasy"},
		CallParams:     callParams,
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "Recommend a fantasy book", req.Messages[1].Content)
	assert.InDelta(t, 0.7, req.Options["temperature"].(float64), 1e-6)
	assert.Equal(t, 100, req.Options["num_predict"])
	assert.Equal(t, []string{"END"}, req.Options["stop"])
}

func TestBuildRequestTools(t *testing.T) {
	toolDef := tool.Must(
		func(city string) string { return city },
		tool.Name("get_weather"),
		tool.Description("Get the weather for a city"),
		tool.Parameters("city"),
	)

	params := provider.SetupParams{
		Model:          localModel{name: "llama3.2"},
		PromptTemplate: "What's the weather in Tokyo?",
		Tools:          []tool.Definition{toolDef},
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)

	require.Len(t, req.Tools, 1)
	assert.Equal(t, "function", req.Tools[0].Type)
	assert.Equal(t, "get_weather", req.Tools[0].Function.Name)
	assert.Equal(t, []string{"city"}, req.Tools[0].Function.Parameters.Required)

	prop, ok := req.Tools[0].Function.Parameters.Properties["city"]
	require.True(t, ok)
	assert.Equal(t, api.PropertyType{"string"}, prop.Type)
}

func TestBuildRequestJSONMode(t *testing.T) {
	params := provider.SetupParams{
		Model:          localModel{name: "llama3.2"},
		PromptTemplate: "hi",
		JSONMode:       true,
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)
	assert.JSONEq(t, `"json"`, string(req.Format))
}

func TestBuildRequestToolHistory(t *testing.T) {
	params := provider.SetupParams{
		Model:          localModel{name: "llama3.2"},
		PromptTemplate: "hi",
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	prepared.WireMessages = append(prepared.WireMessages,
		map[string]any{
			"role": "assistant",
			"tool_calls": []map[string]any{{
				"id":        "call_1",
				"name":      "get_weather",
				"arguments": `{"city":"Tokyo"}`,
			}},
		},
		map[string]any{
			"role":      "tool",
			"tool_name": "get_weather",
			"content":   "sunny",
		},
	)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)
	require.Len(t, req.Messages, 3)

	calls := req.Messages[1].ToolCalls
	require.Len(t, calls, 1)
	assert.Equal(t, "get_weather", calls[0].Function.Name)
	assert.Equal(t, "Tokyo", calls[0].Function.Arguments["city"])

	assert.Equal(t, "tool", req.Messages[2].Role)
	assert.Equal(t, "get_weather", req.Messages[2].ToolName)
	assert.Equal(t, "sunny", req.Messages[2].Content)
}

func TestResponseAdapter(t *testing.T) {
	resp := NewResponse(&api.ChatResponse{
		Model:      "llama3.2",
		Done:       true,
		DoneReason: "stop",
		Message:    api.Message{Role: "assistant", Content: "hello"},
		Metrics:    api.Metrics{PromptEvalCount: 12, EvalCount: 7},
	})

	assert.Equal(t, "hello", resp.Content())
	assert.Equal(t, "llama3.2", resp.Model())
	assert.Empty(t, resp.ID())
	assert.Equal(t, []string{"stop"}, resp.FinishReasons())

	in, ok := resp.InputTokens()
	require.True(t, ok)
	assert.EqualValues(t, 12, in)

	out, ok := resp.OutputTokens()
	require.True(t, ok)
	assert.EqualValues(t, 7, out)

	_, ok = resp.Cost()
	assert.False(t, ok)
}

func TestResponseAdapterToolCalls(t *testing.T) {
	resp := NewResponse(&api.ChatResponse{
		Model: "llama3.2",
		Message: api.Message{
			Role: "assistant",
			ToolCalls: []api.ToolCall{{
				Function: api.ToolCallFunction{
					Name:      "get_weather",
					Arguments: api.ToolCallFunctionArguments{"city": "Tokyo"},
				},
			}},
		},
	})

	calls := resp.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "get_weather", calls[0].Name)
	assert.NotEmpty(t, calls[0].ID)
	assert.JSONEq(t, `{"city":"Tokyo"}`, calls[0].Arguments)
}

func TestChunkAdapter(t *testing.T) {
	chunk := NewChunk(&api.ChatResponse{
		Model:   "llama3.2",
		Message: api.Message{Role: "assistant", Content: "partial"},
	})

	assert.Equal(t, "partial", chunk.Content())
	assert.Nil(t, chunk.FinishReasons())

	_, ok := chunk.InputTokens()
	assert.False(t, ok)
	assert.Nil(t, chunk.Usage())

	final := NewChunk(&api.ChatResponse{
		Model:      "llama3.2",
		Done:       true,
		DoneReason: "stop",
		Metrics:    api.Metrics{PromptEvalCount: 12, EvalCount: 7},
	})

	in, ok := final.InputTokens()
	require.True(t, ok)
	assert.EqualValues(t, 12, in)
	assert.Equal(t, []string{"stop"}, final.FinishReasons())
}

func TestChunkAdapterToolCallDeltas(t *testing.T) {
	chunk := NewChunk(&api.ChatResponse{
		Model: "llama3.2",
		Message: api.Message{
			Role: "assistant",
			ToolCalls: []api.ToolCall{{
				Function: api.ToolCallFunction{
					Index:     1,
					Name:      "get_weather",
					Arguments: api.ToolCallFunctionArguments{"city": "Tokyo"},
				},
			}},
		},
	})

	deltas := chunk.ToolCallDeltas()
	require.Len(t, deltas, 1)
	assert.Equal(t, 1, deltas[0].Index)
	assert.Equal(t, "get_weather", deltas[0].Name)
	assert.JSONEq(t, `{"city":"Tokyo"}`, deltas[0].ArgumentsDelta)
}

func TestModelRegistryReuse(t *testing.T) {
	a := Model("llama3.2-test")
	b := Model("llama3.2-test")
	assert.Same(t, a, b)
}
