package openaicompat

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/facet/call"
	"github.com/calder/facet/provider"
	"github.com/calder/facet/tool"
)

type compatModel struct {
	name string
	prov provider.Provider
}

func (m compatModel) Name() string                { return m.name }
func (m compatModel) Provider() provider.Provider { return m.prov }

func TestNewValidation(t *testing.T) {
	_, err := New(Config{APIKey: "key"})
	var cfg *call.ConfigError
	require.ErrorAs(t, err, &cfg)

	p, err := New(Config{Name: "groq", APIKey: "key", BaseURL: "https://api.groq.com/openai/v1"})
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
}

func TestSetupMissingKeyIsConfigError(t *testing.T) {
	p, err := New(Config{Name: "groq"})
	require.NoError(t, err)

	_, err = p.Setup(context.Background(), provider.SetupParams{
		Model:          compatModel{name: "llama-3.1-8b-instant", prov: p},
		PromptTemplate: "hi",
	})
	var cfg *call.ConfigError
	assert.ErrorAs(t, err, &cfg)
}

func TestBuildRequest(t *testing.T) {
	callParams, err := call.NewParams(
		call.Temperature(0.7),
		call.MaxTokens(100),
		call.StopSequences([]string{"END"}),
	)
	require.NoError(t, err)

	params := provider.SetupParams{
		Model:          compatModel{name: "llama-3.1-8b-instant"},
		Instructions:   "You are terse.",
		PromptTemplate: "Recommend a {genre} book",
		FnArgs:         call.Args{"genre": "fantasy"},
		CallParams:     callParams,
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)

	assert.Equal(t, "llama-3.1-8b-instant", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "Recommend a fantasy book", req.Messages[1].Content)
	assert.InDelta(t, 0.7, float64(req.Temperature), 1e-6)
	assert.Equal(t, 100, req.MaxTokens)
	assert.Equal(t, []string{"END"}, req.Stop)
}

func TestBuildRequestTools(t *testing.T) {
	toolDef := tool.Must(
		func(city string) string { return city },
		tool.Name("get_weather"),
		tool.Description("Get the weather for a city"),
		tool.Parameters("city"),
	)

	params := provider.SetupParams{
		Model:          compatModel{name: "llama-3.1-8b-instant"},
		PromptTemplate: "What's the weather in Tokyo?",
		Tools:          []tool.Definition{toolDef},
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)

	require.Len(t, req.Tools, 1)
	assert.Equal(t, openai.ToolTypeFunction, req.Tools[0].Type)
	assert.Equal(t, "get_weather", req.Tools[0].Function.Name)
}

func TestBuildRequestJSONMode(t *testing.T) {
	params := provider.SetupParams{
		Model:          compatModel{name: "mistral-small-latest"},
		PromptTemplate: "hi",
		JSONMode:       true,
	}
	prepared, err := provider.Prepare(context.Background(), params)
	require.NoError(t, err)

	req, err := buildRequest(prepared, params)
	require.NoError(t, err)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
}

func TestResponseAdapter(t *testing.T) {
	resp := NewResponse("groq", &openai.ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: "llama-3.1-8b-instant",
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Content: "hello"},
			FinishReason: openai.FinishReasonStop,
		}},
		Usage: openai.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	})

	assert.Equal(t, "hello", resp.Content())
	assert.Equal(t, []string{"stop"}, resp.FinishReasons())

	in, ok := resp.InputTokens()
	require.True(t, ok)
	assert.EqualValues(t, 100, in)

	cost, ok := resp.Cost()
	require.True(t, ok)
	// 100 * 0.05/1M + 50 * 0.08/1M
	assert.InDelta(t, 9e-6, cost, 1e-9)
}

func TestChunkAdapter(t *testing.T) {
	idx := 0
	chunk := NewChunk("groq", &openai.ChatCompletionStreamResponse{
		ID:    "chatcmpl-1",
		Model: "llama-3.1-8b-instant",
		Choices: []openai.ChatCompletionStreamChoice{{
			Delta: openai.ChatCompletionStreamChoiceDelta{
				Content: "partial",
				ToolCalls: []openai.ToolCall{{
					Index:    &idx,
					ID:       "call_1",
					Function: openai.FunctionCall{Name: "get_weather", Arguments: `{"city":`},
				}},
			},
		}},
	})

	assert.Equal(t, "partial", chunk.Content())
	deltas := chunk.ToolCallDeltas()
	require.Len(t, deltas, 1)
	assert.Equal(t, 0, deltas[0].Index)
	assert.Equal(t, "call_1", deltas[0].ID)

	_, ok := chunk.InputTokens()
	assert.False(t, ok)
}
