package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	openai "github.com/sashabaranov/go-openai"

	"github.com/calder/facet/call"
	"github.com/calder/facet/provider"
	"github.com/calder/facet/tool"
)

// Config describes one OpenAI-compatible endpoint.
type Config struct {
	// Name is the provider name used in logs, traces and price lookups.
	Name string
	// APIKey authenticates against the endpoint.
	APIKey string
	// BaseURL points at the compatible API root, e.g.
	// "https://api.groq.com/openai/v1".
	BaseURL string

	_ struct{}
}

type Provider struct {
	name   string
	client *openai.Client
	keyErr error
}

// New builds a provider for one compatible endpoint. A missing API key
// is not an immediate error: it surfaces as a configuration error from
// Setup, so lazily constructed providers fail at the first call site
// rather than at wiring time.
func New(cfg Config) (*Provider, error) {
	if cfg.Name == "" {
		return nil, call.Configf("openai-compatible provider needs a name")
	}

	p := &Provider{name: cfg.Name}
	if cfg.APIKey == "" {
		p.keyErr = call.Configf("provider %s: api key is required", cfg.Name)
		return p, nil
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	p.client = openai.NewClientWithConfig(config)
	return p, nil
}

func (p *Provider) Name() string { return p.name }

// Setup assembles one chat completion call against the compatible
// endpoint.
func (p *Provider) Setup(ctx context.Context, params provider.SetupParams) (*provider.Invocation, error) {
	if p.keyErr != nil {
		return nil, p.keyErr
	}

	prepared, err := provider.Prepare(ctx, params)
	if err != nil {
		return nil, err
	}

	req, err := buildRequest(prepared, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return &provider.Invocation{
		ProviderName:   p.name,
		Mode:           params.Mode,
		PromptTemplate: prepared.PromptTemplate,
		Messages:       prepared.WireMessages,
		ToolTypes:      prepared.ToolTypes,
		Kwargs:         prepared.Kwargs,
		TextField:      call.TextFieldContent,
		Create: call.Creator{
			InvokeFn: func(ctx context.Context) (call.Response, error) {
				resp, err := p.client.CreateChatCompletion(ctx, req)
				if err != nil {
					return nil, err
				}
				return NewResponse(p.name, &resp), nil
			},
			StreamFn: func(ctx context.Context) (iter.Seq2[call.Chunk, error], error) {
				streamReq := req
				streamReq.Stream = true
				streamReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

				return func(yield func(call.Chunk, error) bool) {
					stream, err := p.client.CreateChatCompletionStream(ctx, streamReq)
					if err != nil {
						yield(nil, err)
						return
					}
					defer stream.Close()

					for {
						resp, err := stream.Recv()
						if errors.Is(err, io.EOF) {
							return
						}
						if err != nil {
							yield(nil, err)
							return
						}
						if !yield(NewChunk(p.name, &resp), nil) {
							return
						}
					}
				}, nil
			},
		},
	}, nil
}

func buildRequest(prepared *provider.Prepared, params provider.SetupParams) (openai.ChatCompletionRequest, error) {
	msgs, err := messagesToWire(prepared.WireMessages)
	if err != nil {
		return openai.ChatCompletionRequest{}, err
	}

	req := openai.ChatCompletionRequest{
		Model:    params.Model.Name(),
		Messages: msgs,
	}

	if len(prepared.ToolTypes) > 0 {
		tools, err := toolsToWire(prepared.ToolTypes)
		if err != nil {
			return openai.ChatCompletionRequest{}, err
		}
		req.Tools = tools
	}

	applyParams(&req, prepared.Params)

	switch {
	case params.Output != nil:
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        params.Output.Name,
				Description: params.Output.Description,
				Schema:      params.Output.Schema,
				Strict:      true,
			},
		}
	case params.JSONMode:
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return req, nil
}

func applyParams(req *openai.ChatCompletionRequest, p *call.Params) {
	if p == nil {
		return
	}
	if p.Temperature != nil {
		req.Temperature = float32(*p.Temperature)
	}
	if p.TopP != nil {
		req.TopP = float32(*p.TopP)
	}
	if p.MaxTokens != nil {
		req.MaxTokens = int(*p.MaxTokens)
	}
	if p.Seed != nil {
		seed := int(*p.Seed)
		req.Seed = &seed
	}
	if p.FrequencyPenalty != nil {
		req.FrequencyPenalty = float32(*p.FrequencyPenalty)
	}
	if p.PresencePenalty != nil {
		req.PresencePenalty = float32(*p.PresencePenalty)
	}
	if len(p.StopSequences) > 0 {
		req.Stop = p.StopSequences
	}
}

func messagesToWire(wire []map[string]any) ([]openai.ChatCompletionMessage, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(wire))
	for _, m := range wire {
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)

		switch role {
		case "system", "user", "assistant":
			msg := openai.ChatCompletionMessage{Role: role, Content: content}
			if calls, ok := m["tool_calls"].([]map[string]any); ok {
				msg.ToolCalls = make([]openai.ToolCall, len(calls))
				for i, tc := range calls {
					id, _ := tc["id"].(string)
					name, _ := tc["name"].(string)
					args, _ := tc["arguments"].(string)
					msg.ToolCalls[i] = openai.ToolCall{
						ID:   id,
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      name,
							Arguments: args,
						},
					}
				}
			}
			msgs = append(msgs, msg)
		case "tool":
			callID, _ := m["tool_call_id"].(string)
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				ToolCallID: callID,
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", role)
		}
	}
	return msgs, nil
}

func toolsToWire(defs []tool.Definition) ([]openai.Tool, error) {
	tools := make([]openai.Tool, len(defs))
	for i, td := range defs {
		if td.Function == nil {
			return nil, fmt.Errorf("tool %s has nil function", td.Name)
		}
		name, schema := td.ToNameAndSchema()
		tools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: td.Description,
				Parameters:  schema,
			},
		}
	}
	return tools, nil
}
