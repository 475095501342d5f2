package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"iter"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
	"github.com/calder/facet/pkg/jsonx"
	"github.com/calder/facet/provider"
)

const providerName = "openai"

type Provider struct {
	client *openai.Client
}

func New(options ...option.RequestOption) *Provider {
	client := openai.NewClient(options...)
	return &Provider{
		client: client,
	}
}

func (p *Provider) Name() string { return providerName }

// Setup assembles one chat completion call. The returned invocation
// holds a frozen request; the client is not contacted until the
// invocation is executed.
func (p *Provider) Setup(ctx context.Context, params provider.SetupParams) (*provider.Invocation, error) {
	prepared, err := provider.Prepare(ctx, params)
	if err != nil {
		return nil, err
	}

	chatParams, err := buildRequest(prepared, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return &provider.Invocation{
		ProviderName:   providerName,
		Mode:           params.Mode,
		PromptTemplate: prepared.PromptTemplate,
		Messages:       prepared.WireMessages,
		ToolTypes:      prepared.ToolTypes,
		Kwargs:         prepared.Kwargs,
		TextField:      call.TextFieldContent,
		Create: call.Creator{
			InvokeFn: func(ctx context.Context) (call.Response, error) {
				chat, err := p.client.Chat.Completions.New(ctx, chatParams)
				if err != nil {
					return nil, err
				}
				return NewResponse(chat), nil
			},
			StreamFn: func(ctx context.Context) (iter.Seq2[call.Chunk, error], error) {
				streamParams := chatParams
				streamParams.StreamOptions = openai.F(openai.ChatCompletionStreamOptionsParam{
					IncludeUsage: openai.Bool(true),
				})
				return func(yield func(call.Chunk, error) bool) {
					strm := p.client.Chat.Completions.NewStreaming(ctx, streamParams)
					defer strm.Close()

					for strm.Next() {
						chunk := strm.Current()
						if !yield(NewChunk(&chunk), nil) {
							return
						}
					}
					if err := strm.Err(); err != nil {
						yield(nil, err)
					}
				}, nil
			},
		},
	}, nil
}

func buildRequest(prepared *provider.Prepared, params provider.SetupParams) (openai.ChatCompletionNewParams, error) {
	result, err := messagesToOpenAI(prepared.WireMessages)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	tools := make([]openai.ChatCompletionToolParam, len(prepared.ToolTypes))
	for i, td := range prepared.ToolTypes {
		if td.Function == nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("tool %s has nil function", td.Name)
		}

		name, parameters := td.ToNameAndSchema()

		jv, err := jsonx.ToDynamicJSON(parameters)
		if err != nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to convert tool to name and schema: %w", err)
		}

		def := openai.FunctionDefinitionParam{
			Name:       openai.String(name),
			Parameters: openai.F(shared.FunctionParameters(jv)),
		}
		if strings.TrimSpace(td.Description) != "" {
			def.Description = openai.String(td.Description)
		}

		tools[i] = openai.ChatCompletionToolParam{
			Type:     openai.F(openai.ChatCompletionToolTypeFunction),
			Function: openai.F(def),
		}
	}

	oaiParams := openai.ChatCompletionNewParams{
		Messages: openai.F(result),
		Model:    openai.F(params.Model.Name()),
		N:        openai.Int(1),
	}
	if len(tools) > 0 {
		oaiParams.Tools = openai.F(tools)
		oaiParams.ParallelToolCalls = openai.Bool(true)
	}

	applyParams(&oaiParams, prepared.Params)

	switch {
	case params.Output != nil:
		schemaJSON, err := jsonx.ToDynamicJSON(params.Output.Schema)
		if err != nil {
			return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to convert output schema: %w", err)
		}
		schemaParam := shared.ResponseFormatJSONSchemaJSONSchemaParam{
			Name:   openai.String(params.Output.Name),
			Schema: openai.F[any](schemaJSON),
			Strict: openai.Bool(true),
		}
		if params.Output.Description != "" {
			schemaParam.Description = openai.String(params.Output.Description)
		}
		oaiParams.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			shared.ResponseFormatJSONSchemaParam{
				Type:       openai.F(shared.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(schemaParam),
			},
		)
	case params.JSONMode:
		oaiParams.ResponseFormat = openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			shared.ResponseFormatJSONObjectParam{
				Type: openai.F(shared.ResponseFormatJSONObjectTypeJSONObject),
			},
		)
	}

	return oaiParams, nil
}

func applyParams(oaiParams *openai.ChatCompletionNewParams, p *call.Params) {
	if p == nil {
		return
	}
	if p.Temperature != nil {
		oaiParams.Temperature = openai.Float(*p.Temperature)
	}
	if p.TopP != nil {
		oaiParams.TopP = openai.Float(*p.TopP)
	}
	if p.MaxTokens != nil {
		oaiParams.MaxTokens = openai.Int(*p.MaxTokens)
	}
	if p.Seed != nil {
		oaiParams.Seed = openai.Int(*p.Seed)
	}
	if p.FrequencyPenalty != nil {
		oaiParams.FrequencyPenalty = openai.Float(*p.FrequencyPenalty)
	}
	if p.PresencePenalty != nil {
		oaiParams.PresencePenalty = openai.Float(*p.PresencePenalty)
	}
	if len(p.StopSequences) > 0 {
		oaiParams.Stop = openai.F[openai.ChatCompletionNewParamsStopUnion](
			openai.ChatCompletionNewParamsStopArray(p.StopSequences),
		)
	}
}

func messagesToOpenAI(wire []map[string]any) ([]openai.ChatCompletionMessageParamUnion, error) {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(wire))
	for _, m := range wire {
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)

		switch role {
		case "system":
			result = append(result, openai.SystemMessage(content))
		case "user":
			if parts, ok := m["parts"].([]messages.ContentPart); ok {
				converted, err := userParts(parts)
				if err != nil {
					return nil, err
				}
				result = append(result, openai.UserMessageParts(converted...))
				continue
			}
			result = append(result, openai.UserMessageParts(openai.TextPart(content)))
		case "assistant":
			if calls, ok := m["tool_calls"].([]map[string]any); ok {
				tcd := make([]openai.ChatCompletionMessageToolCallParam, len(calls))
				for i, tc := range calls {
					id, _ := tc["id"].(string)
					name, _ := tc["name"].(string)
					args, _ := tc["arguments"].(string)
					tcd[i] = openai.ChatCompletionMessageToolCallParam{
						ID:   openai.String(id),
						Type: openai.F(openai.ChatCompletionMessageToolCallTypeFunction),
						Function: openai.F(openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      openai.String(name),
							Arguments: openai.String(args),
						}),
					}
				}
				result = append(result, openai.ChatCompletionMessageParam{
					Role:      openai.F(openai.ChatCompletionMessageParamRoleAssistant),
					ToolCalls: openai.F[any](tcd),
				})
				continue
			}
			result = append(result, openai.AssistantMessage(content))
		case "tool":
			callID, _ := m["tool_call_id"].(string)
			result = append(result, openai.ToolMessage(callID, content))
		default:
			return nil, fmt.Errorf("unsupported message role %q", role)
		}
	}
	return result, nil
}

func userParts(parts []messages.ContentPart) ([]openai.ChatCompletionContentPartUnionParam, error) {
	converted := make([]openai.ChatCompletionContentPartUnionParam, len(parts))
	for i, part := range parts {
		switch part := part.(type) {
		case messages.TextContentPart:
			converted[i] = openai.ChatCompletionContentPartTextParam{
				Text: openai.String(part.Text),
				Type: openai.F(openai.ChatCompletionContentPartTextTypeText),
			}
		case messages.ImageContentPart:
			converted[i] = openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.F(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    openai.String(part.URL),
					Detail: openai.F(openai.ChatCompletionContentPartImageImageURLDetail(part.Detail)),
				}),
				Type: openai.F(openai.ChatCompletionContentPartImageTypeImageURL),
			}
		case *messages.AudioContentPart:
			converted[i] = openai.ChatCompletionContentPartInputAudioParam{
				InputAudio: openai.F(openai.ChatCompletionContentPartInputAudioInputAudioParam{
					Data:   openai.String(base64.StdEncoding.EncodeToString(part.InputAudio.Data)),
					Format: openai.F(openai.ChatCompletionContentPartInputAudioInputAudioFormat(part.InputAudio.Format)),
				}),
				Type: openai.F(openai.ChatCompletionContentPartInputAudioTypeInputAudio),
			}
		default:
			return nil, fmt.Errorf("unsupported content part %T", part)
		}
	}
	return converted, nil
}
