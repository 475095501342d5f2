package anthropic

import (
	"context"
	"fmt"
	"iter"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/goccy/go-json"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pkg/jsonx"
	"github.com/calder/facet/provider"
	"github.com/calder/facet/tool"
)

const providerName = "anthropic"

// defaultMaxTokens applies when no explicit cap is configured; the
// Messages API rejects requests without one.
const defaultMaxTokens = 4096

type Provider struct {
	client *anthropic.Client
}

func New(options ...option.RequestOption) *Provider {
	client := anthropic.NewClient(options...)
	return &Provider{
		client: &client,
	}
}

func (p *Provider) Name() string { return providerName }

// Setup assembles one Messages API call without contacting the API.
func (p *Provider) Setup(ctx context.Context, params provider.SetupParams) (*provider.Invocation, error) {
	prepared, err := provider.Prepare(ctx, params)
	if err != nil {
		return nil, err
	}

	msgParams, err := buildRequest(prepared, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	modelName := params.Model.Name()

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
				message, err := p.client.Messages.New(ctx, msgParams)
				if err != nil {
					return nil, err
				}
				return NewResponse(message), nil
			},
			StreamFn: func(ctx context.Context) (iter.Seq2[call.Chunk, error], error) {
				return func(yield func(call.Chunk, error) bool) {
					strm := p.client.Messages.NewStreaming(ctx, msgParams)
					defer strm.Close()

					for strm.Next() {
						event := strm.Current()
						if !yield(NewChunk(&event, modelName), nil) {
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

func buildRequest(prepared *provider.Prepared, params provider.SetupParams) (anthropic.MessageNewParams, error) {
	system, msgs, err := messagesToAnthropic(prepared.WireMessages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	if instruction := jsonInstruction(params); instruction != "" {
		msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(instruction)))
	}

	maxTokens := int64(defaultMaxTokens)
	if prepared.Params != nil && prepared.Params.MaxTokens != nil {
		maxTokens = *prepared.Params.MaxTokens
	}

	msgParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(params.Model.Name()),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		msgParams.System = system
	}

	if len(prepared.ToolTypes) > 0 {
		tools := make([]anthropic.ToolUnionParam, len(prepared.ToolTypes))
		for i, td := range prepared.ToolTypes {
			if td.Function == nil {
				return anthropic.MessageNewParams{}, fmt.Errorf("tool %s has nil function", td.Name)
			}
			tp, err := toToolParam(td)
			if err != nil {
				return anthropic.MessageNewParams{}, err
			}
			tools[i] = tp
		}
		msgParams.Tools = tools
	}

	if prepared.Params != nil {
		p := prepared.Params
		if p.Temperature != nil {
			msgParams.Temperature = anthropic.Float(*p.Temperature)
		}
		if p.TopP != nil {
			msgParams.TopP = anthropic.Float(*p.TopP)
		}
		if len(p.StopSequences) > 0 {
			msgParams.StopSequences = p.StopSequences
		}
	}

	return msgParams, nil
}

// jsonInstruction renders the JSON-mode request as prompt text, since
// the Messages API has no response_format parameter.
func jsonInstruction(params provider.SetupParams) string {
	if params.Output != nil {
		schemaJSON, err := json.Marshal(params.Output.Schema)
		if err != nil {
			return "Respond only with a valid JSON object."
		}
		return fmt.Sprintf(
			"Respond only with a JSON object matching this schema, with no surrounding text:\n%s",
			schemaJSON,
		)
	}
	if params.JSONMode {
		return "Respond only with a valid JSON object, with no surrounding text."
	}
	return ""
}

func messagesToAnthropic(wire []map[string]any) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var system []anthropic.TextBlockParam
	var msgs []anthropic.MessageParam

	for _, m := range wire {
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)

		switch role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: content})
		case "user":
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(content)))
		case "assistant":
			if calls, ok := m["tool_calls"].([]map[string]any); ok {
				blocks := make([]anthropic.ContentBlockParamUnion, 0, len(calls))
				for _, tc := range calls {
					id, _ := tc["id"].(string)
					name, _ := tc["name"].(string)
					args, _ := tc["arguments"].(string)

					var input map[string]any
					if args != "" {
						if err := json.Unmarshal([]byte(args), &input); err != nil {
							return nil, nil, fmt.Errorf("tool call %s has invalid arguments: %w", name, err)
						}
					}
					blocks = append(blocks, anthropic.NewToolUseBlock(id, input, name))
				}
				msgs = append(msgs, anthropic.NewAssistantMessage(blocks...))
				continue
			}
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(content)))
		case "tool":
			callID, _ := m["tool_call_id"].(string)
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewToolResultBlock(callID, content, false)))
		default:
			return nil, nil, fmt.Errorf("unsupported message role %q", role)
		}
	}

	return system, msgs, nil
}

func toToolParam(td tool.Definition) (anthropic.ToolUnionParam, error) {
	name, schema := td.ToNameAndSchema()

	jv, err := jsonx.ToDynamicJSON(schema)
	if err != nil {
		return anthropic.ToolUnionParam{}, fmt.Errorf("failed to convert tool to name and schema: %w", err)
	}

	toolParam := anthropic.ToolParam{
		Name: name,
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: jv["properties"],
			Required:   schema.Required,
		},
	}
	if td.Description != "" {
		toolParam.Description = anthropic.String(td.Description)
	}

	return anthropic.ToolUnionParam{OfTool: &toolParam}, nil
}
