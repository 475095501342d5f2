package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pkg/jsonx"
	"github.com/calder/facet/provider"
	"github.com/calder/facet/tool"
)

const providerName = "ollama"

type Provider struct {
	client  *api.Client
	initErr error
}

var _ provider.Provider = (*Provider)(nil)

// New builds an Ollama provider. An empty host uses the client's
// environment defaults (OLLAMA_HOST, falling back to
// http://localhost:11434); a malformed OLLAMA_HOST surfaces as a
// configuration error from Setup rather than here, so lazily
// constructed providers fail at the first call site.
func New(host string) (*Provider, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return &Provider{initErr: call.Configf("ollama client from environment: %v", err)}, nil
		}
		return &Provider{client: client}, nil
	}

	base, err := parseHost(host)
	if err != nil {
		return nil, call.Configf("invalid ollama host %q: %v", host, err)
	}
	return &Provider{client: api.NewClient(base, http.DefaultClient)}, nil
}

func parseHost(host string) (*url.URL, error) {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

func (p *Provider) Name() string { return providerName }

// Setup assembles one chat call against the Ollama server. No request
// leaves the process until the invocation is executed.
func (p *Provider) Setup(ctx context.Context, params provider.SetupParams) (*provider.Invocation, error) {
	if p.initErr != nil {
		return nil, p.initErr
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
		ProviderName:   providerName,
		Mode:           params.Mode,
		PromptTemplate: prepared.PromptTemplate,
		Messages:       prepared.WireMessages,
		ToolTypes:      prepared.ToolTypes,
		Kwargs:         prepared.Kwargs,
		TextField:      call.TextFieldContent,
		Create: call.Creator{
			InvokeFn: func(ctx context.Context) (call.Response, error) {
				return p.invoke(ctx, req)
			},
			StreamFn: func(ctx context.Context) (iter.Seq2[call.Chunk, error], error) {
				return p.stream(ctx, req), nil
			},
		},
	}, nil
}

func (p *Provider) invoke(ctx context.Context, req api.ChatRequest) (call.Response, error) {
	syncReq := req
	syncReq.Stream = new(bool)

	var final api.ChatResponse
	err := p.client.Chat(ctx, &syncReq, func(resp api.ChatResponse) error {
		final = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat request failed: %w", err)
	}
	return NewResponse(&final), nil
}

// stream bridges the client's callback API to a chunk sequence. The
// callback runs on its own goroutine and pushes responses through a
// channel; abandoning the sequence cancels the request context, which
// aborts the callback on its next delivery.
func (p *Provider) stream(ctx context.Context, req api.ChatRequest) iter.Seq2[call.Chunk, error] {
	return func(yield func(call.Chunk, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		streaming := true
		streamReq := req
		streamReq.Stream = &streaming

		out := make(chan api.ChatResponse, 10)
		errc := make(chan error, 1)
		go func() {
			err := p.client.Chat(ctx, &streamReq, func(resp api.ChatResponse) error {
				select {
				case out <- resp:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				errc <- err
			}
			close(out)
		}()

		for resp := range out {
			resp := resp
			if !yield(NewChunk(&resp), nil) {
				return
			}
		}
		select {
		case err := <-errc:
			yield(nil, err)
		default:
		}
	}
}

func buildRequest(prepared *provider.Prepared, params provider.SetupParams) (api.ChatRequest, error) {
	msgs, err := messagesToOllama(prepared.WireMessages)
	if err != nil {
		return api.ChatRequest{}, err
	}

	req := api.ChatRequest{
		Model:    params.Model.Name(),
		Messages: msgs,
		Options:  make(map[string]any),
	}

	if len(prepared.ToolTypes) > 0 {
		tools, err := toolsToOllama(prepared.ToolTypes)
		if err != nil {
			return api.ChatRequest{}, err
		}
		req.Tools = tools
	}

	applyOptions(&req, prepared.Params)

	switch {
	case params.Output != nil:
		// Ollama accepts a JSON schema as the format to constrain output.
		schemaJSON, err := json.Marshal(params.Output.Schema)
		if err != nil {
			return api.ChatRequest{}, fmt.Errorf("failed to encode output schema: %w", err)
		}
		req.Format = schemaJSON
	case params.JSONMode:
		req.Format = json.RawMessage(`"json"`)
	}

	return req, nil
}

func applyOptions(req *api.ChatRequest, p *call.Params) {
	if p == nil {
		return
	}
	if p.Temperature != nil {
		req.Options["temperature"] = *p.Temperature
	}
	if p.TopP != nil {
		req.Options["top_p"] = *p.TopP
	}
	if p.MaxTokens != nil {
		req.Options["num_predict"] = int(*p.MaxTokens)
	}
	if p.Seed != nil {
		req.Options["seed"] = int(*p.Seed)
	}
	if p.FrequencyPenalty != nil {
		req.Options["frequency_penalty"] = *p.FrequencyPenalty
	}
	if p.PresencePenalty != nil {
		req.Options["presence_penalty"] = *p.PresencePenalty
	}
	if len(p.StopSequences) > 0 {
		req.Options["stop"] = p.StopSequences
	}
	for k, v := range p.Extra {
		req.Options[k] = v
	}
}

func messagesToOllama(wire []map[string]any) ([]api.Message, error) {
	msgs := make([]api.Message, 0, len(wire))
	for _, m := range wire {
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)

		switch role {
		case "system", "user", "assistant":
			msg := api.Message{Role: role, Content: content}
			if calls, ok := m["tool_calls"].([]map[string]any); ok {
				msg.ToolCalls = make([]api.ToolCall, len(calls))
				for i, tc := range calls {
					name, _ := tc["name"].(string)
					argsJSON, _ := tc["arguments"].(string)
					args := make(api.ToolCallFunctionArguments)
					if argsJSON != "" {
						if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
							return nil, fmt.Errorf("invalid arguments for tool call %s: %w", name, err)
						}
					}
					msg.ToolCalls[i] = api.ToolCall{
						Function: api.ToolCallFunction{
							Index:     i,
							Name:      name,
							Arguments: args,
						},
					}
				}
			}
			msgs = append(msgs, msg)
		case "tool":
			// Ollama carries tool results as tool-role messages keyed by name.
			name, _ := m["tool_name"].(string)
			msgs = append(msgs, api.Message{
				Role:     "tool",
				Content:  content,
				ToolName: name,
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", role)
		}
	}
	return msgs, nil
}

func toolsToOllama(defs []tool.Definition) (api.Tools, error) {
	tools := make(api.Tools, len(defs))
	for i, td := range defs {
		if td.Function == nil {
			return nil, fmt.Errorf("tool %s has nil function", td.Name)
		}
		name, schema := td.ToNameAndSchema()
		jv, err := jsonx.ToDynamicJSON(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema for tool %s: %w", name, err)
		}

		properties := make(map[string]api.ToolProperty)
		if props, ok := jv["properties"].(map[string]any); ok {
			for pname, pv := range props {
				prop := api.ToolProperty{Type: api.PropertyType{"string"}}
				pm, ok := pv.(map[string]any)
				if !ok {
					properties[pname] = prop
					continue
				}
				if ptype, ok := pm["type"].(string); ok {
					prop.Type = api.PropertyType{ptype}
				}
				if desc, ok := pm["description"].(string); ok {
					prop.Description = desc
				}
				if enum, ok := pm["enum"].([]any); ok {
					prop.Enum = enum
				}
				properties[pname] = prop
			}
		}

		tools[i] = api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        name,
				Description: td.Description,
				Parameters: api.ToolFunctionParameters{
					Type:       "object",
					Properties: properties,
					Required:   schema.Required,
				},
			},
		}
	}
	return tools, nil
}
