package provider

import (
	"context"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
	"github.com/calder/facet/prompt"
	"github.com/calder/facet/tool"
)

// Prepared is the provider-neutral result of call assembly: the rendered
// prompt, the effective tool set, and the frozen request kwargs. Each
// provider maps it onto its SDK's native request type.
type Prepared struct {
	PromptTemplate string
	Sections       []prompt.Section
	WireMessages   []map[string]any
	ToolTypes      []tool.Definition
	Params         *call.Params
	Kwargs         call.Kwargs

	_ struct{}
}

// Prepare performs the provider-independent half of Setup: it resolves
// the dynamic config, renders the prompt template, folds in thread
// history, and freezes the kwargs. Providers call it first and translate
// the result into their wire format.
//
// Precedence: an explicit DynamicConfig wins over Fn; dynamic messages
// replace the rendered template; dynamic call params replace the static
// ones; dynamic computed fields are merged into the template variables
// before rendering.
func Prepare(ctx context.Context, params SetupParams) (*Prepared, error) {
	if params.Model == nil {
		return nil, call.Configf("no model configured")
	}

	dynamic := params.DynamicConfig
	if dynamic == nil && params.Fn != nil {
		dc, err := params.Fn(ctx, params.FnArgs)
		if err != nil {
			return nil, err
		}
		dynamic = dc
	}

	callParams := params.CallParams
	if dynamic != nil && dynamic.CallParams != nil {
		callParams = dynamic.CallParams
	}

	toolTypes := params.Tools
	if dynamic != nil && len(dynamic.Tools) > 0 {
		resolved, err := resolveDynamicTools(dynamic.Tools)
		if err != nil {
			return nil, err
		}
		toolTypes = resolved
	}

	p := &Prepared{
		PromptTemplate: params.PromptTemplate,
		ToolTypes:      toolTypes,
		Params:         callParams,
	}

	if dynamic != nil && len(dynamic.Messages) > 0 {
		p.WireMessages = dynamic.Messages
	} else {
		sections, err := renderTemplate(params, dynamic)
		if err != nil {
			return nil, err
		}
		p.Sections = sections

		if params.Instructions != "" && !hasSystemSection(sections) {
			p.WireMessages = append(p.WireMessages, map[string]any{
				"role":    "system",
				"content": params.Instructions,
			})
		}
		for _, s := range sections {
			p.WireMessages = append(p.WireMessages, map[string]any{
				"role":    s.Role,
				"content": s.Content,
			})
		}
	}

	if params.Thread != nil {
		history := make([]map[string]any, 0, params.Thread.Len())
		for msg := range params.Thread.MessagesIter() {
			wire, ok := wireFromMessage(msg)
			if !ok {
				continue
			}
			history = append(history, wire)
		}
		p.WireMessages = append(history, p.WireMessages...)
	}

	names := make([]string, 0, len(toolTypes))
	for _, td := range toolTypes {
		names = append(names, td.Name)
	}

	p.Kwargs = call.NewKwargs(params.Model.Name(), p.WireMessages, names, params.JSONMode || params.Output != nil, callParams)
	return p, nil
}

func renderTemplate(params SetupParams, dynamic *call.DynamicConfig) ([]prompt.Section, error) {
	if params.PromptTemplate == "" {
		return nil, nil
	}

	tmpl, err := prompt.Parse(params.PromptTemplate)
	if err != nil {
		return nil, err
	}

	vars := make(call.Args, len(params.FnArgs))
	for k, v := range params.FnArgs {
		vars[k] = v
	}
	if dynamic != nil {
		for k, v := range dynamic.ComputedFields {
			vars[k] = v
		}
	}

	return tmpl.Render(vars)
}

func hasSystemSection(sections []prompt.Section) bool {
	for _, s := range sections {
		if s.Role == "system" {
			return true
		}
	}
	return false
}

// resolveDynamicTools accepts the loosely typed tool values a dynamic
// config may carry: ready Definitions or bare functions.
func resolveDynamicTools(values []any) ([]tool.Definition, error) {
	out := make([]tool.Definition, 0, len(values))
	for _, v := range values {
		switch tv := v.(type) {
		case tool.Definition:
			out = append(out, tv)
		case *tool.Definition:
			out = append(out, *tv)
		default:
			def, err := tool.New(v)
			if err != nil {
				return nil, call.Configf("dynamic tool %T is neither a definition nor a function", v)
			}
			out = append(out, def)
		}
	}
	return out, nil
}

// wireFromMessage renders one thread message in the generic chat wire
// shape. Instruction payloads are skipped: the system prompt is supplied
// per call, not replayed from history.
func wireFromMessage(msg messages.Message[messages.ModelMessage]) (map[string]any, bool) {
	switch payload := msg.Payload.(type) {
	case messages.UserMessage:
		wire := map[string]any{"role": "user", "content": payload.Content.Content}
		if len(payload.Content.Parts) > 0 {
			wire["parts"] = payload.Content.Parts
		}
		return wire, true
	case messages.AssistantMessage:
		return map[string]any{"role": "assistant", "content": payload.Content.Content}, true
	case messages.ToolCallMessage:
		calls := make([]map[string]any, 0, len(payload.ToolCalls))
		for _, tc := range payload.ToolCalls {
			calls = append(calls, map[string]any{
				"id":        tc.ID,
				"name":      tc.Name,
				"arguments": tc.Arguments,
			})
		}
		return map[string]any{"role": "assistant", "tool_calls": calls}, true
	case messages.ToolResponse:
		wire := map[string]any{
			"role":         "tool",
			"tool_call_id": payload.ToolCallID,
			"content":      payload.Content,
		}
		if payload.ToolName != "" {
			wire["tool_name"] = payload.ToolName
		}
		return wire, true
	default:
		return nil, false
	}
}
