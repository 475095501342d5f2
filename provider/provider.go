package provider

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/calder/facet/call"
	"github.com/calder/facet/thread"
	"github.com/calder/facet/tool"
)

// Provider is the contract an AI backend implements. Setup assembles
// everything one call needs and returns it as an Invocation; it
// validates configuration and renders prompts but performs no network
// I/O.
type Provider interface {
	Name() string
	Setup(ctx context.Context, params SetupParams) (*Invocation, error)
}

// Model identifies a concrete model together with the provider that
// serves it.
type Model interface {
	Name() string
	Provider() Provider
}

// SetupParams carries everything a provider needs to assemble one call.
type SetupParams struct {
	// Model selects which model handles this call.
	Model Model

	// Mode fixes the execution variant for the resulting Invocation.
	Mode call.ExecMode

	// Instructions is the system prompt, used when PromptTemplate has
	// no SYSTEM section of its own.
	Instructions string

	// PromptTemplate is the role-sectioned template rendered with
	// FnArgs to produce this call's messages.
	PromptTemplate string

	// Fn, when set, computes a DynamicConfig from FnArgs before
	// assembly. An explicit DynamicConfig takes precedence over Fn.
	Fn            call.PromptFn
	FnArgs        call.Args
	DynamicConfig *call.DynamicConfig

	// Thread supplies prior conversation history to prepend.
	Thread *thread.Thread

	// Tools are advertised to the model for function calling.
	Tools []tool.Definition

	// JSONMode asks the provider for a JSON-typed response without a
	// fixed schema.
	JSONMode bool

	// Output, when set, requests structured output against its schema.
	Output *StructuredOutput

	// CallParams are the sampling parameters for this call.
	CallParams *call.Params

	_ struct{}
}

// StructuredOutput defines a schema for formatted responses.
type StructuredOutput struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}
