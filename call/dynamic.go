package call

import "context"

// DynamicConfig is the per-invocation override a prompt function may
// return. Every field is optional; a nil DynamicConfig means the static
// configuration applies unchanged.
type DynamicConfig struct {
	// Messages replaces the rendered prompt template entirely.
	Messages []map[string]any
	// Tools replaces the statically configured tool set.
	Tools []any
	// CallParams overrides the generator's sampling parameters.
	CallParams *Params
	// ComputedFields are values merged into the template variables
	// before rendering, computed from the call arguments.
	ComputedFields map[string]any
	// Metadata travels to trace attributes, never on the wire.
	Metadata map[string]any

	_ struct{}
}

// PromptFn is the user-supplied function a generator wraps. Its
// arguments become template variables; a non-nil DynamicConfig return
// overrides pieces of the static configuration for this call only.
type PromptFn func(ctx context.Context, args Args) (*DynamicConfig, error)
