package call

import (
	"sort"

	"github.com/fogfish/opts"
	"github.com/goccy/go-json"
)

// Params are provider-portable sampling knobs. Nil fields are omitted
// from provider requests so each backend applies its own defaults.
// Provider-specific extras that have no portable field travel in Extra.
type Params struct {
	Temperature      *float64
	TopP             *float64
	MaxTokens        *int64
	StopSequences    []string
	Seed             *int64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Extra            map[string]any

	_ struct{}
}

// StopSequences sets the sequences that end generation.
var StopSequences = opts.ForName[Params, []string]("StopSequences")

// Extra carries provider-specific parameters verbatim.
var Extra = opts.ForName[Params, map[string]any]("Extra")

// Temperature sets the sampling temperature.
func Temperature(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.Temperature = &v
		return nil
	})
}

// TopP sets the nucleus sampling probability mass.
func TopP(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.TopP = &v
		return nil
	})
}

// MaxTokens caps the number of generated tokens.
func MaxTokens(n int64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.MaxTokens = &n
		return nil
	})
}

// Seed requests deterministic sampling where supported.
func Seed(n int64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.Seed = &n
		return nil
	})
}

// FrequencyPenalty penalizes repeated tokens by frequency.
func FrequencyPenalty(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.FrequencyPenalty = &v
		return nil
	})
}

// PresencePenalty penalizes tokens already present in the output.
func PresencePenalty(v float64) opts.Option[Params] {
	return opts.Type[Params](func(p *Params) error {
		p.PresencePenalty = &v
		return nil
	})
}

// NewParams builds a Params from functional options.
func NewParams(options ...opts.Option[Params]) (*Params, error) {
	var p Params
	if err := opts.Apply(&p, options); err != nil {
		return nil, err
	}
	return &p, nil
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	cp := *p
	cp.StopSequences = append([]string(nil), p.StopSequences...)
	if p.Extra != nil {
		cp.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			cp.Extra[k] = v
		}
	}
	return &cp
}

// Kwargs is the fully resolved request shape for one call. It is built
// exactly once during setup, after prompt rendering and tool conversion,
// and never mutated afterwards. Building it twice from the same inputs
// yields an equal value.
type Kwargs struct {
	Model    string
	Messages []map[string]any
	Tools    []string
	JSONMode bool
	Params   *Params
	Extra    map[string]any

	_ struct{}
}

// NewKwargs assembles the request keyword set. Tool names are sorted so
// repeated assembly from the same inputs compares equal; message order
// is preserved as given.
func NewKwargs(model string, wireMessages []map[string]any, toolNames []string, jsonMode bool, params *Params) Kwargs {
	names := append([]string(nil), toolNames...)
	sort.Strings(names)
	if len(names) == 0 {
		names = nil
	}
	return Kwargs{
		Model:    model,
		Messages: wireMessages,
		Tools:    names,
		JSONMode: jsonMode,
		Params:   params.Clone(),
	}
}

// String renders the kwargs as JSON for logging and trace attributes.
func (k Kwargs) String() string {
	data, err := json.Marshal(map[string]any{
		"model":     k.Model,
		"messages":  k.Messages,
		"tools":     k.Tools,
		"json_mode": k.JSONMode,
	})
	if err != nil {
		return "{}"
	}
	return string(data)
}
