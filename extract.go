package facet

import (
	"context"
	"errors"

	"github.com/fogfish/opts"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pkg/jsonx"
	"github.com/calder/facet/provider"
)

var outputReflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// ToJSONSchema derives the JSON schema used for structured output of T.
func ToJSONSchema[T any]() *jsonschema.Schema {
	var v T
	return outputReflector.Reflect(v)
}

// Extractor is a generator whose replies decode into T. Providers with
// native schema support receive the derived schema; the rest get JSON
// mode plus the schema embedded in the prompt.
type Extractor[T any] struct {
	gen *Generator
}

// NewExtractor builds an extractor for T. The generator options are the
// same as for New; combining extraction with JSONMode is a
// configuration error, since the schema request already implies it.
func NewExtractor[T any](name, description string, options ...opts.Option[Generator]) (*Extractor[T], error) {
	gen, err := New(options...)
	if err != nil {
		return nil, err
	}
	if gen.jsonMode {
		return nil, call.Configf("structured extraction already implies json mode")
	}
	gen.output = &provider.StructuredOutput{
		Name:        name,
		Description: description,
		Schema:      ToJSONSchema[T](),
	}
	return &Extractor[T]{gen: gen}, nil
}

// Generator exposes the wrapped generator, e.g. for streaming the raw
// reply instead of decoding it.
func (e *Extractor[T]) Generator() *Generator { return e.gen }

// Extract performs one synchronous call and decodes the reply into T.
// The raw response is returned alongside for usage and cost accounting.
// A reply that carries no parseable value of T is a *call.SchemaError.
func (e *Extractor[T]) Extract(ctx context.Context, args call.Args) (T, call.Response, error) {
	var zero T

	resp, err := e.gen.Invoke(ctx, args)
	if err != nil {
		return zero, nil, err
	}

	out, err := Decode[T](e.gen.output.Name, resp.Content())
	if err != nil {
		return zero, resp, err
	}
	return out, resp, nil
}

// Decode parses one model reply into T. Markdown fences and surrounding
// prose around the JSON payload are tolerated.
func Decode[T any](subject, content string) (T, error) {
	var out T

	raw, ok := jsonx.ExtractObject(content)
	if !ok {
		return out, &call.SchemaError{
			Subject: subject,
			Err:     errors.New("response contains no JSON value"),
		}
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, &call.SchemaError{Subject: subject, Err: err}
	}
	return out, nil
}
