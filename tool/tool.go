package tool

import (
	"context"
	"fmt"
	"reflect"

	"github.com/fogfish/opts"
	"github.com/go-openapi/swag"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pkg/reflectx"
	"github.com/calder/facet/pkg/stdx"
)

// Definition is a model-callable tool: a Go function plus the metadata
// a provider needs to advertise it. Parameters maps positional keys
// ("param0", "param1", ...) to the names the schema exposes.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]string
	Function    any
}

var functionReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

var ctxType = reflect.TypeFor[context.Context]()

// isInjected reports whether a parameter is bound by the runtime rather
// than by the model's arguments.
func isInjected(t reflect.Type) bool {
	return t == ctxType || reflectx.IsRefinedType[call.Args](t)
}

// ToNameAndSchema reflects the tool into the name and JSON schema a
// provider advertises. Injected parameters (context.Context, call.Args)
// are excluded from the schema; every remaining parameter is required.
func (td Definition) ToNameAndSchema() (string, *jsonschema.Schema) {
	return functionDefinitionJSON(&functionReflector, td)
}

func functionDefinitionJSON(reflector *jsonschema.Reflector, f Definition) (string, *jsonschema.Schema) {
	val := reflect.ValueOf(f.Function)
	typ := val.Type()

	name := f.Name
	if name == "" && typ.Kind() == reflect.Func {
		name = swag.ToJSONName(reflectx.FunctionName(f.Function))
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}

	if typ.Kind() == reflect.Func {
		var required []string
		modelIdx := 0
		for i := 0; i < typ.NumIn(); i++ {
			paramType := typ.In(i)
			if isInjected(paramType) {
				continue
			}

			paramName := fmt.Sprintf("param%d", modelIdx)
			if f.Parameters != nil {
				if p, ok := f.Parameters[paramName]; ok {
					paramName = p
				}
			}
			modelIdx++

			propSchema := reflector.ReflectFromType(paramType)
			propSchema.Version = ""
			schema.Properties.Set(paramName, propSchema)
			required = append(required, paramName)
		}
		if len(required) > 0 {
			schema.Required = required
		}
	}

	return name, schema
}

// Option configures a Definition during construction.
type Option = opts.Option[Definition]

// Name overrides the reflected function name.
var Name = opts.ForName[Definition, string]("Name")

// Description sets the description providers show the model.
var Description = opts.ForName[Definition, string]("Description")

// Parameters names the function's model-bound parameters in positional
// order, replacing the default paramN keys in the schema.
func Parameters(parameters ...string) opts.Option[Definition] {
	return opts.Type[Definition](func(o *Definition) error {
		o.Parameters = make(map[string]string, len(parameters))
		for i, p := range parameters {
			o.Parameters[fmt.Sprintf("param%d", i)] = p
		}
		return nil
	})
}

// New wraps a function as a tool definition. The name defaults to the
// function's symbol name when no Name option is given.
func New(f any, options ...Option) (Definition, error) {
	if !reflectx.IsFunction(f) {
		return Definition{}, fmt.Errorf("provided value is not a function")
	}

	var def Definition
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		// JSON-name form so exported Go functions advertise lowerCamel names
		def.Name = swag.ToJSONName(reflectx.FunctionName(f))
	}

	def.Function = f
	return def, nil
}

// Must is New that panics on error, for package-level declarations.
func Must(f any, options ...Option) Definition {
	return stdx.Must1(New(f, options...))
}
