package tool

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
	"github.com/calder/facet/pkg/slogx"
)

// Call is a resolved tool invocation: the matched definition, the
// provider-assigned call identifier, and the parsed arguments, ready to
// Invoke.
type Call struct {
	Definition Definition
	CallID     string

	args gjson.Result
}

// Resolve matches a model-emitted tool call against the advertised
// definitions. No definition with the requested name is a recoverable
// condition reported as call.ErrNoMatchingTool: the model asked for a
// tool that was never offered, and the caller decides whether to reprompt.
// Arguments that do not satisfy the matched tool's schema are a
// *call.SchemaError instead; that contract violation should surface loudly.
func Resolve(tc messages.ToolCallData, defs []Definition) (*Call, error) {
	var def *Definition
	for i := range defs {
		if defs[i].Name == tc.Name {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return nil, fmt.Errorf("resolve %q: %w", tc.Name, call.ErrNoMatchingTool)
	}

	args, err := parseArguments(*def, tc.Arguments)
	if err != nil {
		return nil, &call.SchemaError{Subject: def.Name, Err: err}
	}

	return &Call{Definition: *def, CallID: tc.ID, args: args}, nil
}

func parseArguments(def Definition, raw string) (gjson.Result, error) {
	if raw == "" {
		raw = "{}"
	}
	if !gjson.Valid(raw) {
		return gjson.Result{}, fmt.Errorf("arguments are not valid JSON: %s", raw)
	}
	args := gjson.Parse(raw)
	if !args.IsObject() {
		return gjson.Result{}, fmt.Errorf("arguments must be a JSON object, got %s", args.Type)
	}

	_, schema := def.ToNameAndSchema()
	known := make(map[string]bool, schema.Properties.Len())
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		known[pair.Key] = true
	}

	var err error
	args.ForEach(func(key, _ gjson.Result) bool {
		if !known[key.Str] {
			err = fmt.Errorf("unknown argument %q", key.Str)
			return false
		}
		return true
	})
	if err != nil {
		return gjson.Result{}, err
	}

	for _, name := range schema.Required {
		if !args.Get(name).Exists() {
			return gjson.Result{}, fmt.Errorf("missing required argument %q", name)
		}
	}

	return args, nil
}

// Args returns the parsed arguments as a plain map.
func (c *Call) Args() call.Args {
	out := make(call.Args)
	c.args.ForEach(func(key, value gjson.Result) bool {
		out[key.Str] = value.Value()
		return true
	})
	return out
}

// Invoke binds the arguments to the wrapped function and calls it.
// context.Context and call.Args parameters are injected; model-bound
// parameters are filled positionally from the schema's parameter names.
// The result is rendered to a string for the tool response message.
func (c *Call) Invoke(ctx context.Context) (string, error) {
	argList := c.buildArgList()
	return callFunction(ctx, c.Definition.Function, argList, c.Args())
}

// buildArgList gathers the model-bound argument values in positional
// order, resolving each position to its schema name when one was given.
func (c *Call) buildArgList() []reflect.Value {
	typ := reflect.TypeOf(c.Definition.Function)
	bound := 0
	for i := 0; i < typ.NumIn(); i++ {
		if !isInjected(typ.In(i)) {
			bound++
		}
	}

	toolArgs := make([]reflect.Value, 0, bound)
	for i := 0; i < bound; i++ {
		arg := fmt.Sprintf("param%d", i)
		if named, ok := c.Definition.Parameters[arg]; ok {
			arg = named
		}

		val := c.args.Get(arg)
		if !val.Exists() {
			continue
		}

		toolArgs = append(toolArgs, reflect.ValueOf(val.Value()))
	}
	return toolArgs
}

func callFunction(ctx context.Context, fn any, args []reflect.Value, callArgs call.Args) (string, error) {
	val := reflect.ValueOf(fn)
	vtpe := val.Type()

	numIn := vtpe.NumIn()
	in := make([]reflect.Value, numIn)

	ai := 0
	for fi := 0; fi < numIn; fi++ {
		paramType := vtpe.In(fi)
		switch {
		case paramType == ctxType:
			in[fi] = reflect.ValueOf(ctx)
		case isInjected(paramType):
			in[fi] = reflect.ValueOf(callArgs)
		default:
			in[fi] = reflect.Zero(paramType)
			if ai < len(args) {
				vv := args[ai]
				ai++
				if vv.Type().ConvertibleTo(paramType) {
					in[fi] = vv.Convert(paramType)
				}
			}
		}
	}

	results := val.Call(in)
	if len(results) == 0 {
		return "", nil
	}

	// A trailing error return aborts the call before any value rendering.
	if last := results[len(results)-1]; last.IsValid() {
		if err, ok := last.Interface().(error); ok && err != nil {
			return "", err
		}
	}

	res := results[0]
	if !res.IsValid() {
		return "", nil
	}

	switch rv := res.Interface().(type) {
	case error:
		if rv != nil {
			return "", rv
		}
		return "", nil
	case string:
		return rv, nil
	case time.Time:
		return rv.Format(time.RFC3339), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(rv).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(rv).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(rv).Float(), 'f', -1, 64), nil
	case encoding.TextMarshaler:
		b, err := rv.MarshalText()
		if err != nil {
			slog.Error("Error marshalling function return", slogx.Error(err))
			return "", err
		}
		return string(b), nil
	case fmt.Stringer:
		return rv.String(), nil
	default:
		b, err := json.Marshal(rv)
		if err != nil {
			slog.Error("Error marshalling function return", slogx.Error(err))
			return "", err
		}
		return string(b), nil
	}
}

// ResponseMessage renders the invocation result as the tool response
// payload that continues the conversation.
func (c *Call) ResponseMessage(content string) messages.ToolResponse {
	return messages.ToolResponse{
		ToolName:   c.Definition.Name,
		ToolCallID: c.CallID,
		Content:    content,
	}
}
