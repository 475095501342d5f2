package tool

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/facet/call"
	"github.com/calder/facet/messages"
)

func ExportedFormatBook(title, author string) string {
	return formatBook(title, author)
}

func formatBook(title, author string) string {
	return fmt.Sprintf("%s by %s", title, author)
}

func TestNewDefaultsNameFromFunction(t *testing.T) {
	def, err := New(formatBook)
	require.NoError(t, err)
	assert.Equal(t, "formatBook", def.Name)

	def, err = New(ExportedFormatBook)
	require.NoError(t, err)
	assert.Equal(t, "exportedFormatBook", def.Name)
}

func TestNewRejectsNonFunction(t *testing.T) {
	_, err := New("not a function")
	require.Error(t, err)
}

func TestToNameAndSchema(t *testing.T) {
	def := Must(formatBook,
		Name("format_book"),
		Description("Format a book citation"),
		Parameters("title", "author"),
	)

	name, schema := def.ToNameAndSchema()
	assert.Equal(t, "format_book", name)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"title", "author"}, schema.Required)

	titleSchema, ok := schema.Properties.Get("title")
	require.True(t, ok)
	assert.Equal(t, "string", titleSchema.Type)
}

func TestSchemaSkipsInjectedParams(t *testing.T) {
	fn := func(ctx context.Context, args call.Args, city string) string { return city }
	def := Must(fn, Name("weather"), Parameters("city"))

	_, schema := def.ToNameAndSchema()
	assert.Equal(t, 1, schema.Properties.Len())
	assert.Equal(t, []string{"city"}, schema.Required)
}

func TestResolveAndInvoke(t *testing.T) {
	defs := []Definition{
		Must(formatBook, Name("format_book"), Parameters("title", "author")),
	}

	tc := messages.ToolCallData{
		ID:        "call_1",
		Name:      "format_book",
		Arguments: `{"title":"The Name of the Wind","author":"Patrick Rothfuss"}`,
	}

	resolved, err := Resolve(tc, defs)
	require.NoError(t, err)
	assert.Equal(t, "call_1", resolved.CallID)

	out, err := resolved.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The Name of the Wind by Patrick Rothfuss", out)

	resp := resolved.ResponseMessage(out)
	assert.Equal(t, "format_book", resp.ToolName)
	assert.Equal(t, "call_1", resp.ToolCallID)
	assert.Equal(t, out, resp.Content)
}

func TestResolveUnknownTool(t *testing.T) {
	defs := []Definition{Must(formatBook, Name("format_book"), Parameters("title", "author"))}

	_, err := Resolve(messages.ToolCallData{Name: "C", Arguments: "{}"}, defs)
	assert.ErrorIs(t, err, call.ErrNoMatchingTool)
}

func TestResolveInvalidArguments(t *testing.T) {
	defs := []Definition{Must(formatBook, Name("format_book"), Parameters("title", "author"))}

	var schemaErr *call.SchemaError

	_, err := Resolve(messages.ToolCallData{Name: "format_book", Arguments: `{"title":"Dune"}`}, defs)
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "format_book", schemaErr.Subject)

	_, err = Resolve(messages.ToolCallData{Name: "format_book", Arguments: `not json`}, defs)
	assert.ErrorAs(t, err, &schemaErr)

	_, err = Resolve(messages.ToolCallData{Name: "format_book", Arguments: `{"title":"Dune","author":"Herbert","isbn":"x"}`}, defs)
	assert.ErrorAs(t, err, &schemaErr)
}

func TestInvokeInjectsContextAndArgs(t *testing.T) {
	type key struct{}
	var gotArgs call.Args
	fn := func(ctx context.Context, args call.Args, city string) (string, error) {
		gotArgs = args
		if ctx.Value(key{}) == nil {
			return "", fmt.Errorf("missing context value")
		}
		return "sunny in " + city, nil
	}

	defs := []Definition{Must(fn, Name("weather"), Parameters("city"))}
	resolved, err := Resolve(messages.ToolCallData{Name: "weather", Arguments: `{"city":"Lisbon"}`}, defs)
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), key{}, "set")
	out, err := resolved.Invoke(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sunny in Lisbon", out)
	assert.Equal(t, call.Args{"city": "Lisbon"}, gotArgs)
}

func TestInvokeResultConversions(t *testing.T) {
	tests := []struct {
		name string
		fn   any
		args string
		want string
	}{
		{"int", func(n float64) int { return int(n) * 2 }, `{"param0": 21}`, "42"},
		{"float", func(n float64) float64 { return n / 2 }, `{"param0": 5}`, "2.5"},
		{"struct", func(s string) struct {
			Name string `json:"name"`
		} {
			return struct {
				Name string `json:"name"`
			}{Name: s}
		}, `{"param0": "x"}`, `{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := []Definition{Must(tt.fn, Name("conv"))}
			resolved, err := Resolve(messages.ToolCallData{Name: "conv", Arguments: tt.args}, defs)
			require.NoError(t, err)

			out, err := resolved.Invoke(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestInvokeErrorReturn(t *testing.T) {
	fn := func(s string) (string, error) { return "", fmt.Errorf("boom: %s", s) }
	defs := []Definition{Must(fn, Name("failing"), Parameters("input"))}

	resolved, err := Resolve(messages.ToolCallData{Name: "failing", Arguments: `{"input":"x"}`}, defs)
	require.NoError(t, err)

	_, err = resolved.Invoke(context.Background())
	assert.ErrorContains(t, err, "boom: x")
}
