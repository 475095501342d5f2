package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/facet/call"
)

func TestParsePlainTextIsUserMessage(t *testing.T) {
	tmpl, err := Parse("Recommend a {genre} book")
	require.NoError(t, err)
	assert.Equal(t, []string{"genre"}, tmpl.Variables())

	sections, err := tmpl.Render(call.Args{"genre": "fantasy"})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "user", sections[0].Role)
	assert.Equal(t, "Recommend a fantasy book", sections[0].Content)
}

func TestParseRoleSections(t *testing.T) {
	tmpl := MustParse(`
		SYSTEM: You are the world's greatest librarian.
		USER: Recommend a {genre} book for {reader}.
	`)

	sections, err := tmpl.Render(call.Args{"genre": "mystery", "reader": "a teenager"})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "system", sections[0].Role)
	assert.Equal(t, "You are the world's greatest librarian.", sections[0].Content)
	assert.Equal(t, "user", sections[1].Role)
	assert.Equal(t, "Recommend a mystery book for a teenager.", sections[1].Content)
}

func TestRenderMissingVariable(t *testing.T) {
	tmpl := MustParse("Recommend a {genre} book")

	_, err := tmpl.Render(call.Args{})
	var cfg *call.ConfigError
	assert.ErrorAs(t, err, &cfg)
}

func TestParseTextBeforeMarkerFails(t *testing.T) {
	_, err := Parse("hello\nUSER: hi")
	assert.Error(t, err)
}

func TestRenderSkipsEmptySections(t *testing.T) {
	tmpl := MustParse(`
		SYSTEM: {instructions}
		USER: {question}
	`)

	sections, err := tmpl.Render(call.Args{"instructions": "", "question": "why?"})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "user", sections[0].Role)
}

func TestRenderText(t *testing.T) {
	tmpl := MustParse(`
		Original Text: {original_text}
		Summary: {summary}

		Critique the summary of the original text.
	`)

	text, err := tmpl.RenderText(call.Args{"original_text": "a", "summary": "b"})
	require.NoError(t, err)
	assert.Contains(t, text, "Original Text: a")
	assert.Contains(t, text, "Summary: b")
	assert.Contains(t, text, "Critique the summary")
}

func TestVariablesDeduplicated(t *testing.T) {
	tmpl := MustParse("{name} and {name} with {other}")
	assert.Equal(t, []string{"name", "other"}, tmpl.Variables())
}
