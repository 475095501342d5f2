package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDynamicJSON(t *testing.T) {
	type book struct {
		Title  string `json:"title"`
		Author string `json:"author"`
	}

	jv, err := ToDynamicJSON(book{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", jv["title"])
	assert.Equal(t, "Herbert", jv["author"])
}

func TestToDynamicJSON_Unmarshalable(t *testing.T) {
	_, err := ToDynamicJSON(make(chan int))
	assert.Error(t, err)
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"bare array", `[1,2]`, `[1,2]`, true},
		{"prose wrapped", `Sure! Here you go: {"a":1} hope that helps`, `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"nested braces", `text {"a":{"b":"}"}} tail`, `{"a":{"b":"}"}}`, true},
		{"no json", `just some text`, "", false},
		{"unbalanced", `{"a":`, "", false},
		{"empty", ``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.content)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
