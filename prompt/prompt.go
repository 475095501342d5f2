// Package prompt renders role-sectioned prompt templates.
//
// A template is plain text with {variable} placeholders. Uppercase role
// markers at the start of a line (SYSTEM:, USER:, ASSISTANT:) split the
// text into per-role messages; text without markers becomes a single
// user message. Rendering fails on variables the caller did not supply.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/calder/facet/call"
)

// Section is one rendered role block of a template.
type Section struct {
	Role    string
	Content string
	_       struct{}
}

// Template is a parsed prompt template ready for rendering.
type Template struct {
	source   string
	sections []rawSection
}

type rawSection struct {
	role string
	tmpl *template.Template
}

var (
	roleMarker  = regexp.MustCompile(`(?m)^(SYSTEM|USER|ASSISTANT):[ \t]*`)
	placeholder = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)
)

// Parse compiles a template. Placeholder syntax errors and malformed
// role sections surface here, before any call is attempted.
func Parse(source string) (*Template, error) {
	text := dedent(source)

	t := &Template{source: source}

	markers := roleMarker.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		tmpl, err := compile("user", text)
		if err != nil {
			return nil, err
		}
		t.sections = []rawSection{{role: "user", tmpl: tmpl}}
		return t, nil
	}

	if lead := strings.TrimSpace(text[:markers[0][0]]); lead != "" {
		return nil, fmt.Errorf("prompt template: text before first role marker: %q", lead)
	}

	for i, m := range markers {
		role := strings.ToLower(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		body := strings.TrimSpace(text[m[1]:end])

		tmpl, err := compile(role, body)
		if err != nil {
			return nil, err
		}
		t.sections = append(t.sections, rawSection{role: role, tmpl: tmpl})
	}
	return t, nil
}

// MustParse is Parse that panics, for package-level template literals.
func MustParse(source string) *Template {
	t, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return t
}

func compile(role, body string) (*template.Template, error) {
	converted := placeholder.ReplaceAllString(body, `{{index . "$1"}}`)
	tmpl, err := template.New(role).Option("missingkey=error").Parse(converted)
	if err != nil {
		return nil, fmt.Errorf("prompt template (%s section): %w", role, err)
	}
	return tmpl, nil
}

// Source returns the template text exactly as given to Parse.
func (t *Template) Source() string { return t.source }

// Variables lists the distinct placeholder names in source order.
func (t *Template) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(t.source, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render produces the rendered sections. A placeholder with no matching
// variable is a *call.ConfigError: the template and the arguments were
// wired up inconsistently, which no retry will fix.
func (t *Template) Render(vars call.Args) ([]Section, error) {
	if vars == nil {
		vars = call.Args{}
	}

	out := make([]Section, 0, len(t.sections))
	for _, s := range t.sections {
		var sb strings.Builder
		if err := s.tmpl.Execute(&sb, map[string]any(vars)); err != nil {
			return nil, call.Configf("render prompt template: %v", err)
		}
		content := strings.TrimSpace(sb.String())
		if content == "" {
			continue
		}
		out = append(out, Section{Role: s.role, Content: content})
	}
	return out, nil
}

// RenderText renders the template and joins all sections into one
// string, for single-message templates.
func (t *Template) RenderText(vars call.Args) (string, error) {
	sections, err := t.Render(vars)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// dedent strips the common leading indentation of a multi-line literal
// so templates written inside indented Go code render flush left.
func dedent(s string) string {
	lines := strings.Split(s, "\n")

	margin := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return strings.TrimSpace(s)
	}

	for i, line := range lines {
		if len(line) >= margin {
			lines[i] = line[margin:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
