package jsonx

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractObject pulls the first JSON object or array out of mixed text.
//
// Models asked for JSON output frequently wrap it in prose or markdown
// fences. This scans for the first balanced {...} or [...] region that
// parses as valid JSON and returns its raw bytes. Returns false when the
// text contains no parseable JSON value.
func ExtractObject(content string) (string, bool) {
	content = strings.TrimSpace(content)
	if fenced, ok := stripFence(content); ok {
		content = fenced
	}
	if gjson.Valid(content) && isContainer(content) {
		return content, true
	}

	start := strings.IndexAny(content, "{[")
	for start >= 0 && start < len(content) {
		open := content[start]
		closing := byte('}')
		if open == '[' {
			closing = ']'
		}
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(content); i++ {
			c := content[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\' && inString:
				escaped = true
			case c == '"':
				inString = !inString
			case inString:
			case c == open:
				depth++
			case c == closing:
				depth--
				if depth == 0 {
					candidate := content[start : i+1]
					if gjson.Valid(candidate) {
						return candidate, true
					}
					i = len(content)
				}
			}
		}
		next := strings.IndexAny(content[start+1:], "{[")
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return "", false
}

func stripFence(content string) (string, bool) {
	if !strings.HasPrefix(content, "```") {
		return "", false
	}
	rest := content[3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.LastIndex(rest, "```"); end >= 0 {
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}

func isContainer(s string) bool {
	return len(s) > 0 && (s[0] == '{' || s[0] == '[')
}
