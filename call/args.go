package call

import json "github.com/goccy/go-json"

// Args carries the named arguments of one generator invocation. They feed
// prompt-template rendering and are handed to the user's prompt function
// unchanged.
//
// Args is a plain map and not safe for concurrent modification.
type Args map[string]any

// String returns the JSON form of the arguments, or "" when they cannot
// be marshaled.
func (a Args) String() string {
	data, err := json.Marshal(a)
	if err != nil {
		return ""
	}
	return string(data)
}
