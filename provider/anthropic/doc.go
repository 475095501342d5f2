// Package anthropic implements the provider abstraction on top of the
// official Anthropic Go client.
//
// The Messages API differs from OpenAI-style chat completions in a few
// ways this package absorbs: the system prompt travels as a separate
// request field, max_tokens is mandatory, tool results are user-role
// content blocks, and there is no response_format parameter, so JSON
// mode is requested through an instruction appended to the final user
// message.
package anthropic
