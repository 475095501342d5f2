// Package openai implements the provider abstraction on top of the
// official OpenAI Go client.
//
// Setup maps the provider-neutral call assembly onto
// openai.ChatCompletionNewParams: rendered messages become typed message
// unions, tool definitions become function declarations, and structured
// output requests become a json_schema response format. Streaming calls
// request usage reporting on the final chunk so token accounting works
// in both modes.
//
// Responses and chunks are wrapped in thin adapters that derive every
// accessor from the SDK value on demand; nothing is copied out ahead of
// time.
package openai
