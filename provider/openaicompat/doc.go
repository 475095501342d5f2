// Package openaicompat implements the provider abstraction for services
// that speak the OpenAI chat completions wire protocol at a different
// base URL. Groq and Mistral both expose such endpoints; the provider
// packages for them are thin configurations of this one.
package openaicompat
