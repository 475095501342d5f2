// Package ollama implements the provider for a local or remote Ollama
// server. Models run locally, so usage is reported from the server's
// eval metrics and cost is never known.
package ollama
