// Package pricing maintains the per-model token price tables used to
// derive a USD cost figure from reported usage. Prices are expressed in
// USD per million tokens and keyed by provider and model name.
//
// The tables ship with the prices current at release time and can be
// overridden at runtime with Register, which also covers models that
// are not listed at all. Lookups for unknown models report no price
// rather than guessing.
package pricing

import (
	"github.com/calder/facet/internal/registry"
)

// Price is the cost of one million tokens, split by direction.
type Price struct {
	Input  float64
	Output float64
	_      struct{}
}

const perMillion = 1_000_000

var prices = registry.New[Price]()

func init() {
	for model, p := range map[string]Price{
		// OpenAI
		"openai/gpt-4o":         {Input: 2.50, Output: 10.00},
		"openai/gpt-4o-mini":    {Input: 0.15, Output: 0.60},
		"openai/gpt-4-turbo":    {Input: 10.00, Output: 30.00},
		"openai/o1":             {Input: 15.00, Output: 60.00},
		"openai/o1-mini":        {Input: 1.10, Output: 4.40},
		"openai/o3-mini":        {Input: 1.10, Output: 4.40},
		"openai/gpt-3.5-turbo":  {Input: 0.50, Output: 1.50},

		// Anthropic
		"anthropic/claude-3-5-sonnet-latest": {Input: 3.00, Output: 15.00},
		"anthropic/claude-3-5-haiku-latest":  {Input: 0.80, Output: 4.00},
		"anthropic/claude-3-opus-latest":     {Input: 15.00, Output: 75.00},

		// Groq
		"groq/llama-3.1-8b-instant":    {Input: 0.05, Output: 0.08},
		"groq/llama-3.3-70b-versatile": {Input: 0.59, Output: 0.79},
		"groq/mixtral-8x7b-32768":      {Input: 0.24, Output: 0.24},

		// Mistral
		"mistral/mistral-large-latest": {Input: 2.00, Output: 6.00},
		"mistral/mistral-small-latest": {Input: 0.20, Output: 0.60},
		"mistral/open-mistral-nemo":    {Input: 0.15, Output: 0.15},
	} {
		prices.Add(model, p)
	}
}

func key(provider, model string) string { return provider + "/" + model }

// Register installs or overrides the price for a model. Self-hosted
// deployments can use this to attribute their own cost figures.
func Register(provider, model string, price Price) {
	prices.Add(key(provider, model), price)
}

// Lookup returns the price table entry for a model.
func Lookup(provider, model string) (Price, bool) {
	return prices.Get(key(provider, model))
}

// Calculate derives the USD cost of a call from its token counts. The
// second return is false when no price is known for the model, which is
// always the case for local runtimes like ollama.
func Calculate(provider, model string, inputTokens, outputTokens int64) (float64, bool) {
	p, ok := prices.Get(key(provider, model))
	if !ok {
		return 0, false
	}
	cost := float64(inputTokens)*p.Input/perMillion + float64(outputTokens)*p.Output/perMillion
	return cost, true
}
