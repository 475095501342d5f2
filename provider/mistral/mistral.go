// Package mistral configures the OpenAI-compatible provider for
// Mistral's La Plateforme endpoint.
package mistral

import (
	"os"
	"sync"

	"github.com/calder/facet/provider"
	"github.com/calder/facet/provider/models"
	"github.com/calder/facet/provider/openaicompat"
)

const (
	providerName = "mistral"
	baseURL      = "https://api.mistral.ai/v1"
)

// New builds a Mistral provider. An empty apiKey falls back to the
// MISTRAL_API_KEY environment variable; a missing key surfaces as a
// configuration error from Setup rather than here.
func New(apiKey string) *openaicompat.Provider {
	if apiKey == "" {
		apiKey = os.Getenv("MISTRAL_API_KEY")
	}
	p, err := openaicompat.New(openaicompat.Config{
		Name:    providerName,
		APIKey:  apiKey,
		BaseURL: baseURL,
	})
	if err != nil {
		// Name is always set, so New cannot fail.
		panic(err)
	}
	return p
}

func MistralLarge() provider.Model {
	return Model("mistral-large-latest")
}

func MistralSmall() provider.Model {
	return Model("mistral-small-latest")
}

func MistralNemo() provider.Model {
	return Model("open-mistral-nemo")
}

// Model returns the registered Mistral model with this name, creating
// it on first use.
func Model(name string) provider.Model {
	return models.GetOrAdd(name, func() provider.Model {
		return &model{name: name}
	})
}

var _ provider.Model = (*model)(nil)

type model struct {
	name string

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		m.prov = New("")
	})
	return m.prov
}
