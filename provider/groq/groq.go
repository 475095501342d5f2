// Package groq configures the OpenAI-compatible provider for Groq's
// inference endpoint.
package groq

import (
	"os"
	"sync"

	"github.com/calder/facet/provider"
	"github.com/calder/facet/provider/models"
	"github.com/calder/facet/provider/openaicompat"
)

const (
	providerName = "groq"
	baseURL      = "https://api.groq.com/openai/v1"
)

// New builds a Groq provider. An empty apiKey falls back to the
// GROQ_API_KEY environment variable; a missing key surfaces as a
// configuration error from Setup rather than here.
func New(apiKey string) *openaicompat.Provider {
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
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

func Llama318BInstant() provider.Model {
	return Model("llama-3.1-8b-instant")
}

func Llama3370BVersatile() provider.Model {
	return Model("llama-3.3-70b-versatile")
}

// Model returns the registered Groq model with this name, creating it
// on first use.
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
