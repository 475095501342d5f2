package ollama

import (
	"sync"

	"github.com/calder/facet/provider"
	"github.com/calder/facet/provider/models"
)

func Llama32() provider.Model {
	return Model("llama3.2")
}

func Qwen25() provider.Model {
	return Model("qwen2.5")
}

func Mistral7B() provider.Model {
	return Model("mistral")
}

// Model returns the registered Ollama model with this name, creating it
// on first use. The lazy provider talks to the server named by the
// environment.
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
		// An empty host never fails; environment problems surface from Setup.
		m.prov, _ = New("")
	})
	return m.prov
}
