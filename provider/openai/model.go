package openai

import (
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/calder/facet/provider"
	"github.com/calder/facet/provider/models"
)

func GPT4oMini(opts ...option.RequestOption) provider.Model {
	return Model(openai.ChatModelGPT4oMini, opts...)
}

func GPT4o(opts ...option.RequestOption) provider.Model {
	return Model(openai.ChatModelGPT4o, opts...)
}

func O1Mini(opts ...option.RequestOption) provider.Model {
	return Model(openai.ChatModelO1Mini, opts...)
}

func O1(opts ...option.RequestOption) provider.Model {
	return Model(openai.ChatModelO1, opts...)
}

// Model returns the registered model with this name, creating it on
// first use. The client options are captured then; later callers share
// the same instance.
func Model(name string, opts ...option.RequestOption) provider.Model {
	return models.GetOrAdd(name, func() provider.Model {
		return &model{
			name: name,
			opts: opts,
		}
	})
}

var _ provider.Model = (*model)(nil)

type model struct {
	name string
	opts []option.RequestOption

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		m.prov = New(m.opts...)
	})
	return m.prov
}
