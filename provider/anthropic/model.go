package anthropic

import (
	"sync"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/calder/facet/provider"
	"github.com/calder/facet/provider/models"
)

func Claude35Sonnet(opts ...option.RequestOption) provider.Model {
	return Model(string(anthropic.ModelClaude3_5SonnetLatest), opts...)
}

func Claude35Haiku(opts ...option.RequestOption) provider.Model {
	return Model(string(anthropic.ModelClaude3_5HaikuLatest), opts...)
}

func Claude3Opus(opts ...option.RequestOption) provider.Model {
	return Model(string(anthropic.ModelClaude3OpusLatest), opts...)
}

// Model returns the registered model with this name, creating it on
// first use.
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
