package application

import (
	"sync"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

// ContentStoreFactory builds a remote content client authenticated with token.
type ContentStoreFactory func(token string) (driven.ContentStore, error)

// ContentClientProvider enables runtime hot-swap of the remote content client.
// It caches the client built for the most recent token, so a credential
// change in the vault takes effect on the next sync without a restart.
type ContentClientProvider struct {
	factory ContentStoreFactory

	mu     sync.Mutex
	token  string
	client driven.ContentStore
}

// NewContentClientProvider creates a provider that builds clients with factory.
func NewContentClientProvider(factory ContentStoreFactory) *ContentClientProvider {
	return &ContentClientProvider{factory: factory}
}

// For returns the client for token, building a new one when the token differs
// from the cached client's.
func (p *ContentClientProvider) For(token string) (driven.ContentStore, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil && p.token == token {
		return p.client, nil
	}

	client, err := p.factory(token)
	if err != nil {
		return nil, err
	}
	p.client = client
	p.token = token
	return client, nil
}

// Reset drops the cached client. The next call to For builds a fresh one.
func (p *ContentClientProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = nil
	p.token = ""
}

// HasClient returns true if a client is currently cached.
func (p *ContentClientProvider) HasClient() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil
}
