// Package anthropic declares the Anthropic backend slot.
//
// The integration is not built yet: every operation returns
// provider.ErrNotImplemented and the availability probe reports false, so
// dispatch never routes to it. Registering the provider keeps the name
// reserved and the wiring exercised ahead of the real implementation.
package anthropic

import (
	"context"

	"github.com/jonwraymond/modelops/provider"
)

// ProviderName is the registry name for this backend.
const ProviderName = "anthropic"

// Provider is a declared, unimplemented Anthropic backend.
type Provider struct{}

// New creates the placeholder provider.
func New() *Provider {
	return &Provider{}
}

// Name implements provider.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Generate implements provider.Provider.
func (p *Provider) Generate(ctx context.Context, req provider.Request) (*provider.Response, error) {
	return nil, provider.ErrNotImplemented
}

// GenerateStream implements provider.Provider.
func (p *Provider) GenerateStream(ctx context.Context, req provider.Request) (provider.Stream, error) {
	return nil, provider.ErrNotImplemented
}

// Available implements provider.Provider. Always false until the backend
// integration exists.
func (p *Provider) Available(ctx context.Context) bool {
	return false
}
