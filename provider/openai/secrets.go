package openai

import (
	"context"
	"fmt"

	"github.com/jonwraymond/modelops/secret"
)

// NewFromResolver builds a provider whose API key is resolved through the
// given secret resolver. The key may be a literal, a strict ${VAR} expansion,
// or a reference like "secretref:env:OPENAI_API_KEY".
func NewFromResolver(ctx context.Context, config Config, resolver *secret.Resolver) (*Provider, error) {
	key, err := resolver.ResolveValue(ctx, config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("openai: resolve API key: %w", err)
	}
	config.APIKey = key
	return New(config)
}
