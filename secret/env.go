package secret

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider resolves secrets from the process environment. It backs
// references of the form secretref:env:OPENAI_API_KEY.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed secret provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Name returns the provider name used in secret references.
func (p *EnvProvider) Name() string {
	return "env"
}

// Resolve looks up ref as an environment variable. Unset variables error;
// empty values are returned as-is and left to the resolver's strict mode.
func (p *EnvProvider) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", ref)
	}
	return value, nil
}

// Close is a no-op for the environment provider.
func (p *EnvProvider) Close() error {
	return nil
}

func init() {
	_ = DefaultRegistry.Register("env", func(cfg map[string]any) (Provider, error) {
		return NewEnvProvider(), nil
	})
}
