// Package secret provides a small, dependency-light secret resolution layer.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:OPENAI_API_KEY
//   - Inline use:  Bearer secretref:env:OPENAI_API_KEY
//
// Its main consumer is provider configuration: API keys never live in config
// files, only references to them.
package secret
