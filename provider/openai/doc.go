// Package openai implements the provider interface on the official OpenAI
// Go SDK.
//
// API errors are translated to fault kinds at this boundary so the
// resilience layer can classify them without knowing SDK types. The
// availability probe lists models and deduplicates concurrent probes with
// singleflight.
package openai
