// Package observe provides observability primitives for model calls.
//
// It is a pure instrumentation library: no dispatch, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into provider adapters
// and the resilience layer.
package observe
