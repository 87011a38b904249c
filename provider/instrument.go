package provider

import (
	"context"
	"time"
)

// CallRecorder receives the outcome of every backend call. The observe
// package supplies the production implementation; providers depend only on
// this interface.
type CallRecorder interface {
	RecordCall(ctx context.Context, provider, model string, elapsed time.Duration, err error)
}

// NopRecorder discards all call records.
type NopRecorder struct{}

// RecordCall implements CallRecorder.
func (NopRecorder) RecordCall(context.Context, string, string, time.Duration, error) {}
