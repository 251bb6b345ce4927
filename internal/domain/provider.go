package domain

import (
	"context"
	"time"
)

// ProviderRequest is one call to a text-generation provider.
type ProviderRequest struct {
	Prompt     Prompt
	Model      string
	Credential string
}

// NarrativeProvider is a single-attempt client for one LLM vendor. Generate
// returns the raw text payload from the vendor's response envelope. Failures
// are *AIError values: Timeout when the per-call deadline expires, Parsing
// when the envelope carries no usable content, Request otherwise.
type NarrativeProvider interface {
	Generate(ctx context.Context, req ProviderRequest) (string, error)
	Name() string
}

// RetryPolicy bounds the retry loop around provider calls. Attempt n waits
// BaseDelay*n before attempt n+1.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy is two attempts with a 300ms base delay.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, BaseDelay: 300 * time.Millisecond}

// DefaultProviderTimeout is the wall-clock limit of one provider call.
const DefaultProviderTimeout = 15 * time.Second
