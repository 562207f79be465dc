package llm

import (
	"context"
	"fmt"
)

// #region client
// Client is the language-model capability consumed by the pipeline. The
// pipeline never branches on which implementation is behind it.
type Client interface {
	// Complete sends a prompt with a system instruction and returns the
	// model's text. Failures surface as *ProviderError.
	Complete(ctx context.Context, prompt, system string) (string, error)

	// Model identifies the backing model for audit records.
	Model() string
}

// #endregion client

// #region provider-error
// ProviderError reports a failed gateway call (network, quota, auth). It is
// fatal to the request it occurred in; the core never retries.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// #endregion provider-error
