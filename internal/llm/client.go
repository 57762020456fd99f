package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured indicates the service was started without an LLM API
// credential. Every analysis attempt fails with this error until one is
// provided.
var ErrNotConfigured = errors.New("llm client not configured")

// Client submits a prompt together with a system instruction and returns the
// model's free-form text response.
type Client interface {
	Complete(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Unconfigured is a Client placeholder used when no API key is present.
type Unconfigured struct{}

// Complete always reports the missing credential.
func (Unconfigured) Complete(ctx context.Context, systemInstruction, prompt string) (string, error) {
	return "", ErrNotConfigured
}
