// File: services/intelligence/interface.go
package ai

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("reasoning service returned no text")

// Tool is a capability an agent may invoke while answering. Input is a single
// free-text query.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
}

// Backend submits one prompt with role instructions and a toolset and returns
// the model's free-text answer.
type Backend interface {
	Generate(ctx context.Context, instructions, prompt string, tools []Tool) (string, error)
}
