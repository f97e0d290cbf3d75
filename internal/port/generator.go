package port

import "context"

// Generator represents a text-generation backend for code rewriting.
type Generator interface {
	// Generate generates text based on the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
