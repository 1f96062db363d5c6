package providers

import (
	"context"
	"errors"
)

// ErrTextGeneratorUnauthorized reports that the text-generation backend
// rejected our credential. Callers treat it as a deployment defect, not a
// transient call failure.
var ErrTextGeneratorUnauthorized = errors.New("text generation request unauthorized")

// TextGenerator is the capability interface over an external
// text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
