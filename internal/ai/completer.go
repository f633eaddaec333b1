package ai

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model produces no text.
var ErrEmptyCompletion = errors.New("model returned empty completion")

// Message is one turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

// Completer produces a text completion for a system prompt and a sequence
// of user messages against a named model.
type Completer interface {
	Complete(ctx context.Context, modelID, system string, messages []Message) (string, error)
}
