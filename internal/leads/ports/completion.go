// Package ports defines the interfaces the leads module needs from the
// outside world, keeping the insight pipeline testable without live
// collaborators.
package ports

import (
	"context"

	"leadflow_backend/platform/ai/openrouter"
)

// CompletionClient sends a prompt to the text-completion service and
// returns the generated text. Implemented by platform/ai/openrouter.
type CompletionClient interface {
	Complete(ctx context.Context, req openrouter.Request) (string, error)
}
