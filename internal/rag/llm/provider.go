package llm

import (
	"context"
	"errors"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

var (
	ErrEmptyCompletion = errors.New("model returned no completion")
	ErrRateLimited     = errors.New("chat backend rate limit exceeded")
)

// Provider completes a role-tagged conversation. System turns carry the
// instructions; the remaining turns are passed in order.
type Provider interface {
	Generate(ctx context.Context, messages []ragModel.ChatTurn) (string, error)
}
