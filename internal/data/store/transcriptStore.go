package store

import (
	"context"
	"errors"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/redisStore"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

var ErrEmptySessionId = errors.New("empty session id")

// TranscriptStore keeps the ordered chat turns of each session.
type TranscriptStore interface {
	Append(ctx context.Context, sessionId string, turns ...ragModel.ChatTurn) error
	History(ctx context.Context, sessionId string) ([]ragModel.ChatTurn, error)
	Clear(ctx context.Context, sessionId string) error
}

var storeLogger = logger_i.NewLogger("TranscriptStore")

// GetTranscriptStore prefers Redis and falls back to process memory when it
// is disabled or offline.
func GetTranscriptStore(ctx context.Context, cfg config.RedisConfig) TranscriptStore {
	if !cfg.Disabled {
		if rs := redisStore.GetRedisStore(ctx, cfg, config.RedisTranscriptStore); rs != nil {
			return NewRedisTranscriptStore(rs)
		}
		storeLogger.Warn("Redis stores are offline, keeping transcripts in memory")
	}
	return InitInMemoryTranscriptStore()
}
