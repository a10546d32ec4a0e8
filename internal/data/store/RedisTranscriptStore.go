package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/redisStore"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

const transcriptKeyPrefix = "transcript:"

type RedisTranscriptStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisTranscriptStore(rs *redisStore.Store) *RedisTranscriptStore {
	return &RedisTranscriptStore{
		store:  rs,
		logger: logger_i.NewLogger("TranscriptStore"),
	}
}

func transcriptKey(sessionId string) string {
	return transcriptKeyPrefix + sessionId
}

func (s *RedisTranscriptStore) Append(ctx context.Context, sessionId string, turns ...ragModel.ChatTurn) error {
	if sessionId == "" {
		return ErrEmptySessionId
	}
	if len(turns) == 0 {
		return nil
	}
	log := s.logger.FromContext(ctx)

	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshalling turn: %w", err)
		}
		values = append(values, data)
	}

	if err := s.store.ListPush(ctx, transcriptKey(sessionId), config.RedisTranscriptTTL, values...); err != nil {
		log.Error("error saving chat", "error", err)
		return err
	}
	log.Debug("Saved chat turns", "count", len(turns))
	return nil
}

func (s *RedisTranscriptStore) History(ctx context.Context, sessionId string) ([]ragModel.ChatTurn, error) {
	raw, err := s.store.ListGetAll(ctx, transcriptKey(sessionId))
	if s.store.IsNil(err) {
		return []ragModel.ChatTurn{}, nil
	}
	if err != nil {
		s.logger.FromContext(ctx).Error("Error getting history", "error", err)
		return nil, err
	}

	turns := make([]ragModel.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var t ragModel.ChatTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			s.logger.FromContext(ctx).Warn("Skipping unreadable turn", "error", err)
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisTranscriptStore) Clear(ctx context.Context, sessionId string) error {
	return s.store.Del(ctx, transcriptKey(sessionId))
}
