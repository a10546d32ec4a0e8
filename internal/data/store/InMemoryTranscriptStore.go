package store

import (
	"context"
	"sync"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

type InMemoryTranscriptStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]ragModel.ChatTurn
}

func InitInMemoryTranscriptStore() *InMemoryTranscriptStore {
	return &InMemoryTranscriptStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]ragModel.ChatTurn),
	}
}

func (store *InMemoryTranscriptStore) Append(_ context.Context, sessionId string, turns ...ragModel.ChatTurn) error {
	if sessionId == "" {
		return ErrEmptySessionId
	}
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[sessionId] = append(store.chatMap[sessionId], turns...)
	return nil
}

func (store *InMemoryTranscriptStore) History(_ context.Context, sessionId string) ([]ragModel.ChatTurn, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	return append([]ragModel.ChatTurn{}, store.chatMap[sessionId]...), nil
}

func (store *InMemoryTranscriptStore) Clear(_ context.Context, sessionId string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	delete(store.chatMap, sessionId)
	return nil
}
