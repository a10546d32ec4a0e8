package session

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/rag/vectorDB"
	"github.com/akolanti/ragchat/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/ragchat/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/patrickmn/go-cache"
)

const evictionTimeout = 30 * time.Second

// StoreFactory builds the vector store backing a new session's index.
type StoreFactory func(sessionId string) vectorDB.Store

func MemoryStores() StoreFactory {
	return func(string) vectorDB.Store { return memoryDB.New() }
}

// NewStoreFactory picks the vector store backend named in settings.
func NewStoreFactory(ctx context.Context, settings config.Settings) (StoreFactory, error) {
	if settings.IndexBackend != config.IndexBackendQdrant {
		return MemoryStores(), nil
	}
	holder, err := qdrantDB.GetQuadrantClient(ctx, settings.Qdrant)
	if err != nil {
		return nil, fmt.Errorf("index backend %s: %w", settings.IndexBackend, err)
	}
	return func(sessionId string) vectorDB.Store { return holder.NewStore(sessionId) }, nil
}

// Registry keeps sessions alive while they are used. An idle session expires
// after the configured TTL and its index and transcript are released.
type Registry struct {
	cache       *cache.Cache
	stores      StoreFactory
	transcripts store.TranscriptStore
	defaults    *backend.Clients
	params      ragModel.SearchParams
	batchLimit  int
	logger      *logger_i.Logger
}

// NewRegistry wires the eviction hook. defaults may be nil.
func NewRegistry(settings config.Settings, stores StoreFactory, transcripts store.TranscriptStore, defaults *backend.Clients) *Registry {
	r := &Registry{
		cache:       cache.New(settings.Session.TTL(), config.SessionPurgeInterval),
		stores:      stores,
		transcripts: transcripts,
		defaults:    defaults,
		params: ragModel.SearchParams{
			K:              settings.Retrieval.K,
			ScoreThreshold: settings.Retrieval.ScoreThreshold,
		},
		batchLimit: settings.Chunking.BatchLimit,
		logger:     logger_i.NewLogger("Session Registry"),
	}
	r.cache.OnEvicted(r.release)
	return r
}

// GetOrCreate returns the live session for id, creating it when unknown.
// Every access restarts the idle timer.
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	if v, found := r.cache.Get(id); found {
		sess := v.(*Session)
		r.cache.SetDefault(id, sess)
		return sess, false
	}

	// an expired entry not yet purged still holds its index and transcript
	r.cache.DeleteExpired()

	sess := newSession(id, vectorDB.NewIndex(r.stores(id), r.params, vectorDB.WithBatchLimit(r.batchLimit)), r.defaults)
	if err := r.cache.Add(id, sess, cache.DefaultExpiration); err != nil {
		// lost a race with a concurrent request for the same id
		if v, found := r.cache.Get(id); found {
			return v.(*Session), false
		}
		r.cache.SetDefault(id, sess)
	}
	metrics.IncrementActiveSessions()
	r.logger.Info("Session created", config.SESSION_ID_KEY, id)
	return sess, true
}

func (r *Registry) Get(id string) (*Session, bool) {
	v, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	return v.(*Session), true
}

// Delete ends a session immediately and releases its resources.
func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

func (r *Registry) Transcripts() store.TranscriptStore {
	return r.transcripts
}

func (r *Registry) release(id string, v interface{}) {
	sess, ok := v.(*Session)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), evictionTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, config.SESSION_ID_KEY, id)

	sess.ClearDocuments(ctx)
	sess.Recorder.Clear()
	if err := r.transcripts.Clear(ctx, id); err != nil {
		r.logger.FromContext(ctx).Warn("Could not clear transcript", "error", err)
	}
	metrics.DecrementActiveSessions()
	r.logger.FromContext(ctx).Info("Session released")
}
