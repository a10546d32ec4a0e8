package vectorDB

import (
	"context"
	"errors"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/rag/embedding"
)

var (
	ErrNoEmbedder     = errors.New("no embedding backend configured")
	ErrNotInitialized = errors.New("index is not initialized")
	ErrInvalidParams  = errors.New("invalid search parameters")
)

// ProgressObserver receives human-readable progress messages while adding.
type ProgressObserver func(message string)

// Index is the per-session searchable store of embedded chunks.
type Index interface {
	// Initialize binds the embedder and starts from an empty index.
	Initialize(ctx context.Context, embedder embedding.Embedder) error
	// Add embeds and appends chunks batch by batch. A batch is appended in
	// full or not at all.
	Add(ctx context.Context, chunks []ragModel.Chunk, observer ProgressObserver) error
	// Search never fails: an uninitialized index or a backend error yields
	// an empty result.
	Search(ctx context.Context, query string, k int, scoreThreshold float64) []ragModel.ScoredChunk
	// Retrieve searches with the current parameters.
	Retrieve(ctx context.Context, query string) []ragModel.ScoredChunk
	UpdateParams(k *int, scoreThreshold *float64) error
	Params() ragModel.SearchParams
	Initialized() bool
	Len() int
	// Clear drops all entries and the embedder binding. Safe to call twice.
	Clear(ctx context.Context)
}

// Store holds vectors for an Index. Implementations need no locking of their
// own; the Index serializes every call.
type Store interface {
	Append(ctx context.Context, chunks []ragModel.Chunk, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, k int, scoreThreshold float64) ([]ragModel.ScoredChunk, error)
	Count() int
	Drop(ctx context.Context) error
}
