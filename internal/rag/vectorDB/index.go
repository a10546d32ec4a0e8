package vectorDB

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*index)

func WithSleeper(s Sleeper) Option {
	return func(i *index) { i.sleep = s }
}

func WithBatchLimit(limit int) Option {
	return func(i *index) { i.batchLimit = limit }
}

func WithBackoff(d time.Duration) Option {
	return func(i *index) { i.backoff = d }
}

type index struct {
	mu         sync.Mutex
	store      Store
	embedder   embedding.Embedder
	params     ragModel.SearchParams
	batchLimit int
	backoff    time.Duration
	sleep      Sleeper
	logger     *logger_i.Logger
}

// NewIndex wraps store with embedding, batching and parameter handling.
func NewIndex(store Store, params ragModel.SearchParams, opts ...Option) Index {
	i := &index{
		store:      store,
		params:     params,
		batchLimit: config.EmbeddingBatchLimit,
		backoff:    config.RateLimitBackoff,
		sleep:      contextSleep,
		logger:     logger_i.NewLogger("Vector Index"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *index) Initialize(ctx context.Context, embedder embedding.Embedder) error {
	if embedder == nil {
		return ErrNoEmbedder
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.store.Count() > 0 {
		if err := i.store.Drop(ctx); err != nil {
			return fmt.Errorf("resetting index: %w", err)
		}
	}
	i.embedder = embedder
	return nil
}

func (i *index) Add(ctx context.Context, chunks []ragModel.Chunk, observer ProgressObserver) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.embedder == nil {
		return ErrNotInitialized
	}
	log := i.logger.FromContext(ctx)

	batches := PartitionBatches(chunks, i.batchLimit)
	added := 0
	for n, batch := range batches {
		added += len(batch)
		notify(observer, fmt.Sprintf("Adding %d documents of %d to retriever", added, len(chunks)))
		log.Debug("Embedding batch", "batch", n+1, "of", len(batches), "chunks", len(batch))

		if err := i.addBatch(ctx, batch, observer); err != nil {
			return fmt.Errorf("batch %d of %d: %w", n+1, len(batches), err)
		}
		metrics.AddIndexedChunks(len(batch))
	}
	return nil
}

// addBatch embeds one batch and appends it. A rate limited embedding call is
// retried exactly once after the backoff.
func (i *index) addBatch(ctx context.Context, batch []ragModel.Chunk, observer ProgressObserver) error {
	texts := make([]string, len(batch))
	for n, c := range batch {
		texts[n] = c.Text
	}

	vectors, err := i.embed(ctx, texts)
	if errors.Is(err, embedding.ErrRateLimited) {
		i.logger.FromContext(ctx).Warn("Rate limit exceeded, backing off", "wait", i.backoff)
		notify(observer, fmt.Sprintf("Rate limit exceeded, waiting %d seconds...", int(i.backoff.Seconds())))
		metrics.IncrementRateLimitRetries()

		if err := i.sleep(ctx, i.backoff); err != nil {
			return err
		}
		vectors, err = i.embed(ctx, texts)
	}
	if err != nil {
		return err
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(batch), len(vectors))
	}
	return i.store.Append(ctx, batch, vectors)
}

func (i *index) embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding_batch", time.Since(start)) }()
	return i.embedder.BatchEmbedding(ctx, texts)
}

func (i *index) Search(ctx context.Context, query string, k int, scoreThreshold float64) []ragModel.ScoredChunk {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.embedder == nil || k < 1 {
		return []ragModel.ScoredChunk{}
	}
	log := i.logger.FromContext(ctx)

	start := time.Now()
	vector, err := i.embedder.GetEmbedding(ctx, query)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		log.Error("Search error", "step", "embedding", "error", err)
		return []ragModel.ScoredChunk{}
	}

	start = time.Now()
	hits, err := i.store.Query(ctx, vector, k, scoreThreshold)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		log.Error("Search error", "step", "query", "error", err)
		return []ragModel.ScoredChunk{}
	}

	// enforce k and threshold whatever the store returned
	out := make([]ragModel.ScoredChunk, 0, min(k, len(hits)))
	for _, h := range hits {
		if h.Score < scoreThreshold {
			continue
		}
		out = append(out, h)
		if len(out) == k {
			break
		}
	}
	return out
}

func (i *index) Retrieve(ctx context.Context, query string) []ragModel.ScoredChunk {
	p := i.Params()
	return i.Search(ctx, query, p.K, p.ScoreThreshold)
}

func (i *index) UpdateParams(k *int, scoreThreshold *float64) error {
	if k != nil && (*k < config.MinTopK || *k > config.MaxTopK) {
		return fmt.Errorf("%w: k must be within [%d, %d], got %d", ErrInvalidParams, config.MinTopK, config.MaxTopK, *k)
	}
	if scoreThreshold != nil && (*scoreThreshold < -1 || *scoreThreshold > 1) {
		return fmt.Errorf("%w: score threshold must be within [-1, 1], got %g", ErrInvalidParams, *scoreThreshold)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if k != nil {
		i.params.K = *k
	}
	if scoreThreshold != nil {
		i.params.ScoreThreshold = *scoreThreshold
	}
	return nil
}

func (i *index) Params() ragModel.SearchParams {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.params
}

func (i *index) Initialized() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.embedder != nil
}

func (i *index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.store.Count()
}

func (i *index) Clear(ctx context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.store.Drop(ctx); err != nil {
		i.logger.FromContext(ctx).Error("Error dropping index entries", "error", err)
	}
	i.embedder = nil
}

func notify(observer ProgressObserver, message string) {
	if observer != nil {
		observer(message)
	}
}
