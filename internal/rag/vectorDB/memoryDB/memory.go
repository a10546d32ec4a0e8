// Package memoryDB keeps embedded chunks in process memory and ranks them by
// cosine similarity.
package memoryDB

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

type entry struct {
	chunk  ragModel.Chunk
	vector []float32
	norm   float64
}

type Store struct {
	entries []entry
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, chunks []ragModel.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	batch := make([]entry, len(chunks))
	for i, c := range chunks {
		batch[i] = entry{chunk: c, vector: vectors[i], norm: norm(vectors[i])}
	}
	s.entries = append(s.entries, batch...)
	return nil
}

func (s *Store) Query(_ context.Context, vector []float32, k int, scoreThreshold float64) ([]ragModel.ScoredChunk, error) {
	qNorm := norm(vector)
	if qNorm == 0 {
		return nil, fmt.Errorf("query vector has zero length")
	}

	hits := make([]ragModel.ScoredChunk, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.vector) != len(vector) {
			return nil, fmt.Errorf("dimension mismatch: index has %d, query has %d", len(e.vector), len(vector))
		}
		if e.norm == 0 {
			continue
		}
		score := dot(e.vector, vector) / (e.norm * qNorm)
		if score >= scoreThreshold {
			hits = append(hits, ragModel.ScoredChunk{Chunk: e.chunk, Score: score})
		}
	}

	// stable so equal scores keep insertion order
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *Store) Count() int {
	return len(s.entries)
}

func (s *Store) Drop(context.Context) error {
	s.entries = nil
	return nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
