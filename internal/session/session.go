// Package session holds the per-user state that lives between requests.
package session

import (
	"context"
	"sync"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/evaluation"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/rag/vectorDB"
)

// Session is one user's index, backends, evaluation log and processed files.
// Lock and Unlock serialize whole operations; field access is guarded
// separately so a status read never waits for an ingestion.
type Session struct {
	Id       string
	Index    vectorDB.Index
	Recorder *evaluation.Recorder

	op       sync.Mutex
	mu       sync.RWMutex
	backends *backend.Clients
	files    []ragModel.FileInfo
}

func newSession(id string, index vectorDB.Index, clients *backend.Clients) *Session {
	return &Session{
		Id:       id,
		Index:    index,
		Recorder: evaluation.NewRecorder(),
		backends: clients,
	}
}

func (s *Session) Lock()   { s.op.Lock() }
func (s *Session) Unlock() { s.op.Unlock() }

// Backends may be nil when nothing is configured yet.
func (s *Session) Backends() *backend.Clients {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backends
}

// SetBackends swaps the clients. Vectors from another embedding model are not
// comparable, so the documents are dropped with the old clients.
func (s *Session) SetBackends(ctx context.Context, clients *backend.Clients) {
	s.mu.Lock()
	s.backends = clients
	s.mu.Unlock()
	s.ClearDocuments(ctx)
}

func (s *Session) Files() []ragModel.FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ragModel.FileInfo{}, s.files...)
}

func (s *Session) AddFiles(files ...ragModel.FileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, files...)
}

// ClearDocuments empties the index and forgets the processed files.
func (s *Session) ClearDocuments(ctx context.Context) {
	s.Index.Clear(ctx)
	s.mu.Lock()
	s.files = nil
	s.mu.Unlock()
}

func (s *Session) Stats() ragModel.IndexStats {
	files := s.Files()
	return ragModel.IndexStats{
		HasIndex:       s.Index.Initialized(),
		ProcessedFiles: files,
		TotalFiles:     len(files),
		TotalChunks:    s.Index.Len(),
	}
}

// HasDocuments reports whether retrieval can contribute to an answer.
func (s *Session) HasDocuments() bool {
	s.mu.RLock()
	n := len(s.files)
	s.mu.RUnlock()
	return n > 0 && s.Index.Initialized()
}
