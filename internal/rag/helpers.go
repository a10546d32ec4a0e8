package rag

import (
	"context"
	"time"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/rag/ingest"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

func modeLabel(ragMode bool) string {
	if ragMode {
		return "rag"
	}
	return "direct"
}

func failedAnswer(f *ragModel.Failure) ragModel.Answer {
	return ragModel.Answer{
		Message:     f.Message,
		ContextDocs: []ragModel.Chunk{},
		Failure:     f,
	}
}

func failedIngest(f *ragModel.Failure, fileErrors []ragModel.FileError) ragModel.IngestReport {
	return ragModel.IngestReport{
		Message:    f.Message,
		FileErrors: fileErrors,
		Failure:    f,
	}
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, sess *session.Session, query string) []ragModel.Chunk {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	scored := sess.Index.Retrieve(ctx, query)
	docs := make([]ragModel.Chunk, len(scored))
	for i, sc := range scored {
		docs[i] = sc.Chunk
	}
	log.Debug("Retrieved context", "chunks", len(docs))
	return docs
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, clients *backend.Clients, messages []ragModel.ChatTurn) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	log.Debug("Calling chat backend", "messages", len(messages))
	return clients.Chat.Generate(ctx, messages)
}

func (s *service) executeLoadStep(ctx context.Context, uploads []ingest.Upload, progress ingest.ProgressFunc) ([]ragModel.Page, []ragModel.FileInfo, []ragModel.FileError) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("pdf_extraction", time.Since(start)) }()

	return ingest.ProcessUploads(ctx, uploads, progress)
}

func (s *service) executeIndexStep(ctx context.Context, sess *session.Session, chunks []ragModel.Chunk, progress ingest.ProgressFunc) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return sess.Index.Add(ctx, chunks, func(message string) {
		if progress != nil {
			progress(message)
		}
	})
}
