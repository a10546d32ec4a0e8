package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/ragchat/internal/adapter/utils"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/evaluation"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/akolanti/ragchat/internal/rag/ingest"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/akolanti/ragchat/internal/textnorm"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

/*
OPAQUE INTERFACE PATTERN

Service is the public contract the handlers and the MCP tools call. The
private service struct holds the chunking settings and the evaluator
factory; everything stateful lives on the session passed in, so one
service serves every session.
*/

// Service answers questions, ingests uploads and scores answers for a session.
type Service interface {
	Answer(ctx context.Context, sess *session.Session, history []ragModel.ChatTurn, query string, useRAG bool) ragModel.Answer
	Ingest(ctx context.Context, sess *session.Session, uploads []ingest.Upload, progress ingest.ProgressFunc) ragModel.IngestReport
	Evaluate(ctx context.Context, sess *session.Session, requested []evaluation.Metric, progress evaluation.ProgressFunc) ([]ragModel.EvaluationRecord, *ragModel.Failure)
}

// EvaluatorFactory builds the evaluator for a session's backends.
type EvaluatorFactory func(clients *backend.Clients) evaluation.Evaluator

func LLMJudgeFactory(clients *backend.Clients) evaluation.Evaluator {
	return evaluation.NewLLMJudge(clients.Chat, clients.Embedder)
}

type service struct {
	chunkSize    int
	chunkOverlap int
	evaluator    EvaluatorFactory
	logger       *logger_i.Logger
}

func NewService(chunking config.ChunkingConfig, evaluator EvaluatorFactory) Service {
	return &service{
		chunkSize:    chunking.Size,
		chunkOverlap: chunking.Overlap,
		evaluator:    evaluator,
		logger:       logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Answer(ctx context.Context, sess *session.Session, history []ragModel.ChatTurn, query string, useRAG bool) ragModel.Answer {
	log := s.logger.FromContext(ctx)

	clients := sess.Backends()
	if clients == nil || clients.Chat == nil {
		log.Warn("Chat requested without a configured backend")
		return failedAnswer(ragModel.NewFailure(ragModel.ConfigurationError,
			"The language model is not configured. Set the chat endpoint first."))
	}

	ragMode := useRAG && sess.HasDocuments()
	mode := modeLabel(ragMode)

	var docs []ragModel.Chunk
	var contextText string
	systemPrompt := config.Persona
	if ragMode {
		docs = s.executeRetrievalStep(ctx, log, sess, query)
		contextText = joinContext(docs)
		systemPrompt = fmt.Sprintf(config.RAGPromptTemplate, config.Persona, config.ContextOnlyInstruction, query, contextText)
	}

	response, err := s.executeLLMStep(ctx, log, clients, buildMessages(systemPrompt, history, query))
	if err != nil {
		log.Error("Generation failed", "mode", mode, "error", err)
		metrics.CountAnswer(mode, "failure")
		return failedAnswer(ragModel.NewFailure(ragModel.GenerationError,
			"An error occurred while generating the response: %v", err))
	}

	contexts := make([]string, len(docs))
	sources := make([]string, len(docs))
	for i, d := range docs {
		contexts[i] = d.Text
		sources[i] = d.SourceFile
	}
	sess.Recorder.Record(query, response, contexts, utils.Dedupe(sources))
	metrics.CountAnswer(mode, "success")

	if docs == nil {
		docs = []ragModel.Chunk{}
	}
	return ragModel.Answer{
		Success:     true,
		Message:     "Response generated successfully",
		Response:    response,
		ContextDocs: docs,
		ContextText: contextText,
		UsedRAG:     ragMode,
	}
}

func (s *service) Ingest(ctx context.Context, sess *session.Session, uploads []ingest.Upload, progress ingest.ProgressFunc) ragModel.IngestReport {
	log := s.logger.FromContext(ctx)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	clients := sess.Backends()
	if clients == nil || clients.Embedder == nil {
		return failedIngest(ragModel.NewFailure(ragModel.ConfigurationError,
			"The embedding model is not configured. Set the embedding endpoint first."), nil)
	}
	if len(uploads) == 0 {
		return failedIngest(ragModel.NewFailure(ragModel.IngestionError, "No files were uploaded"), nil)
	}

	pages, files, fileErrors := s.executeLoadStep(ctx, uploads, progress)
	if len(pages) == 0 {
		log.Warn("No document could be processed", "uploads", len(uploads))
		return failedIngest(ragModel.NewFailure(ragModel.IngestionError, "No text could be extracted from the uploaded files"), fileErrors)
	}

	chunks := ingest.Split(pages, s.chunkSize, s.chunkOverlap)
	for i := range chunks {
		chunks[i].SessionId = sess.Id
	}
	log.Info("Documents split", "files", len(files), "pages", len(pages), "chunks", len(chunks))

	if !sess.Index.Initialized() {
		if err := sess.Index.Initialize(ctx, clients.Embedder); err != nil {
			return failedIngest(ragModel.NewFailure(ragModel.ConfigurationError, "Could not initialize the index: %v", err), fileErrors)
		}
	}

	if err := s.executeIndexStep(ctx, sess, chunks, progress); err != nil {
		log.Error("Indexing failed", "error", err)
		kind := ragModel.IngestionError
		if errors.Is(err, embedding.ErrRateLimited) {
			kind = ragModel.RateLimitError
		}
		return failedIngest(ragModel.NewFailure(kind, "An error occurred while indexing the documents: %v", err), fileErrors)
	}
	sess.AddFiles(files...)

	return ragModel.IngestReport{
		Success:    true,
		Message:    fmt.Sprintf("Processed %d files into %d chunks", len(files), len(chunks)),
		FileCount:  len(files),
		ChunkCount: len(chunks),
		Files:      files,
		FileErrors: fileErrors,
	}
}

func (s *service) Evaluate(ctx context.Context, sess *session.Session, requested []evaluation.Metric, progress evaluation.ProgressFunc) ([]ragModel.EvaluationRecord, *ragModel.Failure) {
	clients := sess.Backends()
	if clients == nil || clients.Chat == nil || clients.Embedder == nil {
		return nil, ragModel.NewFailure(ragModel.ConfigurationError, "Both the chat and the embedding model must be configured to evaluate")
	}
	if sess.Recorder.Len() == 0 {
		return nil, ragModel.NewFailure(ragModel.EvaluationError, "There are no answers to evaluate yet")
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("evaluation", time.Since(start)) }()

	s.logger.FromContext(ctx).Info("Scoring records", "records", sess.Recorder.Len(), "metrics", requested)
	return sess.Recorder.Score(ctx, s.evaluator(clients), requested, progress), nil
}

func joinContext(docs []ragModel.Chunk) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = textnorm.Normalize(d.Text)
	}
	return strings.Join(parts, "\n\n")
}

// buildMessages puts the system prompt first, then the prior non-system
// turns and finally the new question.
func buildMessages(systemPrompt string, history []ragModel.ChatTurn, query string) []ragModel.ChatTurn {
	messages := make([]ragModel.ChatTurn, 0, len(history)+2)
	messages = append(messages, ragModel.ChatTurn{Role: ragModel.RoleSystem, Content: systemPrompt})
	for _, turn := range history {
		if turn.Role == ragModel.RoleSystem {
			continue
		}
		messages = append(messages, turn)
	}
	return append(messages, ragModel.ChatTurn{Role: ragModel.RoleUser, Content: query})
}
