package api

import (
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/evaluation"
)

type OutgoingError struct {
	Code    int    `json:"code" example:"424"`
	Kind    string `json:"kind,omitempty" example:"configuration_error"`
	Message string `json:"message" example:"The language model is not configured"`
}

type ErrorResponse struct {
	SessionId string         `json:"session_id" example:"2f1c0f9e-8a7b-4d7e-9d53-1f7a2b1c9e11"`
	Error     *OutgoingError `json:"error"`
}

type MessageResponse struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message" example:"Chat history cleared"`
}

type ContextDoc struct {
	Text       string `json:"text"`
	SourceFile string `json:"source_file" example:"manual.pdf"`
	Page       int    `json:"page" example:"3"`
}

type ChatResponse struct {
	SessionId   string         `json:"session_id"`
	Response    string         `json:"response"`
	UsedRAG     bool           `json:"used_rag"`
	ContextDocs []ContextDoc   `json:"context_docs"`
	Context     string         `json:"context"`
	Error       *OutgoingError `json:"error,omitempty"`
}

type HistoryResponse struct {
	SessionId string              `json:"session_id"`
	Messages  []ragModel.ChatTurn `json:"messages"`
}

type IngestResponse struct {
	SessionId  string               `json:"session_id"`
	Success    bool                 `json:"success"`
	Message    string               `json:"message" example:"Processed 2 files into 41 chunks"`
	FileCount  int                  `json:"file_count"`
	ChunkCount int                  `json:"chunk_count"`
	Files      []ragModel.FileInfo  `json:"file_info"`
	FileErrors []ragModel.FileError `json:"file_errors"`
	Progress   []string             `json:"progress"`
	Error      *OutgoingError       `json:"error,omitempty"`
}

type StatsResponse struct {
	SessionId         string              `json:"session_id"`
	HasIndex          bool                `json:"has_index"`
	ProcessedFiles    []ragModel.FileInfo `json:"processed_files"`
	TotalFiles        int                 `json:"total_files"`
	TotalChunks       int                 `json:"total_chunks"`
	EvaluationRecords int                 `json:"evaluation_records"`
	K                 int                 `json:"k"`
}

type SearchSettings struct {
	K              int     `json:"k" example:"8"`
	ScoreThreshold float64 `json:"score_threshold" example:"0.3"`
}

type BackendConfigResponse struct {
	SessionId  string   `json:"session_id"`
	Provider   string   `json:"provider" example:"azure"`
	Embedding  Endpoint `json:"embedding"`
	Chat       Endpoint `json:"chat"`
	Missing    []string `json:"missing"`
	Configured bool     `json:"configured"`
}

type Endpoint struct {
	Endpoint   string `json:"endpoint,omitempty" example:"https://example.openai.azure.com/"`
	APIKey     string `json:"api_key,omitempty" example:"****"`
	APIVersion string `json:"api_version,omitempty" example:"2024-02-01"`
	Deployment string `json:"deployment,omitempty" example:"text-embedding-3-small"`
}

type ProbeResponse struct {
	SessionId string `json:"session_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message" example:"Connection test succeeded"`
}

type ScoreResponse struct {
	SessionId string                      `json:"session_id"`
	Records   []ragModel.EvaluationRecord `json:"records"`
	Summary   evaluation.Summary          `json:"summary"`
	Progress  []string                    `json:"progress"`
}

type SummaryResponse struct {
	SessionId string             `json:"session_id"`
	Summary   evaluation.Summary `json:"summary"`
}

type RecordsResponse struct {
	SessionId string                      `json:"session_id"`
	Records   []ragModel.EvaluationRecord `json:"records"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required" example:"What does chapter 2 say about safety?"`
	UseRAG  *bool  `json:"use_rag,omitempty" example:"true"`
}

type SearchSettingsRequest struct {
	K              *int     `json:"k,omitempty" example:"5"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty" example:"0.3"`
}

type BackendConfigRequest struct {
	Provider  string   `json:"provider,omitempty" example:"azure"`
	Embedding Endpoint `json:"embedding"`
	Chat      Endpoint `json:"chat"`
}

type ScoreRequest struct {
	Metrics []string `json:"metrics,omitempty" example:"faithfulness,answer_relevancy"`
}
