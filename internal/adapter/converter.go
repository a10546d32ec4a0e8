package adapter

import (
	"net/http"

	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

// StatusForFailure maps a failure kind to the HTTP status reported for it.
func StatusForFailure(f *ragModel.Failure) int {
	if f == nil {
		return http.StatusOK
	}
	switch f.Kind {
	case ragModel.ConfigurationError:
		return http.StatusFailedDependency
	case ragModel.IngestionError:
		return http.StatusBadRequest
	case ragModel.RateLimitError:
		return http.StatusTooManyRequests
	case ragModel.EvaluationError:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func ToOutgoingError(f *ragModel.Failure) *api.OutgoingError {
	if f == nil {
		return nil
	}
	return &api.OutgoingError{
		Code:    StatusForFailure(f),
		Kind:    string(f.Kind),
		Message: f.Message,
	}
}

func BadRequest(sessionId string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		SessionId: sessionId,
		Error: &api.OutgoingError{
			Code:    code,
			Message: message,
		},
	}
}

func FailureResponse(sessionId string, f *ragModel.Failure) api.ErrorResponse {
	return api.ErrorResponse{SessionId: sessionId, Error: ToOutgoingError(f)}
}

func ToChatResponse(sessionId string, answer ragModel.Answer) api.ChatResponse {
	docs := make([]api.ContextDoc, len(answer.ContextDocs))
	for i, c := range answer.ContextDocs {
		docs[i] = api.ContextDoc{Text: c.Text, SourceFile: c.SourceFile, Page: c.Page}
	}
	return api.ChatResponse{
		SessionId:   sessionId,
		Response:    answer.Response,
		UsedRAG:     answer.UsedRAG,
		ContextDocs: docs,
		Context:     answer.ContextText,
		Error:       ToOutgoingError(answer.Failure),
	}
}

func ToIngestResponse(sessionId string, report ragModel.IngestReport, progress []string) api.IngestResponse {
	return api.IngestResponse{
		SessionId:  sessionId,
		Success:    report.Success,
		Message:    report.Message,
		FileCount:  report.FileCount,
		ChunkCount: report.ChunkCount,
		Files:      nonNil(report.Files),
		FileErrors: nonNil(report.FileErrors),
		Progress:   nonNil(progress),
		Error:      ToOutgoingError(report.Failure),
	}
}

func ToStatsResponse(sessionId string, stats ragModel.IndexStats, records int, params ragModel.SearchParams) api.StatsResponse {
	return api.StatsResponse{
		SessionId:         sessionId,
		HasIndex:          stats.HasIndex,
		ProcessedFiles:    nonNil(stats.ProcessedFiles),
		TotalFiles:        stats.TotalFiles,
		TotalChunks:       stats.TotalChunks,
		EvaluationRecords: records,
		K:                 params.K,
	}
}

func ToSearchSettings(params ragModel.SearchParams) api.SearchSettings {
	return api.SearchSettings{K: params.K, ScoreThreshold: params.ScoreThreshold}
}

// ToBackendConfigResponse echoes a configuration with the keys masked.
func ToBackendConfigResponse(sessionId string, cfg config.Backends) api.BackendConfigResponse {
	redacted := cfg.Redacted()
	missing := cfg.Missing()
	return api.BackendConfigResponse{
		SessionId:  sessionId,
		Provider:   cfg.Provider,
		Embedding:  toEndpoint(redacted.Embedding),
		Chat:       toEndpoint(redacted.Chat),
		Missing:    nonNil(missing),
		Configured: cfg.Validate() == nil,
	}
}

// MergeBackendConfig lays the non-empty request fields over base.
func MergeBackendConfig(base config.Backends, req api.BackendConfigRequest) config.Backends {
	if req.Provider != "" {
		base.Provider = req.Provider
	}
	base.Embedding = mergeEndpoint(base.Embedding, req.Embedding)
	base.Chat = mergeEndpoint(base.Chat, req.Chat)
	return base
}

func mergeEndpoint(base config.Endpoint, in api.Endpoint) config.Endpoint {
	if in.Endpoint != "" {
		base.Endpoint = in.Endpoint
	}
	if in.APIKey != "" {
		base.APIKey = in.APIKey
	}
	if in.APIVersion != "" {
		base.APIVersion = in.APIVersion
	}
	if in.Deployment != "" {
		base.Deployment = in.Deployment
	}
	return base
}

func toEndpoint(e config.Endpoint) api.Endpoint {
	return api.Endpoint{
		Endpoint:   e.Endpoint,
		APIKey:     e.APIKey,
		APIVersion: e.APIVersion,
		Deployment: e.Deployment,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
