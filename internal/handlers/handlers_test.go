package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/evaluation"
	"github.com/akolanti/ragchat/internal/rag"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/rag/ingest/ingesttest"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) GetEmbedding(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) BatchEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubLLM struct {
	err error
}

func (s *stubLLM) Generate(context.Context, []ragModel.ChatTurn) (string, error) {
	return "やっほー✨", s.err
}

type stubEvaluator struct{}

func (stubEvaluator) Evaluate(context.Context, evaluation.Sample, []evaluation.Metric) (evaluation.Scores, error) {
	return evaluation.Scores{evaluation.Faithfulness: 1, evaluation.AnswerRelevancy: 0.5}, nil
}

type env struct {
	sess        *session.Session
	transcripts store.TranscriptStore
	llm         *stubLLM
}

func setup(t *testing.T, configured bool) *env {
	t.Helper()
	e := &env{transcripts: store.InitInMemoryTranscriptStore(), llm: &stubLLM{}}
	reg := session.NewRegistry(config.DefaultSettings(), session.MemoryStores(), e.transcripts, nil)
	e.sess, _ = reg.GetOrCreate("5b0c3f4e-1111-4222-8333-444455556666")
	if configured {
		e.sess.SetBackends(context.Background(), &backend.Clients{
			Config:   config.Backends{Provider: config.ProviderAzure},
			Embedder: stubEmbedder{},
			Chat:     e.llm,
		})
	}

	InitHandlers(Dependencies{
		Registry:    reg,
		Service:     rag.NewService(config.DefaultSettings().Chunking, func(*backend.Clients) evaluation.Evaluator { return stubEvaluator{} }),
		Transcripts: e.transcripts,
		EnvBackends: config.Backends{Provider: config.ProviderAzure},
		Connect: func(ctx context.Context, cfg config.Backends) (*backend.Clients, error) {
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return &backend.Clients{Config: cfg, Embedder: stubEmbedder{}, Chat: e.llm}, nil
		},
	})
	return e
}

func (e *env) do(t *testing.T, h http.HandlerFunc, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, "test-trace")
	req = req.WithContext(session.NewContext(ctx, e.sess))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func (e *env) doJSON(t *testing.T, h http.HandlerFunc, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	return e.do(t, h, method, target, body, "application/json")
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func multipartBody(t *testing.T, files map[string][]byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile(uploadField, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func (e *env) upload(t *testing.T, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files)
	return e.do(t, UploadDocumentsHandler, http.MethodPost, "/documents", body, contentType)
}

func TestChatHandler(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		llmErr     error
		payload    any
		wantStatus int
		wantTurns  int
	}{
		{"Success", true, nil, api.ChatRequest{Message: "hi"}, http.StatusOK, 2},
		{"Empty_Message", true, nil, api.ChatRequest{Message: "  "}, http.StatusBadRequest, 0},
		{"Not_Configured", false, nil, api.ChatRequest{Message: "hi"}, http.StatusFailedDependency, 0},
		{"Generation_Failure_Keeps_Placeholder", true, errors.New("boom"), api.ChatRequest{Message: "hi"}, http.StatusBadGateway, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t, tt.configured)
			e.llm.err = tt.llmErr

			rr := e.doJSON(t, ChatHandler, http.MethodPost, "/chat", tt.payload)
			assert.Equal(t, tt.wantStatus, rr.Code)

			history, err := e.transcripts.History(context.Background(), e.sess.Id)
			require.NoError(t, err)
			assert.Len(t, history, tt.wantTurns)

			if tt.wantStatus == http.StatusOK {
				resp := decode[api.ChatResponse](t, rr)
				assert.Equal(t, "やっほー✨", resp.Response)
				assert.False(t, resp.UsedRAG)
				assert.Equal(t, []api.ContextDoc{}, resp.ContextDocs)
				assert.Equal(t, ragModel.RoleAssistant, history[1].Role)
			}
			if tt.llmErr != nil {
				resp := decode[api.ChatResponse](t, rr)
				require.NotNil(t, resp.Error)
				assert.Equal(t, string(ragModel.GenerationError), resp.Error.Kind)
				assert.Equal(t, resp.Error.Message, history[1].Content)
			}
		})
	}
}

func TestUploadThenChatWithRAG(t *testing.T) {
	e := setup(t, true)

	rr := e.upload(t, map[string][]byte{"guide.pdf": ingesttest.BuildPDF("Tokyo is the capital of Japan")})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ingestResp := decode[api.IngestResponse](t, rr)
	assert.True(t, ingestResp.Success)
	assert.Equal(t, 1, ingestResp.FileCount)
	assert.NotEmpty(t, ingestResp.Progress)

	rr = e.doJSON(t, ChatHandler, http.MethodPost, "/chat", api.ChatRequest{Message: "capital of Japan?"})
	require.Equal(t, http.StatusOK, rr.Code)
	chat := decode[api.ChatResponse](t, rr)
	assert.True(t, chat.UsedRAG)
	require.NotEmpty(t, chat.ContextDocs)
	assert.Equal(t, "guide.pdf", chat.ContextDocs[0].SourceFile)
	assert.Equal(t, 1, chat.ContextDocs[0].Page)

	useRAG := false
	rr = e.doJSON(t, ChatHandler, http.MethodPost, "/chat", api.ChatRequest{Message: "no docs please", UseRAG: &useRAG})
	assert.False(t, decode[api.ChatResponse](t, rr).UsedRAG)

	stats := decode[api.StatsResponse](t, e.do(t, StatsHandler, http.MethodGet, "/stats", nil, ""))
	assert.True(t, stats.HasIndex)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 2, stats.EvaluationRecords)
	assert.Equal(t, config.DefaultTopK, stats.K)

	rr = e.do(t, ClearDocumentsHandler, http.MethodDelete, "/documents", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	stats = decode[api.StatsResponse](t, e.do(t, StatsHandler, http.MethodGet, "/stats", nil, ""))
	assert.False(t, stats.HasIndex)
	assert.Zero(t, stats.TotalFiles)
}

func TestUploadDocumentsHandler_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		e := setup(t, true)
		body, contentType := multipartBody(t, nil)
		rr := e.do(t, UploadDocumentsHandler, http.MethodPost, "/documents", body, contentType)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("only unsupported files", func(t *testing.T) {
		e := setup(t, true)
		rr := e.upload(t, map[string][]byte{"notes.docx": []byte("PK")})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decode[api.IngestResponse](t, rr)
		assert.Len(t, resp.FileErrors, 1)
		assert.Equal(t, string(ragModel.IngestionError), resp.Error.Kind)
	})

	t.Run("not configured", func(t *testing.T) {
		e := setup(t, false)
		rr := e.upload(t, map[string][]byte{"a.pdf": ingesttest.BuildPDF("x")})
		assert.Equal(t, http.StatusFailedDependency, rr.Code)
	})
}

func TestSearchSettingsHandlers(t *testing.T) {
	e := setup(t, true)

	got := decode[api.SearchSettings](t, e.do(t, GetSearchSettingsHandler, http.MethodGet, "/search-settings", nil, ""))
	assert.Equal(t, config.DefaultTopK, got.K)

	k := 3
	rr := e.doJSON(t, PutSearchSettingsHandler, http.MethodPut, "/search-settings", api.SearchSettingsRequest{K: &k})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decode[api.SearchSettings](t, rr).K)

	bad := 21
	rr = e.doJSON(t, PutSearchSettingsHandler, http.MethodPut, "/search-settings", api.SearchSettingsRequest{K: &bad})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 3, e.sess.Index.Params().K)
}

func TestConfigHandlers(t *testing.T) {
	e := setup(t, false)

	resp := decode[api.BackendConfigResponse](t, e.do(t, GetConfigHandler, http.MethodGet, "/config", nil, ""))
	assert.False(t, resp.Configured)
	assert.Len(t, resp.Missing, 8)

	rr := e.doJSON(t, PutConfigHandler, http.MethodPut, "/config", api.BackendConfigRequest{
		Embedding: api.Endpoint{Endpoint: "https://x.openai.azure.com/", APIKey: "k"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, e.sess.Backends())

	full := api.Endpoint{Endpoint: "https://x.openai.azure.com/", APIKey: "secret", APIVersion: "2024-02-01", Deployment: "d"}
	rr = e.doJSON(t, PutConfigHandler, http.MethodPut, "/config", api.BackendConfigRequest{Embedding: full, Chat: full})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decode[api.BackendConfigResponse](t, rr)
	assert.True(t, resp.Configured)
	assert.Equal(t, "****", resp.Embedding.APIKey)
	assert.NotContains(t, rr.Body.String(), "secret")
	require.NotNil(t, e.sess.Backends())

	rr = e.do(t, TestConfigHandler, http.MethodPost, "/config/test", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	e.llm.err = errors.New("unauthorized")
	rr = e.do(t, TestConfigHandler, http.MethodPost, "/config/test", nil, "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.False(t, decode[api.ProbeResponse](t, rr).Success)
}

func TestEvaluationHandlers(t *testing.T) {
	e := setup(t, true)

	rr := e.doJSON(t, ScoreHandler, http.MethodPost, "/evaluation/score", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = e.do(t, ExportHandler, http.MethodGet, "/evaluation/export", nil, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	summary := decode[api.SummaryResponse](t, e.do(t, SummaryHandler, http.MethodGet, "/evaluation/summary", nil, ""))
	assert.True(t, summary.Summary.Empty())

	require.Equal(t, http.StatusOK, e.doJSON(t, ChatHandler, http.MethodPost, "/chat", api.ChatRequest{Message: "q1"}).Code)

	summary = decode[api.SummaryResponse](t, e.do(t, SummaryHandler, http.MethodGet, "/evaluation/summary", nil, ""))
	require.NotNil(t, summary.Summary.TotalChats)
	assert.Equal(t, 1, *summary.Summary.TotalChats)
	assert.Equal(t, 0, *summary.Summary.EvaluatedChats)

	rr = e.doJSON(t, ScoreHandler, http.MethodPost, "/evaluation/score", api.ScoreRequest{Metrics: []string{"faithfulness", "bogus"}})
	require.Equal(t, http.StatusOK, rr.Code)
	score := decode[api.ScoreResponse](t, rr)
	require.Len(t, score.Records, 1)
	assert.Equal(t, 1.0, *score.Records[0].Faithfulness)
	assert.Nil(t, score.Records[0].AnswerRelevancy)
	assert.Equal(t, []string{"Evaluating 1/1: q1..."}, score.Progress)
	assert.Equal(t, 1.0, *score.Summary.AvgOverallScore)

	rr = e.do(t, ExportHandler, http.MethodGet, "/evaluation/export", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "evaluation_results_")
	rows, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, evaluation.ExportColumns, rows[0])

	records := decode[api.RecordsResponse](t, e.do(t, RecordsHandler, http.MethodGet, "/evaluation/records", nil, ""))
	assert.Len(t, records.Records, 1)

	assert.Equal(t, http.StatusOK, e.do(t, ClearEvaluationHandler, http.MethodDelete, "/evaluation", nil, "").Code)
	assert.Zero(t, e.sess.Recorder.Len())
}

func TestHistoryHandlers(t *testing.T) {
	e := setup(t, true)
	require.Equal(t, http.StatusOK, e.doJSON(t, ChatHandler, http.MethodPost, "/chat", api.ChatRequest{Message: "hello"}).Code)

	hist := decode[api.HistoryResponse](t, e.do(t, GetHistoryHandler, http.MethodGet, "/history", nil, ""))
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, ragModel.ChatTurn{Role: ragModel.RoleUser, Content: "hello"}, hist.Messages[0])

	assert.Equal(t, http.StatusOK, e.do(t, ClearHistoryHandler, http.MethodDelete, "/history", nil, "").Code)
	hist = decode[api.HistoryResponse](t, e.do(t, GetHistoryHandler, http.MethodGet, "/history", nil, ""))
	assert.Empty(t, hist.Messages)
}

func TestClearSessionHandler(t *testing.T) {
	e := setup(t, true)
	require.Equal(t, http.StatusOK, e.doJSON(t, ChatHandler, http.MethodPost, "/chat", api.ChatRequest{Message: "hello"}).Code)

	rr := e.do(t, ClearSessionHandler, http.MethodDelete, "/session", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	_, found := registry.Get(e.sess.Id)
	assert.False(t, found)
	assert.Zero(t, e.sess.Recorder.Len())
	history, _ := e.transcripts.History(context.Background(), e.sess.Id)
	assert.Empty(t, history)
}

func TestHandlerWithoutSession(t *testing.T) {
	setup(t, true)
	rr := httptest.NewRecorder()
	StatsHandler(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
