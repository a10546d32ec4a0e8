// Package mcpserver exposes session retrieval and answering as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/ragchat/internal/adapter/utils"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/rag"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var ErrUnknownSession = errors.New("unknown or expired session")

const (
	serverName    = "ragchat"
	serverVersion = "v1.0.0"
)

type SearchInput struct {
	SessionId string `json:"session_id" jsonschema:"the X-Session-Id of a session with uploaded documents"`
	Query     string `json:"query" jsonschema:"text to search for"`
	K         int    `json:"k,omitempty" jsonschema:"number of chunks to return, 1 to 20; the session setting when omitted"`
}

type SearchHit struct {
	Text       string  `json:"text"`
	SourceFile string  `json:"source_file"`
	Page       int     `json:"page"`
	Score      float64 `json:"score"`
}

type SearchOutput struct {
	Results []SearchHit `json:"results"`
}

type AskInput struct {
	SessionId string `json:"session_id" jsonschema:"the X-Session-Id of the session"`
	Question  string `json:"question" jsonschema:"the question to answer"`
	UseRAG    *bool  `json:"use_rag,omitempty" jsonschema:"answer from the uploaded documents, true when omitted"`
}

type AskOutput struct {
	Response string   `json:"response"`
	UsedRAG  bool     `json:"used_rag"`
	Sources  []string `json:"sources"`
}

type tools struct {
	registry    *session.Registry
	service     rag.Service
	transcripts store.TranscriptStore
	logger      *logger_i.Logger
}

// NewServer builds the MCP server with the search_documents and ask tools.
func NewServer(registry *session.Registry, service rag.Service, transcripts store.TranscriptStore) *mcp.Server {
	t := &tools{
		registry:    registry,
		service:     service,
		transcripts: transcripts,
		logger:      logger_i.NewLogger("MCP"),
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search the PDF documents uploaded to a chat session and return the most similar passages.",
	}, t.search)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the session's assistant a question. The exchange is added to the session's chat history.",
	}, t.ask)
	return server
}

// NewHandler serves server over streamable HTTP.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (t *tools) session(ctx context.Context, id string) (*session.Session, context.Context, error) {
	if !utils.IsUUID(id) {
		return nil, ctx, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	sess, ok := t.registry.Get(id)
	if !ok {
		return nil, ctx, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	ctx = context.WithValue(ctx, config.SESSION_ID_KEY, id)
	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, utils.GetNewUUID())
	return sess, ctx, nil
}

func (t *tools) search(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	sess, ctx, err := t.session(ctx, in.SessionId)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	if in.K != 0 && (in.K < config.MinTopK || in.K > config.MaxTopK) {
		return nil, SearchOutput{}, fmt.Errorf("k must be within [%d, %d]", config.MinTopK, config.MaxTopK)
	}

	var scored []ragModel.ScoredChunk
	if in.K == 0 {
		scored = sess.Index.Retrieve(ctx, in.Query)
	} else {
		scored = sess.Index.Search(ctx, in.Query, in.K, sess.Index.Params().ScoreThreshold)
	}
	t.logger.FromContext(ctx).Info("search_documents", "hits", len(scored))

	out := SearchOutput{Results: make([]SearchHit, len(scored))}
	for i, sc := range scored {
		out.Results[i] = SearchHit{
			Text:       sc.Chunk.Text,
			SourceFile: sc.Chunk.SourceFile,
			Page:       sc.Chunk.Page,
			Score:      sc.Score,
		}
	}
	return nil, out, nil
}

func (t *tools) ask(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	sess, ctx, err := t.session(ctx, in.SessionId)
	if err != nil {
		return nil, AskOutput{}, err
	}
	log := t.logger.FromContext(ctx)

	sess.Lock()
	defer sess.Unlock()

	history, err := t.transcripts.History(ctx, sess.Id)
	if err != nil {
		log.Warn("Continuing without chat history", "error", err)
	}
	useRAG := in.UseRAG == nil || *in.UseRAG
	answer := t.service.Answer(ctx, sess, history, in.Question, useRAG)

	// a failed generation still leaves the error text as the assistant turn
	reply, save := answer.Response, answer.Success
	if f := answer.Failure; f != nil && f.Kind == ragModel.GenerationError {
		reply, save = f.Message, true
	}
	if save {
		if err := t.transcripts.Append(ctx, sess.Id,
			ragModel.ChatTurn{Role: ragModel.RoleUser, Content: in.Question},
			ragModel.ChatTurn{Role: ragModel.RoleAssistant, Content: reply},
		); err != nil {
			log.Error("Could not save chat turns", "error", err)
		}
	}
	if !answer.Success {
		return nil, AskOutput{}, answer.Failure
	}

	sources := make([]string, len(answer.ContextDocs))
	for i, d := range answer.ContextDocs {
		sources[i] = d.SourceFile
	}
	return nil, AskOutput{
		Response: answer.Response,
		UsedRAG:  answer.UsedRAG,
		Sources:  utils.Dedupe(sources),
	}, nil
}
