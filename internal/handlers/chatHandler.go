package handlers

import (
	"net/http"
	"strings"

	"github.com/akolanti/ragchat/internal/adapter"
	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

// ChatHandler godoc
// @Summary      Ask a question
// @Description  Answers in the assistant persona. With use_rag (default true) and indexed documents the answer is grounded in the retrieved context.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string           false  "Session id, created when absent"
// @Param        request       body      api.ChatRequest  true   "Question and retrieval toggle"
// @Success      200           {object}  api.ChatResponse
// @Failure      400           {object}  api.ErrorResponse  "Empty message"
// @Failure      424           {object}  api.ChatResponse   "Chat backend not configured"
// @Failure      502           {object}  api.ChatResponse   "Generation failed"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	log := logRH.FromContext(r.Context())

	var req api.ChatRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Message) == "" {
		log.Warn("Bad Chat Request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "message is required")
		return
	}
	useRAG := req.UseRAG == nil || *req.UseRAG

	sess.Lock()
	defer sess.Unlock()

	history, err := transcripts.History(r.Context(), sess.Id)
	if err != nil {
		log.Warn("Continuing without chat history", "error", err)
		history = nil
	}

	answer := ragService.Answer(r.Context(), sess, history, req.Message, useRAG)

	// a failed generation still leaves the error text as the assistant turn
	reply, save := answer.Response, answer.Success
	if f := answer.Failure; f != nil && f.Kind == ragModel.GenerationError {
		reply, save = f.Message, true
	}
	if save {
		if err := transcripts.Append(r.Context(), sess.Id,
			ragModel.ChatTurn{Role: ragModel.RoleUser, Content: req.Message},
			ragModel.ChatTurn{Role: ragModel.RoleAssistant, Content: reply},
		); err != nil {
			log.Error("Could not save chat turns", "error", err)
		}
	}

	writeJsonResponse(w, adapter.StatusForFailure(answer.Failure), adapter.ToChatResponse(sess.Id, answer))
}

// GetHistoryHandler godoc
// @Summary      Chat history
// @Tags         Chat
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.HistoryResponse
// @Router       /history [get]
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	history, err := transcripts.History(r.Context(), sess.Id)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, sess.Id, "Could not read chat history")
		return
	}
	if history == nil {
		history = []ragModel.ChatTurn{}
	}
	writeJsonResponse(w, http.StatusOK, api.HistoryResponse{SessionId: sess.Id, Messages: history})
}

// ClearHistoryHandler godoc
// @Summary      Clear chat history
// @Tags         Chat
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.MessageResponse
// @Router       /history [delete]
func ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := transcripts.Clear(r.Context(), sess.Id); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, sess.Id, "Could not clear chat history")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{SessionId: sess.Id, Message: "Chat history cleared"})
}
