package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akolanti/ragchat/internal/adapter"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/session"
)

const maxJsonBody = 1 << 20

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// the status line is already out
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, sessionId string, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(sessionId, message, httpCode))
}

func writeFailure(w http.ResponseWriter, sessionId string, f *ragModel.Failure) {
	writeJsonResponse(w, adapter.StatusForFailure(f), adapter.FailureResponse(sessionId, f))
}

func validateContext(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		logRH.FromContext(ctx).Warn("context error", "error", err)
		return false
	}
	return true
}

// currentSession returns the session the middleware attached, writing an
// error response when there is none.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	if !validateContext(r.Context()) {
		return nil, false
	}
	sess, ok := session.FromContext(r.Context())
	if !ok {
		logRH.FromContext(r.Context()).Error("Request reached a handler without a session")
		WriteErrorResponse(w, http.StatusInternalServerError, "", "No session")
		return nil, false
	}
	return sess, true
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)

	err := json.NewDecoder(io.LimitReader(r.Body, maxJsonBody)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// collector gathers progress messages for the response and logs them.
type collector struct {
	ctx      context.Context
	messages []string
}

func (c *collector) add(message string) {
	logRH.FromContext(c.ctx).Info(message)
	c.messages = append(c.messages, message)
}
