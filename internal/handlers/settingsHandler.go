package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/ragchat/internal/adapter"
	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/rag/vectorDB"
)

// GetSearchSettingsHandler godoc
// @Summary      Retrieval parameters
// @Tags         Settings
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.SearchSettings
// @Router       /search-settings [get]
func GetSearchSettingsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchSettings(sess.Index.Params()))
}

// PutSearchSettingsHandler godoc
// @Summary      Update retrieval parameters
// @Description  k must be within 1..20 and score_threshold within -1..1. Applies to future searches only.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string                     false  "Session id"
// @Param        request       body      api.SearchSettingsRequest  true   "New parameters"
// @Success      200           {object}  api.SearchSettings
// @Failure      400           {object}  api.ErrorResponse
// @Router       /search-settings [put]
func PutSearchSettingsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req api.SearchSettingsRequest
	if err := decodeBody(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "Bad Request")
		return
	}
	if err := sess.Index.UpdateParams(req.K, req.ScoreThreshold); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vectorDB.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		WriteErrorResponse(w, status, sess.Id, err.Error())
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchSettings(sess.Index.Params()))
}

// GetConfigHandler godoc
// @Summary      Backend configuration
// @Description  API keys are masked. missing lists the parameters that still need a value.
// @Tags         Settings
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.BackendConfigResponse
// @Router       /config [get]
func GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	cfg := envBackends
	if clients := sess.Backends(); clients != nil {
		cfg = clients.Config
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToBackendConfigResponse(sess.Id, cfg))
}

// PutConfigHandler godoc
// @Summary      Configure the backends
// @Description  Non-empty fields override the current configuration. A change of backends clears the session's documents.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string                    false  "Session id"
// @Param        request       body      api.BackendConfigRequest  true   "Endpoints"
// @Success      200           {object}  api.BackendConfigResponse
// @Failure      400           {object}  api.BackendConfigResponse  "Incomplete configuration"
// @Router       /config [put]
func PutConfigHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	log := logRH.FromContext(r.Context())

	var req api.BackendConfigRequest
	if err := decodeBody(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "Bad Request")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	base := envBackends
	if clients := sess.Backends(); clients != nil {
		base = clients.Config
	}
	cfg := adapter.MergeBackendConfig(base, req)

	clients, err := connect(r.Context(), cfg)
	if err != nil {
		log.Warn("Rejected backend configuration", "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, config.ErrIncompleteBackend) {
			status = http.StatusBadRequest
		}
		writeJsonResponse(w, status, adapter.ToBackendConfigResponse(sess.Id, cfg))
		return
	}
	sess.SetBackends(r.Context(), clients)
	log.Info("Backends configured", "provider", cfg.Provider)
	writeJsonResponse(w, http.StatusOK, adapter.ToBackendConfigResponse(sess.Id, cfg))
}

// TestConfigHandler godoc
// @Summary      Test the backends
// @Description  Embeds a short text and requests a short completion.
// @Tags         Settings
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.ProbeResponse
// @Failure      424           {object}  api.ErrorResponse  "Nothing configured"
// @Failure      502           {object}  api.ProbeResponse  "Probe failed"
// @Router       /config/test [post]
func TestConfigHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	clients := sess.Backends()
	if clients == nil {
		WriteErrorResponse(w, http.StatusFailedDependency, sess.Id, "The backends are not configured")
		return
	}
	if err := clients.Probe(r.Context()); err != nil {
		writeJsonResponse(w, http.StatusBadGateway, api.ProbeResponse{SessionId: sess.Id, Message: err.Error()})
		return
	}
	writeJsonResponse(w, http.StatusOK, api.ProbeResponse{SessionId: sess.Id, Success: true, Message: "Connection test succeeded"})
}
