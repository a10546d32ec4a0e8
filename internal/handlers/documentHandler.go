package handlers

import (
	"io"
	"net/http"

	"github.com/akolanti/ragchat/internal/adapter"
	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/rag/ingest"
)

const uploadField = "files"

// UploadDocumentsHandler godoc
// @Summary      Upload PDF documents
// @Description  Extracts, chunks and embeds every uploaded PDF into the session index. Files that cannot be read are reported without aborting the others.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Param        files         formData  file    true   "PDF file, repeatable"
// @Success      200           {object}  api.IngestResponse
// @Failure      400           {object}  api.IngestResponse  "No readable PDF"
// @Failure      424           {object}  api.IngestResponse  "Embedding backend not configured"
// @Failure      429           {object}  api.IngestResponse  "Embedding rate limit persisted"
// @Router       /documents [post]
func UploadDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	log := logRH.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		log.Warn("Bad upload", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "File too large or bad request")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("Could not remove multipart temp files", "error", err)
		}
	}()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "at least one file is required in field "+uploadField)
		return
	}

	uploads := make([]ingest.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "Could not retrieve file "+h.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "Could not read file "+h.Filename)
			return
		}
		uploads = append(uploads, ingest.Upload{Name: h.Filename, Data: data})
	}

	sess.Lock()
	defer sess.Unlock()

	progress := &collector{ctx: r.Context()}
	report := ragService.Ingest(r.Context(), sess, uploads, progress.add)
	writeJsonResponse(w, adapter.StatusForFailure(report.Failure), adapter.ToIngestResponse(sess.Id, report, progress.messages))
}

// ClearDocumentsHandler godoc
// @Summary      Clear the document index
// @Tags         Documents
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.MessageResponse
// @Router       /documents [delete]
func ClearDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	sess.ClearDocuments(r.Context())
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{SessionId: sess.Id, Message: "Documents cleared"})
}

// StatsHandler godoc
// @Summary      Index statistics
// @Tags         Documents
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.StatsResponse
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToStatsResponse(sess.Id, sess.Stats(), sess.Recorder.Len(), sess.Index.Params()))
}

// ClearSessionHandler godoc
// @Summary      Clear everything
// @Description  Ends the session: index, chat history and evaluation records are discarded.
// @Tags         Session
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.MessageResponse
// @Router       /session [delete]
func ClearSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	registry.Delete(sess.Id)
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{SessionId: sess.Id, Message: "Session cleared"})
}
