package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/evaluation"
)

// ScoreHandler godoc
// @Summary      Score recorded answers
// @Description  Runs the requested metrics over every recorded answer. Omitting metrics runs all four; unknown names are ignored.
// @Tags         Evaluation
// @Accept       json
// @Produce      json
// @Param        X-Session-Id  header    string            false  "Session id"
// @Param        request       body      api.ScoreRequest  false  "Metric names"
// @Success      200           {object}  api.ScoreResponse
// @Failure      409           {object}  api.ErrorResponse  "Nothing recorded yet"
// @Failure      424           {object}  api.ErrorResponse  "Backends not configured"
// @Router       /evaluation/score [post]
func ScoreHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req api.ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, sess.Id, "Bad Request")
		return
	}
	requested := evaluation.AllMetrics
	if req.Metrics != nil {
		requested = evaluation.ParseMetrics(req.Metrics)
	}

	sess.Lock()
	defer sess.Unlock()

	progress := &collector{ctx: r.Context()}
	records, failure := ragService.Evaluate(r.Context(), sess, requested, progress.add)
	if failure != nil {
		writeFailure(w, sess.Id, failure)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.ScoreResponse{
		SessionId: sess.Id,
		Records:   nonNilRecords(records),
		Summary:   sess.Recorder.Summarize(),
		Progress:  append([]string{}, progress.messages...),
	})
}

// SummaryHandler godoc
// @Summary      Evaluation summary
// @Description  Empty without records; counts only until something is scored.
// @Tags         Evaluation
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.SummaryResponse
// @Router       /evaluation/summary [get]
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusOK, api.SummaryResponse{SessionId: sess.Id, Summary: sess.Recorder.Summarize()})
}

// RecordsHandler godoc
// @Summary      Evaluation records
// @Tags         Evaluation
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.RecordsResponse
// @Router       /evaluation/records [get]
func RecordsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusOK, api.RecordsResponse{SessionId: sess.Id, Records: nonNilRecords(sess.Recorder.Records())})
}

// ExportHandler godoc
// @Summary      Export evaluation records
// @Description  One CSV row per recorded answer; lists are joined with "; " and unscored metrics are empty.
// @Tags         Evaluation
// @Produce      text/csv
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {string}  string  "CSV file"
// @Failure      409           {object}  api.ErrorResponse  "Nothing recorded yet"
// @Router       /evaluation/export [get]
func ExportHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if sess.Recorder.Len() == 0 {
		WriteErrorResponse(w, http.StatusConflict, sess.Id, "There are no evaluation records to export")
		return
	}

	fileName := fmt.Sprintf("evaluation_results_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if err := sess.Recorder.WriteCSV(w); err != nil {
		logRH.FromContext(r.Context()).Error("Error writing export", "error", err)
	}
}

// ClearEvaluationHandler godoc
// @Summary      Clear evaluation records
// @Tags         Evaluation
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session id"
// @Success      200           {object}  api.MessageResponse
// @Router       /evaluation [delete]
func ClearEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	sess.Recorder.Clear()
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{SessionId: sess.Id, Message: "Evaluation records cleared"})
}

func nonNilRecords(records []ragModel.EvaluationRecord) []ragModel.EvaluationRecord {
	if records == nil {
		return []ragModel.EvaluationRecord{}
	}
	return records
}
