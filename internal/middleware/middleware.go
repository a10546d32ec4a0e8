package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akolanti/ragchat/internal/handlers"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var sessions *session.Registry

func InitMiddleware(registry *session.Registry) {
	sessions = registry
}

var GetHandler = WrapStateless(handlers.GetHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var GetHistoryHandler = Wrap(handlers.GetHistoryHandler)
var ClearHistoryHandler = Wrap(handlers.ClearHistoryHandler)

var UploadDocumentsHandler = Wrap(handlers.UploadDocumentsHandler)
var ClearDocumentsHandler = Wrap(handlers.ClearDocumentsHandler)
var StatsHandler = Wrap(handlers.StatsHandler)
var ClearSessionHandler = Wrap(handlers.ClearSessionHandler)

var GetSearchSettingsHandler = Wrap(handlers.GetSearchSettingsHandler)
var PutSearchSettingsHandler = Wrap(handlers.PutSearchSettingsHandler)
var GetConfigHandler = Wrap(handlers.GetConfigHandler)
var PutConfigHandler = Wrap(handlers.PutConfigHandler)
var TestConfigHandler = Wrap(handlers.TestConfigHandler)

var ScoreHandler = Wrap(handlers.ScoreHandler)
var SummaryHandler = Wrap(handlers.SummaryHandler)
var RecordsHandler = Wrap(handlers.RecordsHandler)
var ExportHandler = Wrap(handlers.ExportHandler)
var ClearEvaluationHandler = Wrap(handlers.ClearEvaluationHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return wrap(next, attachSession)
}

// WrapStateless runs the trace and rate limit steps but never touches
// sessions. Used for health checks.
func WrapStateless(next http.HandlerFunc) http.HandlerFunc {
	return wrap(next, nil)
}

func wrap(next http.HandlerFunc, sessionStep func(requestResponseStruct) requestResponseStruct) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec}, sessionStep)

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
		metrics.CaptureRequestMetrics(r.Method+" "+r.URL.Path, time.Since(start))
	}
}

func processRequest(re requestResponseStruct, sessionStep func(requestResponseStruct) requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = injectTrace(re)
	re = rateLimiter(re)
	if re.badRequest.isBadRequest || sessionStep == nil {
		return re //rate limited, or no session wanted
	}
	return sessionStep(re)
}
