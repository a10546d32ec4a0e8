package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/ragchat/internal/adapter/utils"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/handlers"
	"github.com/akolanti/ragchat/internal/session"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Injecting trace middleware")
	req := re.req
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With(config.TRACE_ID_KEY, trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set("X-Trace-Id", trace)
	re.writer.Header().Set("X-Trace-Id", trace)
	re.req = req.WithContext(ctx)

	re.logger.Debug("trace middleware injected")
	return re
}

// attachSession resolves X-Session-Id to a live session, starting a new one
// when the header is missing, malformed or expired. The id is echoed back.
func attachSession(re requestResponseStruct) requestResponseStruct {
	if sessions == nil {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusServiceUnavailable,
			errorMessage: "sessions are not available",
		}
		return re
	}

	id := re.req.Header.Get(config.SESSION_HEADER)
	if id != "" && !utils.IsUUID(id) {
		re.logger.Warn("Ignoring malformed session id", "id", id)
		id = ""
	}
	if id == "" {
		id = utils.GetNewUUID()
	}

	sess, created := sessions.GetOrCreate(id)
	if created {
		re.logger.Info("New session", config.SESSION_ID_KEY, sess.Id)
	}
	re.badRequest.id = sess.Id
	re.logger = re.logger.With(config.SESSION_ID_KEY, sess.Id)
	re.writer.Header().Set(config.SESSION_HEADER, sess.Id)

	ctx := context.WithValue(re.req.Context(), config.SESSION_ID_KEY, sess.Id)
	re.req = re.req.WithContext(session.NewContext(ctx, sess))
	return re
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Rate limiter middleware")
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiterInstance.GetLimiter(ip).Allow() {
		re.logger.Error("Too many requests", "Rate Limiter exceeded", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded. Slow down",
		}
		return re
	}
	re.logger.Debug("Rate limiter middleware authorized")
	return re
}

func handleBadRequest(re requestResponseStruct) {
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.id, re.badRequest.errorMessage)
}
