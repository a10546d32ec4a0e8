package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/ragchat/internal/adapter/utils"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func setupSessions(t *testing.T) *session.Registry {
	t.Helper()
	registry := session.NewRegistry(config.DefaultSettings(), session.MemoryStores(), store.InitInMemoryTranscriptStore(), nil)
	InitMiddleware(registry)
	limiterInstance = NewIPRateLimiter(rate.Inf, 1)
	return registry
}

func TestWrap_AttachesSession(t *testing.T) {
	registry := setupSessions(t)

	var seen *session.Session
	h := Wrap(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.FromContext(r.Context())
		assert.Equal(t, seen.Id, r.Context().Value(config.SESSION_ID_KEY))
		assert.NotEmpty(t, r.Context().Value(config.TRACE_ID_KEY))
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("new session when header is missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))

		require.NotNil(t, seen)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, seen.Id, rr.Header().Get(config.SESSION_HEADER))
		assert.True(t, utils.IsUUID(seen.Id))
		assert.NotEmpty(t, rr.Header().Get("X-Trace-Id"))
	})

	t.Run("existing session is reused", func(t *testing.T) {
		first := seen
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set(config.SESSION_HEADER, first.Id)
		rr := httptest.NewRecorder()
		h(rr, req)

		assert.Same(t, first, seen)
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("malformed id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set(config.SESSION_HEADER, "not-a-uuid")
		rr := httptest.NewRecorder()
		h(rr, req)

		assert.NotEqual(t, "not-a-uuid", rr.Header().Get(config.SESSION_HEADER))
		assert.True(t, utils.IsUUID(rr.Header().Get(config.SESSION_HEADER)))
	})

	t.Run("trace id is propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set("X-Trace-Id", "trace-123")
		rr := httptest.NewRecorder()
		h(rr, req)
		assert.Equal(t, "trace-123", rr.Header().Get("X-Trace-Id"))
	})
}

func TestWrapStateless_CreatesNoSession(t *testing.T) {
	registry := setupSessions(t)

	called := false
	h := WrapStateless(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := session.FromContext(r.Context())
		assert.False(t, ok)
		assert.NotEmpty(t, r.Context().Value(config.TRACE_ID_KEY))
	})

	for range 3 {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get(config.SESSION_HEADER))
	}
	assert.True(t, called)
	assert.Zero(t, registry.Count())
}

func TestWrap_RateLimited(t *testing.T) {
	setupSessions(t)
	limiterInstance = NewIPRateLimiter(rate.Limit(0.001), 1)

	calls := 0
	h := Wrap(func(w http.ResponseWriter, r *http.Request) { calls++ })

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))
		if i == 0 {
			assert.Equal(t, http.StatusOK, rr.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		}
	}
	assert.Equal(t, 1, calls)
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 2)
	assert.Same(t, l.GetLimiter("1.1.1.1"), l.GetLimiter("1.1.1.1"))
	assert.NotSame(t, l.GetLimiter("1.1.1.1"), l.GetLimiter("2.2.2.2"))
}

func TestIPRateLimiter_DropsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 2)
	start := time.Now()
	now := start
	l.now = func() time.Time { return now }

	first := l.GetLimiter("1.1.1.1")
	l.GetLimiter("2.2.2.2")
	assert.Equal(t, 2, l.Len())

	now = start.Add(config.RateLimiterIdleTTL / 2)
	l.GetLimiter("2.2.2.2")

	now = start.Add(config.RateLimiterIdleTTL + time.Second)
	l.GetLimiter("3.3.3.3")
	assert.Equal(t, 2, l.Len(), "1.1.1.1 was idle and dropped")
	assert.NotSame(t, first, l.GetLimiter("1.1.1.1"))
}
