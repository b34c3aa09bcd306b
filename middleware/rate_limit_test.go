package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(perMinute).Handler())
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	return r
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	r := newLimitedRouter(60)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterBlocksBurstOverflow(t *testing.T) {
	// perMinute=2 gives burst 1: the second immediate request must be refused.
	r := newLimitedRouter(2)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(2)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// simulate two authenticated bots sharing one limiter instance
	r.GET("/ping", func(ctx *gin.Context) {
		ctx.Set(ContextBotIDKey, ctx.Query("bot"))
		rl.Handler()(ctx)
		if !ctx.IsAborted() {
			ctx.Status(http.StatusOK)
		}
	})

	a := httptest.NewRecorder()
	r.ServeHTTP(a, httptest.NewRequest(http.MethodGet, "/ping?bot=a", nil))
	assert.Equal(t, http.StatusOK, a.Code)

	b := httptest.NewRecorder()
	r.ServeHTTP(b, httptest.NewRequest(http.MethodGet, "/ping?bot=b", nil))
	assert.Equal(t, http.StatusOK, b.Code, "bot b has its own bucket")
}
