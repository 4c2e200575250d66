package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-intake-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedEngine(opts RateLimiterOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})

	engine := gin.New()
	engine.Use(NewRateLimiter(log, opts).Middleware())
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return engine
}

func doGet(engine *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	opts := DefaultRateLimiterOptions()
	opts.Limit = 1
	opts.Burst = 3
	engine := limitedEngine(opts)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(engine).Code)
	}
}

func TestRateLimiterRejectsBeyondBurst(t *testing.T) {
	opts := DefaultRateLimiterOptions()
	opts.Limit = 1
	opts.Burst = 2
	engine := limitedEngine(opts)

	doGet(engine)
	doGet(engine)

	w := doGet(engine)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiterKeysClientsIndependently(t *testing.T) {
	opts := DefaultRateLimiterOptions()
	opts.Limit = 1
	opts.Burst = 1
	opts.KeyFunc = func(c *gin.Context) string {
		return c.GetHeader("X-Client-ID")
	}
	engine := limitedEngine(opts)

	get := func(clientID string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Client-ID", clientID)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("a"))
	assert.Equal(t, http.StatusTooManyRequests, get("a"))
	assert.Equal(t, http.StatusOK, get("b"), "a saturated client must not affect others")
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	opts := DefaultRateLimiterOptions()
	opts.Limit = rate.Limit(50)
	opts.Burst = 1
	engine := limitedEngine(opts)

	assert.Equal(t, http.StatusOK, doGet(engine).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(engine).Code)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doGet(engine).Code)
}
