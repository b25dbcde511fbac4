package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) {
		_, hasLogger := c.Get("logger")
		c.JSON(http.StatusOK, gin.H{"id": RequestID(c), "logger": hasLogger})
	})
	return r
}

func TestRateLimitPerIP(t *testing.T) {
	r := newRouter(RateLimitMiddleware(2))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("1.1.1.1"))
	assert.Equal(t, http.StatusOK, do("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("1.1.1.1"))
	assert.Equal(t, http.StatusOK, do("2.2.2.2"))
}

func TestRequestLoggerAssignsID(t *testing.T) {
	r := newRouter(RequestLogger(zap.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id+`","logger":true}`, w.Body.String())

	known := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, known)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, known, w.Header().Get(RequestIDHeader))
}

func TestGetClientIPFallsBackToRemoteAddr(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", getClientIP(c))

	c.Request.Header.Set("X-Real-IP", " 198.51.100.2 ")
	assert.Equal(t, "198.51.100.2", getClientIP(c))
}

func TestGetClientIPPrefersValidForwardedHop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:443"

	c.Request.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.2")
	c.Request.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "203.0.113.9", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "not-an-ip, 10.0.0.2")
	assert.Equal(t, "198.51.100.2", getClientIP(c))

	c.Request.Header.Set("X-Real-IP", "unknown")
	assert.Equal(t, "10.0.0.1", getClientIP(c))
}

func TestRateLimiterStoreDropsIdleClients(t *testing.T) {
	store := newRateLimiterStore(5)
	now := time.Now()
	store.now = func() time.Time { return now }
	store.lastSweep = now

	first := store.getLimiter("1.1.1.1")
	store.getLimiter("2.2.2.2")
	assert.Equal(t, 2, store.size())

	now = now.Add(5 * time.Minute)
	assert.Same(t, first, store.getLimiter("1.1.1.1"))
	assert.Equal(t, 2, store.size())

	now = now.Add(limiterIdleTTL - time.Minute)
	store.getLimiter("3.3.3.3")
	assert.Equal(t, 2, store.size(), "2.2.2.2 idle past the TTL must be dropped")

	now = now.Add(limiterIdleTTL + time.Minute)
	assert.NotSame(t, first, store.getLimiter("1.1.1.1"))
	assert.Equal(t, 1, store.size())
}
