package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn", true))
	assert.Equal(t, zap.InfoLevel, parseLevel("", true))
	assert.Equal(t, zap.DebugLevel, parseLevel("bogus", false))
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestJSONError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONError(c, http.StatusBadRequest, "Invalid trip", "origin must be a 3-letter code")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid trip","details":"origin must be a 3-letter code"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}

func TestHealthMonitorWithoutRedis(t *testing.T) {
	m := NewHealthMonitor(nil, true, false)
	m.Check(context.Background())

	s := m.Status()
	assert.Nil(t, s.Redis)
	assert.True(t, s.Gemini)
	assert.False(t, s.SerpAPI)
	assert.False(t, s.CheckedAt.IsZero())
}
