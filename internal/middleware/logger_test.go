package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLoggedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/test", handler)
	return r
}

func loggedGet(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/test", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestLogger_SetsProcessTime(t *testing.T) {
	r := newLoggedRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := loggedGet(r, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	processTime := w.Header().Get("X-Process-Time")
	require.NotEmpty(t, processTime)

	seconds, err := strconv.ParseFloat(processTime, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seconds, 0.0)
}

func TestRequestLogger_ProcessTimeOnErrorStatus(t *testing.T) {
	r := newLoggedRouter(func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	w := loggedGet(r, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Process-Time"))
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	r := newLoggedRouter(func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := loggedGet(r, nil)

	requestID := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, requestID)

	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	var contextID string
	r := newLoggedRouter(func(c *gin.Context) {
		contextID = c.GetString(ContextRequestIDKey)
		c.String(http.StatusOK, "ok")
	})

	w := loggedGet(r, map[string]string{"X-Request-ID": "trace-abc-123"})

	assert.Equal(t, "trace-abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "trace-abc-123", contextID)
}

func TestRequestLogger_NilLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := loggedGet(r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
