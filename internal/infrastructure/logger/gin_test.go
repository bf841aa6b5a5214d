package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	log, logs := observed()
	router := gin.New()
	router.Use(GinMiddleware(log))
	router.GET("/categories/:id", func(c *gin.Context) {
		L(c.Request.Context()).Info("handler")
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories/42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, 2, logs.Len())
	handler := logs.All()[0]
	assert.Equal(t, "handler", handler.Message)
	assert.Equal(t, "/categories/42", handler.ContextMap()["path"])

	request := logs.All()[1]
	assert.Equal(t, zapcore.InfoLevel, request.Level)
	assert.Equal(t, "/categories/:id", request.ContextMap()["route"])
	assert.EqualValues(t, http.StatusOK, request.ContextMap()["status"])

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, zapcore.WarnLevel, logs.All()[2].Level)
}

func TestRecovery(t *testing.T) {
	log, logs := observed()
	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}
