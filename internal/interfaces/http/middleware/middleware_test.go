package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(handlers...)
	return engine
}

func TestRequestID(t *testing.T) {
	var seen logger.RequestFields
	engine := newTestEngine(RequestID())
	engine.GET("/x", func(c *gin.Context) {
		seen = logger.GetRequestFields(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen.RequestID)
	})

	t.Run("propagates and truncates the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", MaxRequestIDLength+10))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), MaxRequestIDLength)
		assert.Len(t, seen.RequestID, MaxRequestIDLength)
	})
}

func TestTenant(t *testing.T) {
	var (
		gotTenant uuid.UUID
		gotUser   string
		fields    logger.RequestFields
	)
	engine := newTestEngine(RequestID(), Tenant(DefaultTenantConfig()))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/x", func(c *gin.Context) {
		gotTenant, _ = GetTenantID(c)
		gotUser = GetUserID(c)
		fields = logger.GetRequestFields(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("skip paths need no tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	for name, header := range map[string]string{"missing": "", "not a uuid": "tenant-1"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if header != "" {
				req.Header.Set(TenantHeader, header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, dto.ErrCodeTenantRequired, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}

	t.Run("valid tenant and user reach handler and logger", func(t *testing.T) {
		tenantID := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(TenantHeader, tenantID.String())
		req.Header.Set(UserHeader, "merchandiser")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, gotTenant)
		assert.Equal(t, "merchandiser", gotUser)
		assert.Equal(t, tenantID.String(), fields.TenantID)
		assert.Equal(t, "merchandiser", fields.UserID)
		assert.NotEmpty(t, fields.RequestID)
	})
}

func TestBodyLimit(t *testing.T) {
	engine := newTestEngine(BodyLimit(16))
	engine.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("x", 32))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationDetails(t *testing.T) {
	type item struct {
		CategoryID string `json:"category_id" validate:"required,uuid"`
	}
	type request struct {
		Items []item `json:"items" validate:"required,min=1,dive"`
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(request{Items: []item{{CategoryID: "nope"}}})
	details := ValidationDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "items[0].category_id", details[0].Field)
	assert.Equal(t, "Invalid UUID format", details[0].Message)

	assert.Nil(t, ValidationDetails(assert.AnError))
}
