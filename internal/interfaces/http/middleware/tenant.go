package middleware

import (
	"net/http"
	"slices"

	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Tenant headers and the gin context keys they are stored under
const (
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"
	TenantIDKey  = "tenant_id"
	UserIDKey    = "user_id"
)

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// SkipPaths do not require a tenant, e.g. health checks
	SkipPaths []string
}

// DefaultTenantConfig returns the default tenant configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{SkipPaths: []string{"/health", "/ready"}}
}

// Tenant requires a valid X-Tenant-ID header and makes the tenant and the
// optional X-User-ID available to handlers and the context logger.
// Authentication happens upstream; the headers are trusted as given.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		raw := c.GetHeader(TenantHeader)
		if raw == "" {
			abortTenant(c, "X-Tenant-ID header is required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil {
			abortTenant(c, "X-Tenant-ID must be a UUID")
			return
		}
		userID := c.GetHeader(UserHeader)

		c.Set(TenantIDKey, tenantID)
		c.Set(UserIDKey, userID)

		ctx := c.Request.Context()
		fields := logger.GetRequestFields(ctx)
		fields.TenantID = tenantID.String()
		fields.UserID = userID
		c.Request = c.Request.WithContext(logger.WithRequestFields(ctx, fields))

		c.Next()
	}
}

func abortTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeTenantRequired, message, GetRequestID(c)))
}

// GetTenantID returns the tenant set by Tenant
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserID returns the user set by Tenant, or an empty string
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
