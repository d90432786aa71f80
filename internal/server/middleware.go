package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
	"github.com/mkadic/cashbook/internal/observability/logger"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	tenantservice "github.com/mkadic/cashbook/internal/tenant/service"
	"github.com/mkadic/cashbook/internal/tenantctx"
)

const (
	HeaderTenant    = "X-Tenant-Code"
	HeaderRequestID = "X-Request-Id"
)

// RequestID assigns each request an id, honoring one supplied by the
// caller, and echoes it back so clients can correlate logs.
func RequestID(node *snowflake.Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = node.Generate().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, id)

		c.Next()
	}
}

// TenantScope requires the tenant header on every cash route and makes
// the code available to services through the request context. The header
// value is canonicalized the same way tenant creation canonicalizes
// codes, so one human code always maps to one tenant row.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := tenantservice.NormalizeCode(c.GetHeader(HeaderTenant))
		if code == "" || len(code) > tenantdomain.MaxCodeLength {
			AbortWithError(c, cashdomain.ErrTenantScope)
			return
		}

		ctx := tenantctx.WithCode(c.Request.Context(), code)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
