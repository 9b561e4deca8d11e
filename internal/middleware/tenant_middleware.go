// internal/middleware/tenant_middleware.go
package middleware

import (
	"leadflow-service/internal/domain/scope"

	"github.com/gin-gonic/gin"
)

const scopeContextKey = "instance_scope"

// TenantScope resolves the instance scope for a request from the
// X-Instance-ID header or the instance query parameter. Requests without
// either operate in the legacy/global scope.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Instance-ID")
		if id == "" {
			id = c.Query("instance")
		}
		c.Set(scopeContextKey, scope.Tenant(id))
		c.Next()
	}
}

// GetScope returns the request's resolved scope. Routes not behind
// TenantScope get the global scope.
func GetScope(c *gin.Context) scope.Scope {
	v, exists := c.Get(scopeContextKey)
	if !exists {
		return scope.Global()
	}
	sc, ok := v.(scope.Scope)
	if !ok {
		return scope.Global()
	}
	return sc
}
