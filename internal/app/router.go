// internal/app/router.go
package app

import (
	brandHandler "leadflow-service/internal/handlers/brand"
	customerHandler "leadflow-service/internal/handlers/customer"
	eventsHandler "leadflow-service/internal/handlers/events"
	"leadflow-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	CustomerHandler *customerHandler.CustomerHandler
	BrandHandler    *brandHandler.BrandHandler
	EventsHandler   *eventsHandler.EventsHandler
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	r.Use(middleware.RecoveryMiddleware(logger))

	api := r.Group("/api/v1")
	api.Use(middleware.TenantScope())

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Event Feed ====================
	r.GET("/ws", h.EventsHandler.HandleConnection)

	// ==================== Customers ====================
	customers := api.Group("/customers")
	{
		customers.GET("", h.CustomerHandler.ListCustomers)
		customers.POST("/bulk-upsert", h.CustomerHandler.BulkUpsert)
		customers.DELETE("/:lead_id", h.CustomerHandler.RemoveCustomer)

		// Maintenance operations
		customers.POST("/dedupe-phones", h.CustomerHandler.DedupePhones)
		customers.POST("/purge-unknown", h.CustomerHandler.PurgeUnknown)
		customers.POST("/migrate-legacy", h.CustomerHandler.MigrateLegacy)
	}

	// ==================== Brand / Theming ====================
	brandGroup := api.Group("/brand")
	{
		brandGroup.GET("", h.BrandHandler.GetBrand)
		brandGroup.PUT("", h.BrandHandler.UpdateBrand)
	}
}
