// internal/handlers/brand/brand.go
package brand

import (
	"errors"
	"net/http"

	"leadflow-service/internal/domain/brand"
	"leadflow-service/internal/middleware"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/brand"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	brandService *service.BrandService
}

func NewBrandHandler(brandService *service.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

// GetBrand returns the scope's theming, falling back to global defaults.
func (h *BrandHandler) GetBrand(c *gin.Context) {
	sc := middleware.GetScope(c)

	settings, err := h.brandService.GetBrand(c.Request.Context(), sc)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load brand settings", err)
		return
	}

	response.Success(c, http.StatusOK, "brand settings retrieved", settings)
}

// UpdateBrand upserts the scope's theming row.
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	sc := middleware.GetScope(c)

	var req brand.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	settings, err := h.brandService.UpdateBrand(c.Request.Context(), sc, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrPayloadTooLarge) {
			response.PayloadTooLarge(c, "logo payload too large")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to save brand settings", err)
		return
	}

	response.Success(c, http.StatusOK, "brand settings saved", settings)
}
