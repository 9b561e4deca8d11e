// internal/handlers/customer/customer.go
package customer

import (
	"net/http"

	"leadflow-service/internal/domain/customer"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// ListCustomers returns the scope's records for the pipeline board.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	sc := middleware.GetScope(c)

	records, err := h.customerService.List(c.Request.Context(), sc)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list customers", err)
		return
	}

	response.Success(c, http.StatusOK, "customers retrieved", records)
}

// BulkUpsert reconciles a client batch against the scope's records. Partial
// failures still produce a 200 with the per-record detail in the summary.
func (h *CustomerHandler) BulkUpsert(c *gin.Context) {
	sc := middleware.GetScope(c)

	var req customer.BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.customerService.BulkUpsert(c.Request.Context(), sc, req.Records)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "bulk upsert failed", err)
		return
	}

	response.Success(c, http.StatusOK, "bulk upsert completed", result)
}

// RemoveCustomer deletes a record by lead id.
func (h *CustomerHandler) RemoveCustomer(c *gin.Context) {
	sc := middleware.GetScope(c)

	leadID := c.Param("lead_id")
	if leadID == "" {
		response.Error(c, http.StatusBadRequest, "lead id is required", nil)
		return
	}

	result, err := h.customerService.Remove(c.Request.Context(), sc, leadID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to remove customer", err)
		return
	}

	response.Success(c, http.StatusOK, "customer removal processed", result)
}

// DedupePhones runs the phone dedupe sweep for the scope.
func (h *CustomerHandler) DedupePhones(c *gin.Context) {
	sc := middleware.GetScope(c)

	result, err := h.customerService.DedupePhones(c.Request.Context(), sc)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "phone dedupe failed", err)
		return
	}

	response.Success(c, http.StatusOK, "phone dedupe completed", result)
}

// PurgeUnknown removes records with no identifying signal.
func (h *CustomerHandler) PurgeUnknown(c *gin.Context) {
	sc := middleware.GetScope(c)

	result, err := h.customerService.PurgeUnknown(c.Request.Context(), sc)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "purge failed", err)
		return
	}

	response.Success(c, http.StatusOK, "purge completed", result)
}

// MigrateLegacy stamps the scope onto pre-instance records. Pass
// ?dry_run=true to preview.
func (h *CustomerHandler) MigrateLegacy(c *gin.Context) {
	sc := middleware.GetScope(c)
	dryRun := c.Query("dry_run") == "true"

	result, err := h.customerService.MigrateLegacyCustomers(c.Request.Context(), sc, dryRun)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "legacy migration failed", err)
		return
	}

	response.Success(c, http.StatusOK, "legacy migration completed", result)
}
