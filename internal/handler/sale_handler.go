// internal/handler/sale_handler.go
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/repository"
	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService  *service.SaleService
	printService *service.PrintService
	logger       *utils.ServiceLogger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, printService *service.PrintService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService:  saleService,
		printService: printService,
		logger:       utils.NewServiceLogger(logger, "sale-handler"),
	}
}

// RegisterRoutes registers sale-related routes
func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)

		saleRoutes := sales.Group("/:id")
		{
			saleRoutes.GET("", h.GetSale)
			saleRoutes.DELETE("", h.DeleteSale)
			saleRoutes.POST("/print/receipt", h.PrintReceipt)
			saleRoutes.POST("/print/delivery", h.PrintDeliveryAuth)
		}
	}
}

// CreateSale creates a new sale
// @Summary Create a sale
// @Description Create a sale with line items, optional unit conversions and optional delivery record
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body service.CreateSaleRequest true "Sale creation request"
// @Success 201 {object} utils.APIResponse{data=service.SaleDetails} "Sale created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	details, err := h.saleService.CreateSale(c.Request.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") || strings.Contains(err.Error(), "not found") {
			utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create sale", err)
			return
		}
		h.logger.Error("Failed to create sale", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create sale", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Sale created successfully", details)
}

// ListSales lists sales with filtering
// @Summary List sales
// @Description Get sales, newest first, optionally filtered
// @Tags Sales
// @Accept json
// @Produce json
// @Param customer_id query string false "Filter by customer ID"
// @Param doc_type query string false "Filter by document type" Enums(RECEIPT, DELIVERY_AUTH)
// @Param status query string false "Filter by payment status" Enums(PAID, UNPAID, PARTIAL, CANCELLED)
// @Param limit query int false "Maximum rows" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} utils.APIResponse{data=[]model.Sale} "Sales retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	filter := repository.SaleFilter{Limit: 50}

	if customerID := c.Query("customer_id"); customerID != "" {
		if id, err := uuid.Parse(customerID); err == nil {
			filter.CustomerID = &id
		}
	}
	if docType := c.Query("doc_type"); docType != "" {
		dt := model.DocumentType(docType)
		filter.DocType = &dt
	}
	if status := c.Query("status"); status != "" {
		s := model.SaleStatus(status)
		filter.Status = &s
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	sales, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list sales", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sales retrieved successfully", sales)
}

// GetSale retrieves a sale with its items and delivery record
// @Summary Get sale details
// @Description Get a sale with its line items, customer and delivery record
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} utils.APIResponse{data=service.SaleDetails} "Sale retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid sale ID"
// @Failure 404 {object} utils.APIResponse "Sale not found"
// @Router /sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := h.saleID(c)
	if !ok {
		return
	}

	details, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Sale not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sale retrieved successfully", details)
}

// DeleteSale removes a sale
// @Summary Delete a sale
// @Description Delete a sale and its items and delivery record
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} utils.APIResponse "Sale deleted successfully"
// @Failure 404 {object} utils.APIResponse "Sale not found"
// @Router /sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id, ok := h.saleID(c)
	if !ok {
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Sale not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sale deleted successfully", nil)
}

// PrintReceipt prints the sale receipt
// @Summary Print receipt
// @Description Print the sale receipt; first print is the original, later prints carry the copy marker
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Print attempted"
// @Failure 404 {object} utils.APIResponse "Sale not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /sales/{id}/print/receipt [post]
func (h *SaleHandler) PrintReceipt(c *gin.Context) {
	h.printDocument(c, model.DocumentTypeReceipt)
}

// PrintDeliveryAuth prints the delivery authorization
// @Summary Print delivery authorization
// @Description Print the delivery authorization document for the sale
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Print attempted"
// @Failure 404 {object} utils.APIResponse "Sale not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /sales/{id}/print/delivery [post]
func (h *SaleHandler) PrintDeliveryAuth(c *gin.Context) {
	h.printDocument(c, model.DocumentTypeDeliveryAuth)
}

// printDocument runs one print attempt and maps the outcome
func (h *SaleHandler) printDocument(c *gin.Context, docType model.DocumentType) {
	id, ok := h.saleID(c)
	if !ok {
		return
	}

	result, err := h.printService.PrintSaleDocument(c.Request.Context(), id, docType)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "no delivery information") {
			status = http.StatusNotFound
		}
		utils.ErrorResponse(c, status, "Failed to print document", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// saleID parses the :id path parameter
func (h *SaleHandler) saleID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid sale ID", err)
		return uuid.Nil, false
	}
	return id, true
}
