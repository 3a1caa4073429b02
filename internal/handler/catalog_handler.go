// internal/handler/catalog_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// CatalogHandler handles item, category, unit and conversion rule requests
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *utils.ServiceLogger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         utils.NewServiceLogger(logger, "catalog-handler"),
	}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
	}

	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	units := router.Group("/units")
	{
		units.POST("", h.CreateUnit)
		units.GET("", h.ListUnits)
		units.DELETE("/:id", h.DeleteUnit)
	}

	conversions := router.Group("/conversions")
	{
		conversions.POST("", h.CreateConversionRule)
		conversions.GET("", h.ListConversionRules)
		conversions.PUT("/:id", h.UpdateConversionRule)
		conversions.DELETE("/:id", h.DeleteConversionRule)
	}
}

// CreateItem creates a catalog item
// @Summary Create item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body service.ItemRequest true "Item payload"
// @Success 201 {object} utils.APIResponse{data=model.Item} "Item created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create item", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Item created successfully", item)
}

// ListItems lists catalog items
// @Summary List items
// @Tags Catalog
// @Produce json
// @Param active_only query bool false "Only active items"
// @Success 200 {object} utils.APIResponse{data=[]model.Item} "Items retrieved successfully"
// @Router /items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.catalogService.ListItems(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list items", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Items retrieved successfully", items)
}

// GetItem retrieves an item
// @Summary Get item
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} utils.APIResponse{data=model.Item} "Item retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Item not found"
// @Router /items/{id} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Item not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Item retrieved successfully", item)
}

// UpdateItem updates an item
// @Summary Update item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body service.ItemRequest true "Item payload"
// @Success 200 {object} utils.APIResponse{data=model.Item} "Item updated successfully"
// @Failure 404 {object} utils.APIResponse "Item not found"
// @Router /items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Item not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Item updated successfully", item)
}

// DeleteItem removes an item
// @Summary Delete item
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} utils.APIResponse "Item deleted successfully"
// @Failure 404 {object} utils.APIResponse "Item not found"
// @Router /items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Item not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Item deleted successfully", nil)
}

// CreateCategory creates a category
// @Summary Create category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body service.CategoryRequest true "Category payload"
// @Success 201 {object} utils.APIResponse{data=model.Category} "Category created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create category", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Category created successfully", category)
}

// ListCategories lists categories
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Category} "Categories retrieved successfully"
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// UpdateCategory updates a category
// @Summary Update category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body service.CategoryRequest true "Category payload"
// @Success 200 {object} utils.APIResponse{data=model.Category} "Category updated successfully"
// @Failure 404 {object} utils.APIResponse "Category not found"
// @Router /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Category not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory removes a category
// @Summary Delete category
// @Tags Catalog
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} utils.APIResponse "Category deleted successfully"
// @Failure 404 {object} utils.APIResponse "Category not found"
// @Router /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Category not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}

// CreateUnit creates a measurement unit
// @Summary Create unit
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body service.UnitRequest true "Unit payload"
// @Success 201 {object} utils.APIResponse{data=model.Unit} "Unit created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /units [post]
func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req service.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	unit, err := h.catalogService.CreateUnit(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create unit", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Unit created successfully", unit)
}

// ListUnits lists measurement units
// @Summary List units
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Unit} "Units retrieved successfully"
// @Router /units [get]
func (h *CatalogHandler) ListUnits(c *gin.Context) {
	units, err := h.catalogService.ListUnits(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list units", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list units", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Units retrieved successfully", units)
}

// DeleteUnit removes a unit
// @Summary Delete unit
// @Tags Catalog
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} utils.APIResponse "Unit deleted successfully"
// @Failure 404 {object} utils.APIResponse "Unit not found"
// @Router /units/{id} [delete]
func (h *CatalogHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteUnit(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Unit not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Unit deleted successfully", nil)
}

// CreateConversionRule creates a conversion rule
// @Summary Create conversion rule
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body service.ConversionRuleRequest true "Conversion rule payload"
// @Success 201 {object} utils.APIResponse{data=model.ConversionRule} "Conversion rule created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /conversions [post]
func (h *CatalogHandler) CreateConversionRule(c *gin.Context) {
	var req service.ConversionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := h.catalogService.CreateConversionRule(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create conversion rule", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Conversion rule created successfully", rule)
}

// ListConversionRules lists conversion rules
// @Summary List conversion rules
// @Tags Catalog
// @Produce json
// @Param active_only query bool false "Only active rules"
// @Success 200 {object} utils.APIResponse{data=[]model.ConversionRule} "Conversion rules retrieved successfully"
// @Router /conversions [get]
func (h *CatalogHandler) ListConversionRules(c *gin.Context) {
	rules, err := h.catalogService.ListConversionRules(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		h.logger.Error("Failed to list conversion rules", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list conversion rules", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Conversion rules retrieved successfully", rules)
}

// UpdateConversionRule updates a conversion rule
// @Summary Update conversion rule
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Conversion rule ID"
// @Param request body service.ConversionRuleRequest true "Conversion rule payload"
// @Success 200 {object} utils.APIResponse{data=model.ConversionRule} "Conversion rule updated successfully"
// @Failure 404 {object} utils.APIResponse "Conversion rule not found"
// @Router /conversions/{id} [put]
func (h *CatalogHandler) UpdateConversionRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ConversionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := h.catalogService.UpdateConversionRule(c.Request.Context(), id, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Conversion rule not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Conversion rule updated successfully", rule)
}

// DeleteConversionRule removes a conversion rule
// @Summary Delete conversion rule
// @Tags Catalog
// @Produce json
// @Param id path string true "Conversion rule ID"
// @Success 200 {object} utils.APIResponse "Conversion rule deleted successfully"
// @Failure 404 {object} utils.APIResponse "Conversion rule not found"
// @Router /conversions/{id} [delete]
func (h *CatalogHandler) DeleteConversionRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteConversionRule(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Conversion rule not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Conversion rule deleted successfully", nil)
}
