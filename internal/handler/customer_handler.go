// internal/handler/customer_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// CustomerHandler handles customer and fleet HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *utils.ServiceLogger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          utils.NewServiceLogger(logger, "customer-handler"),
	}
}

// RegisterRoutes registers customer and fleet routes
func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}

	drivers := router.Group("/drivers")
	{
		drivers.POST("", h.CreateDriver)
		drivers.GET("", h.ListDrivers)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", h.DeleteDriver)
	}

	trucks := router.Group("/trucks")
	{
		trucks.POST("", h.CreateTruck)
		trucks.GET("", h.ListTrucks)
		trucks.PUT("/:id", h.UpdateTruck)
		trucks.DELETE("/:id", h.DeleteTruck)
	}
}

// CreateCustomer creates a new customer
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body service.CustomerRequest true "Customer payload"
// @Success 201 {object} utils.APIResponse{data=model.Customer} "Customer created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create customer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Customer created successfully", customer)
}

// ListCustomers lists all customers
// @Summary List customers
// @Tags Customers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Customer} "Customers retrieved successfully"
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customers retrieved successfully", customers)
}

// GetCustomer retrieves a customer by ID
// @Summary Get customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.APIResponse{data=model.Customer} "Customer retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Customer not found"
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Customer not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customer retrieved successfully", customer)
}

// UpdateCustomer updates a customer
// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body service.CustomerRequest true "Customer payload"
// @Success 200 {object} utils.APIResponse{data=model.Customer} "Customer updated successfully"
// @Failure 404 {object} utils.APIResponse "Customer not found"
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Customer not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customer updated successfully", customer)
}

// DeleteCustomer removes a customer
// @Summary Delete customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.APIResponse "Customer deleted successfully"
// @Failure 404 {object} utils.APIResponse "Customer not found"
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Customer not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Customer deleted successfully", nil)
}

// CreateDriver creates a new driver
// @Summary Create driver
// @Tags Fleet
// @Accept json
// @Produce json
// @Param request body service.DriverRequest true "Driver payload"
// @Success 201 {object} utils.APIResponse{data=model.Driver} "Driver created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /drivers [post]
func (h *CustomerHandler) CreateDriver(c *gin.Context) {
	var req service.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	driver, err := h.customerService.CreateDriver(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create driver", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Driver created successfully", driver)
}

// ListDrivers lists drivers
// @Summary List drivers
// @Tags Fleet
// @Produce json
// @Param active_only query bool false "Only active drivers"
// @Success 200 {object} utils.APIResponse{data=[]model.Driver} "Drivers retrieved successfully"
// @Router /drivers [get]
func (h *CustomerHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.customerService.ListDrivers(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		h.logger.Error("Failed to list drivers", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list drivers", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", drivers)
}

// UpdateDriver updates a driver
// @Summary Update driver
// @Tags Fleet
// @Accept json
// @Produce json
// @Param id path string true "Driver ID"
// @Param request body service.DriverRequest true "Driver payload"
// @Success 200 {object} utils.APIResponse{data=model.Driver} "Driver updated successfully"
// @Failure 404 {object} utils.APIResponse "Driver not found"
// @Router /drivers/{id} [put]
func (h *CustomerHandler) UpdateDriver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	driver, err := h.customerService.UpdateDriver(c.Request.Context(), id, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Driver not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver updated successfully", driver)
}

// DeleteDriver removes a driver
// @Summary Delete driver
// @Tags Fleet
// @Produce json
// @Param id path string true "Driver ID"
// @Success 200 {object} utils.APIResponse "Driver deleted successfully"
// @Failure 404 {object} utils.APIResponse "Driver not found"
// @Router /drivers/{id} [delete]
func (h *CustomerHandler) DeleteDriver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteDriver(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Driver not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver deleted successfully", nil)
}

// CreateTruck creates a new truck
// @Summary Create truck
// @Tags Fleet
// @Accept json
// @Produce json
// @Param request body service.TruckRequest true "Truck payload"
// @Success 201 {object} utils.APIResponse{data=model.Truck} "Truck created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /trucks [post]
func (h *CustomerHandler) CreateTruck(c *gin.Context) {
	var req service.TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	truck, err := h.customerService.CreateTruck(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create truck", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Truck created successfully", truck)
}

// ListTrucks lists trucks
// @Summary List trucks
// @Tags Fleet
// @Produce json
// @Param active_only query bool false "Only active trucks"
// @Success 200 {object} utils.APIResponse{data=[]model.Truck} "Trucks retrieved successfully"
// @Router /trucks [get]
func (h *CustomerHandler) ListTrucks(c *gin.Context) {
	trucks, err := h.customerService.ListTrucks(c.Request.Context(), c.Query("active_only") == "true")
	if err != nil {
		h.logger.Error("Failed to list trucks", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list trucks", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trucks retrieved successfully", trucks)
}

// UpdateTruck updates a truck
// @Summary Update truck
// @Tags Fleet
// @Accept json
// @Produce json
// @Param id path string true "Truck ID"
// @Param request body service.TruckRequest true "Truck payload"
// @Success 200 {object} utils.APIResponse{data=model.Truck} "Truck updated successfully"
// @Failure 404 {object} utils.APIResponse "Truck not found"
// @Router /trucks/{id} [put]
func (h *CustomerHandler) UpdateTruck(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	truck, err := h.customerService.UpdateTruck(c.Request.Context(), id, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Truck not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Truck updated successfully", truck)
}

// DeleteTruck removes a truck
// @Summary Delete truck
// @Tags Fleet
// @Produce json
// @Param id path string true "Truck ID"
// @Success 200 {object} utils.APIResponse "Truck deleted successfully"
// @Failure 404 {object} utils.APIResponse "Truck not found"
// @Router /trucks/{id} [delete]
func (h *CustomerHandler) DeleteTruck(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteTruck(c.Request.Context(), id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Truck not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Truck deleted successfully", nil)
}

// parseID parses the :id path parameter as a UUID
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid ID", err)
		return uuid.Nil, false
	}
	return id, true
}
