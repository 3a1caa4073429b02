// internal/handler/print_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// PrintHandler handles printer-related HTTP requests
type PrintHandler struct {
	printService *service.PrintService
	logger       *utils.ServiceLogger
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printService *service.PrintService, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		printService: printService,
		logger:       utils.NewServiceLogger(logger, "print-handler"),
	}
}

// RegisterRoutes registers printer-related routes
func (h *PrintHandler) RegisterRoutes(router *gin.RouterGroup) {
	printer := router.Group("/printer")
	{
		printer.POST("/connect", h.Connect)
		printer.POST("/disconnect", h.Disconnect)
		printer.GET("/status", h.Status)
		printer.GET("/devices", h.Devices)
		printer.POST("/test", h.PrintTestPage)
		printer.POST("/text", h.PrintText)
	}
}

// Connect opens the printer connection
// @Summary Connect printer
// @Description Connect to a printer; without an address the printer configured in settings is used
// @Tags Printer
// @Accept json
// @Produce json
// @Param request body service.ConnectRequest false "Printer selection"
// @Success 200 {object} utils.APIResponse{data=model.ConnectionState} "Printer connected"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 502 {object} utils.APIResponse "Connection failed"
// @Router /printer/connect [post]
func (h *PrintHandler) Connect(c *gin.Context) {
	var req service.ConnectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	state, err := h.printService.Connect(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Printer connect failed",
			zap.Error(err),
			zap.String("last_error", state.LastError),
		)
		utils.ErrorResponse(c, http.StatusBadGateway, "Connection failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer connected", state)
}

// Disconnect closes the printer connection
// @Summary Disconnect printer
// @Description Close the printer connection
// @Tags Printer
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.ConnectionState} "Printer disconnected"
// @Router /printer/disconnect [post]
func (h *PrintHandler) Disconnect(c *gin.Context) {
	state := h.printService.Disconnect()
	utils.SuccessResponse(c, http.StatusOK, "Printer disconnected", state)
}

// Status returns the connection state
// @Summary Printer status
// @Description Get the current printer connection state
// @Tags Printer
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.ConnectionState} "Printer status"
// @Router /printer/status [get]
func (h *PrintHandler) Status(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Printer status", h.printService.Status())
}

// Devices lists discovered printer candidates
// @Summary List printer devices
// @Description List serial and RFCOMM devices that look like printers
// @Tags Printer
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.PairedDevice} "Devices discovered"
// @Failure 500 {object} utils.APIResponse "Discovery failed"
// @Router /printer/devices [get]
func (h *PrintHandler) Devices(c *gin.Context) {
	devices, err := h.printService.Devices(c.Request.Context())
	if err != nil {
		h.logger.Error("Device discovery failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Device discovery failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Devices discovered", devices)
}

// PrintTestPage prints a self-test page
// @Summary Print test page
// @Description Print a short self-test page on the connected printer
// @Tags Printer
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Print attempted"
// @Router /printer/test [post]
func (h *PrintHandler) PrintTestPage(c *gin.Context) {
	result := h.printService.PrintTestPage(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// PrintTextRequest carries free text to print
type PrintTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// PrintText prints free text
// @Summary Print text
// @Description Print free text, hard-wrapped at the paper width
// @Tags Printer
// @Accept json
// @Produce json
// @Param request body PrintTextRequest true "Text to print"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Print attempted"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /printer/text [post]
func (h *PrintHandler) PrintText(c *gin.Context) {
	var req PrintTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := h.printService.PrintPlainText(c.Request.Context(), req.Text)
	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}
