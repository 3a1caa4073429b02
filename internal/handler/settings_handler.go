// internal/handler/settings_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-service/internal/service"
	"pos-service/internal/utils"
)

// SettingsHandler handles business settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *utils.ServiceLogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          utils.NewServiceLogger(logger, "settings-handler"),
	}
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
	}
}

// GetSettings retrieves the business settings
// @Summary Get settings
// @Description Get business profile, printer defaults and document numbering state
// @Tags Settings
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.BusinessSettings} "Settings retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get settings", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get settings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the business settings
// @Summary Update settings
// @Description Update the editable business settings; document counters are not editable
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body service.SettingsRequest true "Settings payload"
// @Success 200 {object} utils.APIResponse{data=model.BusinessSettings} "Settings updated successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req service.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update settings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settings updated successfully", settings)
}
