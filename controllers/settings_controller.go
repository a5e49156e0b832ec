package controllers

import (
	"net/http"

	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
)

// SettingsController handles the admin store-settings endpoints.
type SettingsController struct {
	settingsService services.SettingsService
}

// NewSettingsController creates a new SettingsController.
func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// GetSettings handles GET /admin/settings
func (ctl *SettingsController) GetSettings(c *gin.Context) {
	settings, svcErr := ctl.settingsService.GetSettings(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /admin/settings
func (ctl *SettingsController) UpdateSettings(c *gin.Context) {
	var req services.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings, svcErr := ctl.settingsService.UpdateSettings(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, settings)
}
