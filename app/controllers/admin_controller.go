package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/responses"
	"github.com/pnu-resolver/app/services"
)

// AdminController handles the operational endpoints.
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// GetStats returns system and cache statistics.
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		ac.logger.Error("stats collection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "STATS_ERROR",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// InvalidateCache drops cache entries resolved against an older reference
// table.
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	startTime := time.Now()

	if err := ac.adminService.InvalidateCache(c.Request.Context()); err != nil {
		ac.logger.Error("cache invalidation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "INVALIDATE_ERROR",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "cache invalidated",
		Timestamp: time.Now().Format(time.RFC3339),
		Data: map[string]interface{}{
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
	})
}

// ClearCache drops every cached result.
func (ac *AdminController) ClearCache(c *gin.Context) {
	if err := ac.adminService.ClearCache(c.Request.Context()); err != nil {
		ac.logger.Error("cache clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "CLEAR_ERROR",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "cache cleared",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ExportData streams a collection dump for backup.
func (ac *AdminController) ExportData(c *gin.Context) {
	dataType := c.Param("type")

	limit := 10000
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	data, err := ac.adminService.ExportData(c.Request.Context(), dataType, limit)
	if err != nil {
		ac.logger.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "EXPORT_ERROR",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	filename := fmt.Sprintf("%s_export_%s.json", dataType, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/json")
	c.String(http.StatusOK, string(data))
}
