package handlers

import (
	"net/http"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler holds the stats service.
type DashboardHandler struct {
	statsService services.StatsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(ss services.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: ss}
}

// GetStats handles fetching the headline dashboard counters.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.DashboardStats()
	if err != nil {
		utils.LogError(err, "GetStats: Error from statsService.DashboardStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dashboard stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDueMembers handles fetching clients with an outstanding balance.
func (h *DashboardHandler) GetDueMembers(c *gin.Context) {
	members, err := h.statsService.DueMembers()
	if err != nil {
		utils.LogError(err, "GetDueMembers: Error from statsService.DueMembers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch due members.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, members)
}
