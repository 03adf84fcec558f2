package handlers

import (
	"errors"
	"net/http"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the stats service.
type ReportHandler struct {
	statsService services.StatsService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ss services.StatsService) *ReportHandler {
	return &ReportHandler{statsService: ss}
}

// GetRevenue handles the bucketed revenue report.
func (h *ReportHandler) GetRevenue(c *gin.Context) {
	period := c.DefaultQuery("period", "monthly")

	points, err := h.statsService.Revenue(period)
	if err != nil {
		utils.LogError(err, "GetRevenue: Error from statsService.Revenue")
		respondReportError(c, err, "Failed to build revenue report.")
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetClientGrowth handles the new-client growth report.
func (h *ReportHandler) GetClientGrowth(c *gin.Context) {
	period := c.DefaultQuery("period", "monthly")

	points, err := h.statsService.ClientGrowth(period)
	if err != nil {
		utils.LogError(err, "GetClientGrowth: Error from statsService.ClientGrowth")
		respondReportError(c, err, "Failed to build client growth report.")
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetRevenueByPlan handles the per-plan revenue report.
func (h *ReportHandler) GetRevenueByPlan(c *gin.Context) {
	report, err := h.statsService.RevenueByPlan()
	if err != nil {
		utils.LogError(err, "GetRevenueByPlan: Error from statsService.RevenueByPlan")
		respondReportError(c, err, "Failed to build revenue-by-plan report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPlanDistribution handles the clients-per-plan report.
func (h *ReportHandler) GetPlanDistribution(c *gin.Context) {
	report, err := h.statsService.PlanDistribution()
	if err != nil {
		utils.LogError(err, "GetPlanDistribution: Error from statsService.PlanDistribution")
		respondReportError(c, err, "Failed to build plan distribution report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPaymentMethods handles the payment-method usage report.
func (h *ReportHandler) GetPaymentMethods(c *gin.Context) {
	report, err := h.statsService.PaymentMethodStats()
	if err != nil {
		utils.LogError(err, "GetPaymentMethods: Error from statsService.PaymentMethodStats")
		respondReportError(c, err, "Failed to build payment method report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMembershipStatus handles the status distribution report.
func (h *ReportHandler) GetMembershipStatus(c *gin.Context) {
	report, err := h.statsService.MembershipStatusDistribution()
	if err != nil {
		utils.LogError(err, "GetMembershipStatus: Error from statsService.MembershipStatusDistribution")
		respondReportError(c, err, "Failed to build membership status report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAgeDistribution handles the age bracket report.
func (h *ReportHandler) GetAgeDistribution(c *gin.Context) {
	report, err := h.statsService.AgeDistribution()
	if err != nil {
		utils.LogError(err, "GetAgeDistribution: Error from statsService.AgeDistribution")
		respondReportError(c, err, "Failed to build age distribution report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetGenderDistribution handles the gender distribution report.
func (h *ReportHandler) GetGenderDistribution(c *gin.Context) {
	report, err := h.statsService.GenderDistribution()
	if err != nil {
		utils.LogError(err, "GetGenderDistribution: Error from statsService.GenderDistribution")
		respondReportError(c, err, "Failed to build gender distribution report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

func respondReportError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrInvalidPeriod) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown report period.", err.Error()))
	} else {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
