package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LeadHandler holds the lead service.
type LeadHandler struct {
	leadService services.LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(ls services.LeadService) *LeadHandler {
	return &LeadHandler{leadService: ls}
}

// CreateLead handles the creation of a new lead.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req services.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateLead: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	lead, err := h.leadService.CreateLead(req)
	if err != nil {
		utils.LogError(err, "CreateLead: Error from leadService.CreateLead")
		if errors.Is(err, services.ErrLeadValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create lead.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// GetLeads handles fetching all leads.
func (h *LeadHandler) GetLeads(c *gin.Context) {
	leads, err := h.leadService.GetLeads()
	if err != nil {
		utils.LogError(err, "GetLeads: Error from leadService.GetLeads")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch leads.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, leads)
}

// DeleteLead handles deleting a lead.
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	idStr := c.Param("id")
	leadID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid lead ID format.", err.Error()))
		return
	}

	if err := h.leadService.DeleteLead(leadID); err != nil {
		utils.LogError(err, "DeleteLead: Error from leadService.DeleteLead for ID "+idStr)
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Lead not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete lead.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}
