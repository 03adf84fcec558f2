package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

// CreateStaffMember handles the creation of a new staff member.
func (h *StaffHandler) CreateStaffMember(c *gin.Context) {
	var req services.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaffMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staff, err := h.staffService.CreateStaffMember(req)
	if err != nil {
		utils.LogError(err, "CreateStaffMember: Error from staffService.CreateStaffMember")
		if errors.Is(err, services.ErrStaffDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already in use.", err.Error()))
		} else if errors.Is(err, services.ErrStaffValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// GetStaffMembers handles fetching all staff members.
func (h *StaffHandler) GetStaffMembers(c *gin.Context) {
	staffMembers, err := h.staffService.GetStaffMembers()
	if err != nil {
		utils.LogError(err, "GetStaffMembers: Error from staffService.GetStaffMembers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staff members.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, staffMembers)
}

// UpdateStaffMember handles updating a staff member.
func (h *StaffHandler) UpdateStaffMember(c *gin.Context) {
	idStr := c.Param("id")
	staffID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff ID format.", err.Error()))
		return
	}

	var req services.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStaffMember: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staff, err := h.staffService.UpdateStaffMember(staffID, req)
	if err != nil {
		utils.LogError(err, "UpdateStaffMember: Error from staffService.UpdateStaffMember for ID "+idStr)
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
		} else if errors.Is(err, services.ErrStaffDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already in use.", err.Error()))
		} else if errors.Is(err, services.ErrStaffValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, staff)
}

// DeleteStaffMember handles deleting a staff member.
func (h *StaffHandler) DeleteStaffMember(c *gin.Context) {
	idStr := c.Param("id")
	staffID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid staff ID format.", err.Error()))
		return
	}

	if err := h.staffService.DeleteStaffMember(staffID); err != nil {
		utils.LogError(err, "DeleteStaffMember: Error from staffService.DeleteStaffMember for ID "+idStr)
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}
