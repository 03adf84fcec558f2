package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// RecordPayment handles recording a payment and returns the recomputed balance.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RecordPayment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	payment, balance, err := h.paymentService.RecordPayment(req)
	if err != nil {
		utils.LogError(err, "RecordPayment: Error from paymentService.RecordPayment")
		respondPaymentError(c, err, "Failed to record payment.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment, "balance": balance})
}

// GetPayments handles fetching payments, optionally filtered by client.
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	var clientID *int64
	if raw := c.Query("client_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client_id filter.", err.Error()))
			return
		}
		clientID = &id
	}

	payments, err := h.paymentService.GetPayments(clientID)
	if err != nil {
		utils.LogError(err, "GetPayments: Error from paymentService.GetPayments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payments.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, payments)
}

// UpdatePayment handles replacing a payment's fields atomically.
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	idStr := c.Param("id")
	paymentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment ID format.", err.Error()))
		return
	}

	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePayment: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	balance, err := h.paymentService.UpdatePayment(paymentID, req)
	if err != nil {
		utils.LogError(err, "UpdatePayment: Error from paymentService.UpdatePayment for ID "+idStr)
		respondPaymentError(c, err, "Failed to update payment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// DeletePayment handles deleting a payment and returns the owner's balance.
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	idStr := c.Param("id")
	paymentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment ID format.", err.Error()))
		return
	}

	balance, err := h.paymentService.DeletePayment(paymentID)
	if err != nil {
		utils.LogError(err, "DeletePayment: Error from paymentService.DeletePayment for ID "+idStr)
		respondPaymentError(c, err, "Failed to delete payment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully", "balance": balance})
}

// GetClientBalance handles fetching a client's reconciled balance.
func (h *PaymentHandler) GetClientBalance(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	balance, err := h.paymentService.BalanceFor(clientID)
	if err != nil {
		utils.LogError(err, "GetClientBalance: Error from paymentService.BalanceFor for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch balance.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, balance)
}

// respondPaymentError maps payment service errors onto API responses.
func respondPaymentError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrPaymentNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment not found.", err.Error()))
	} else if errors.Is(err, services.ErrClientNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
	} else if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidPaymentMethod) || errors.Is(err, services.ErrDateFormat) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	} else {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
