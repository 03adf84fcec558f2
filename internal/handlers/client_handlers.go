package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client-facing services.
type ClientHandler struct {
	clientService       services.ClientService
	subscriptionService services.SubscriptionService
	statsService        services.StatsService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService, ss services.SubscriptionService, sts services.StatsService) *ClientHandler {
	return &ClientHandler{clientService: cs, subscriptionService: ss, statsService: sts}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(req)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		if errors.Is(err, services.ErrInvalidPlan) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Referenced plan does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrClientValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles fetching all clients with derived membership fields.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.GetClients()
	if err != nil {
		utils.LogError(err, "GetClients: Error from clientService.GetClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch clients.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, clients)
}

// FilterClients handles fetching clients matching a membership status filter.
func (h *ClientHandler) FilterClients(c *gin.Context) {
	status := c.DefaultQuery("status", "all")

	clients, err := h.clientService.FilterClients(status)
	if err != nil {
		utils.LogError(err, "FilterClients: Error from clientService.FilterClients")
		if errors.Is(err, services.ErrInvalidStatusFilter) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown status filter.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to filter clients.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, clients)
}

// BirthdaysToday handles fetching clients whose birthday is today.
func (h *ClientHandler) BirthdaysToday(c *gin.Context) {
	clients, err := h.statsService.BirthdaysToday()
	if err != nil {
		utils.LogError(err, "BirthdaysToday: Error from statsService.BirthdaysToday")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch birthdays.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles updating a client's demographic details.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(clientID, req)
	if err != nil {
		utils.LogError(err, "UpdateClient: Error from clientService.UpdateClient for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else if errors.Is(err, services.ErrClientValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client and, via cascade, their payments.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	if err := h.clientService.DeleteClient(clientID); err != nil {
		utils.LogError(err, "DeleteClient: Error from clientService.DeleteClient for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// RenewSubscription handles replacing a client's subscription window.
func (h *ClientHandler) RenewSubscription(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	var req services.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RenewSubscription: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.subscriptionService.Renew(clientID, req)
	if err != nil {
		utils.LogError(err, "RenewSubscription: Error from subscriptionService.Renew for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidPlan) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Referenced plan does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidDate) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid start date: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to renew subscription.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}
