package controllers

import (
	"net/http"
	"strings"

	"easyhora-backend/models"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateClientInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type UpdateClientInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

type ClientController struct{}

// CreateClient adds a client to the salon. Two clients may not share a phone number.
func (cc *ClientController) CreateClient(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if !bindJSON(c, &input) {
		return
	}
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	client := models.Client{
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		PhoneKey: utils.NormalizePhone(input.Phone),
		Email:    strings.TrimSpace(input.Email),
		Notes:    input.Notes,
	}
	if err := t.Clients.Create(c.Request.Context(), &client); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (cc *ClientController) GetClients(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	clients, err := t.Clients.List(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	// q matches a name fragment or phone digits
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		digits := utils.NormalizePhone(q)
		filtered := make([]models.Client, 0, len(clients))
		for _, cl := range clients {
			byName := strings.Contains(strings.ToLower(cl.Name), q)
			byPhone := digits != "" && strings.Contains(cl.PhoneKey, digits)
			if byName || byPhone {
				filtered = append(filtered, cl)
			}
		}
		clients = filtered
	}
	c.JSON(http.StatusOK, clients)
}

func (cc *ClientController) GetClient(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	client, err := t.Clients.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (cc *ClientController) UpdateClient(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateClientInput
	if !bindJSON(c, &input) {
		return
	}

	client, err := t.Clients.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = strings.TrimSpace(*input.Phone)
		client.PhoneKey = utils.NormalizePhone(*input.Phone)
	}
	if input.Email != nil {
		client.Email = strings.TrimSpace(*input.Email)
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}

	if err := t.Clients.Save(c.Request.Context(), client); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (cc *ClientController) DeleteClient(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := t.Clients.Delete(c.Request.Context(), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
