package controllers

import (
	"net/http"
	"strings"

	"easyhora-backend/models"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ServiceInput is shared by create and update. Price is a decimal string or number.
type ServiceInput struct {
	Name            string          `json:"name" binding:"required"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Description     string          `json:"description"`
}

type ProfessionalInput struct {
	Name         string `json:"name" binding:"required"`
	Specialty    string `json:"specialty"`
	Availability string `json:"availability"`
}

type CatalogController struct{}

func (cc *CatalogController) CreateService(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}

	service := models.Service{
		Name:            strings.TrimSpace(input.Name),
		Price:           input.Price.Round(2),
		DurationMinutes: input.DurationMinutes,
		Description:     input.Description,
	}
	if err := t.Services.Create(c.Request.Context(), &service); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (cc *CatalogController) GetServices(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	services, err := t.Services.List(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (cc *CatalogController) GetService(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	service, err := t.Services.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (cc *CatalogController) UpdateService(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}

	service, err := t.Services.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	service.Name = strings.TrimSpace(input.Name)
	service.Price = input.Price.Round(2)
	service.DurationMinutes = input.DurationMinutes
	service.Description = input.Description

	if err := t.Services.Save(c.Request.Context(), service); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (cc *CatalogController) DeleteService(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := t.Services.Delete(c.Request.Context(), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

func (cc *CatalogController) CreateProfessional(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input ProfessionalInput
	if !bindJSON(c, &input) {
		return
	}
	p := models.Professional{
		Name:         strings.TrimSpace(input.Name),
		Specialty:    input.Specialty,
		Availability: input.Availability,
	}
	if err := t.Professionals.Create(c.Request.Context(), &p); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (cc *CatalogController) GetProfessionals(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	professionals, err := t.Professionals.List(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, professionals)
}

func (cc *CatalogController) GetProfessional(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := t.Professionals.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (cc *CatalogController) UpdateProfessional(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input ProfessionalInput
	if !bindJSON(c, &input) {
		return
	}

	p, err := t.Professionals.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	p.Name = strings.TrimSpace(input.Name)
	p.Specialty = input.Specialty
	p.Availability = input.Availability

	if err := t.Professionals.Save(c.Request.Context(), p); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (cc *CatalogController) DeleteProfessional(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := t.Professionals.Delete(c.Request.Context(), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Professional deleted successfully"})
}
