package controllers

import (
	"net/http"

	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PublicController serves the unauthenticated booking page of a salon.
type PublicController struct {
	booking *services.BookingService
}

func NewPublicController(booking *services.BookingService) *PublicController {
	return &PublicController{booking: booking}
}

func (pc *PublicController) GetSalon(c *gin.Context) {
	salon, err := pc.booking.Salon(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (pc *PublicController) GetDates(c *gin.Context) {
	dates, err := pc.booking.Dates(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (pc *PublicController) GetSlots(c *gin.Context) {
	var professionalID uuid.UUID
	if raw := c.Query("professional_id"); raw != "" {
		id, ok := optionalUUID(c, "professional_id", &raw)
		if !ok {
			return
		}
		professionalID = *id
	}
	slots, err := pc.booking.Slots(c.Request.Context(), c.Param("slug"), c.Query("date"), professionalID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (pc *PublicController) Book(c *gin.Context) {
	var input services.PublicBooking
	if !bindJSON(c, &input) {
		return
	}
	appointment, err := pc.booking.Book(c.Request.Context(), c.Param("slug"), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment booked",
		"appointment": appointment,
	})
}
