package controllers

import (
	"net/http"

	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateAppointmentInput struct {
	ClientID       *string `json:"client_id"`
	ClientName     string  `json:"client_name"`
	ServiceID      string  `json:"service_id" binding:"required"`
	ProfessionalID *string `json:"professional_id"`
	Date           string  `json:"date" binding:"required"`
	Time           string  `json:"time"`
	Notes          string  `json:"notes"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type BlockDateInput struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type AppointmentController struct {
	appointments *services.AppointmentService
}

func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// GetAppointments lists appointments with client, service and professional attached.
// Filters: date, from, to, professional_id, status.
func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}

	filter := repository.AppointmentFilter{
		Date: c.Query("date"),
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	for _, d := range []string{filter.Date, filter.From, filter.To} {
		if d == "" {
			continue
		}
		if err := utils.ValidateDate(d); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
	}
	if raw := c.Query("professional_id"); raw != "" {
		id, ok := optionalUUID(c, "professional_id", &raw)
		if !ok {
			return
		}
		filter.ProfessionalID = id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		if !status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = status
	}

	appointments, err := t.Appointments.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	appointment, err := t.Appointments.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input CreateAppointmentInput
	if !bindJSON(c, &input) {
		return
	}

	serviceID, ok := optionalUUID(c, "service_id", &input.ServiceID)
	if !ok {
		return
	}
	clientID, ok := optionalUUID(c, "client_id", input.ClientID)
	if !ok {
		return
	}
	professionalID, ok := optionalUUID(c, "professional_id", input.ProfessionalID)
	if !ok {
		return
	}

	appointment, err := ac.appointments.Create(c.Request.Context(), t, services.NewAppointment{
		ClientID:       clientID,
		ClientName:     input.ClientName,
		ServiceID:      *serviceID,
		ProfessionalID: professionalID,
		Date:           input.Date,
		Time:           input.Time,
		Notes:          input.Notes,
		Source:         services.SourceDashboard,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// UpdateStatus completes or cancels a scheduled appointment.
func (ac *AppointmentController) UpdateStatus(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if !bindJSON(c, &input) {
		return
	}

	appointment, err := ac.appointments.Transition(c.Request.Context(), t, id, models.AppointmentStatus(input.Status), input.Reason)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := t.Appointments.Delete(c.Request.Context(), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// GetSlots returns the free times of a professional on a date.
func (ac *AppointmentController) GetSlots(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	raw := c.Query("professional_id")
	if raw == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "professional_id is required")
		return
	}
	professionalID, ok := optionalUUID(c, "professional_id", &raw)
	if !ok {
		return
	}
	date := c.Query("date")

	slots, err := ac.appointments.Slots(c.Request.Context(), t, date, *professionalID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "professional_id": professionalID, "slots": slots})
}

func (ac *AppointmentController) GetBlockedDates(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	blocked, err := t.BlockedDates.List(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocked)
}

func (ac *AppointmentController) BlockDate(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input BlockDateInput
	if !bindJSON(c, &input) {
		return
	}
	blocked, err := ac.appointments.BlockDate(c.Request.Context(), t, input.Date, input.Reason)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blocked)
}
