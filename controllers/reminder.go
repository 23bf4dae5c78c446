package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"easyhora-backend/models"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateReminderTemplateInput struct {
	Type    string `json:"type" binding:"required,oneof=appointment_reminder"`
	Message string `json:"message" binding:"required"`
}

type UpdateReminderTemplateInput struct {
	Message  *string `json:"message"`
	IsActive *bool   `json:"is_active"`
}

type ReminderController struct {
	reminders *services.ReminderService
}

func NewReminderController(reminders *services.ReminderService) *ReminderController {
	return &ReminderController{reminders: reminders}
}

func (rc *ReminderController) GetReminderTemplates(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	templates, err := t.Reminders.Templates(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateReminderTemplate adds a template when the salon has no active one of that type.
func (rc *ReminderController) CreateReminderTemplate(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input CreateReminderTemplateInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()

	existing, err := t.Reminders.ActiveTemplate(ctx, input.Type)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if existing != nil {
		utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
		return
	}

	template := models.ReminderTemplate{
		Type:     input.Type,
		Message:  strings.TrimSpace(input.Message),
		IsActive: true,
	}
	if err := t.Reminders.CreateTemplate(ctx, &template); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateReminderTemplateInput
	if !bindJSON(c, &input) {
		return
	}

	template, err := t.Reminders.GetTemplate(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Message must not be empty")
			return
		}
		template.Message = message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := t.Reminders.SaveTemplate(c.Request.Context(), template); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// GetReminderLogs returns the latest deliveries, newest first. ?limit= caps the list.
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := t.Reminders.Logs(c.Request.Context(), limit)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// SendReminders runs tomorrow's reminders for the signed-in salon right away.
func (rc *ReminderController) SendReminders(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	salon, err := t.Settings.Get(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	run, err := rc.reminders.ProcessSalonReminders(c.Request.Context(), *salon)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// RunAllReminders is the admin trigger for the daily job.
func (rc *ReminderController) RunAllReminders(c *gin.Context) {
	c.JSON(http.StatusOK, rc.reminders.SendDailyReminders(c.Request.Context()))
}
