package controllers

import (
	"net/http"
	"strings"

	"easyhora-backend/repository"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// UpdateSettingsInput changes only the fields that are present.
type UpdateSettingsInput struct {
	Name              *string            `json:"name"`
	Address           *string            `json:"address"`
	Phone             *string            `json:"phone"`
	LogoURL           *string            `json:"logo_url"`
	PublicSlug        *string            `json:"public_slug"`
	SMSReminders      *bool              `json:"sms_reminders"`
	WhatsAppReminders *bool              `json:"whatsapp_reminders"`
	OpeningHours      *datatypes.JSONMap `json:"opening_hours"`
}

// SettingsController manages the salon profile of the signed-in owner.
type SettingsController struct {
	store *repository.Store
}

func NewSettingsController(store *repository.Store) *SettingsController {
	return &SettingsController{store: store}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	salon, err := t.Settings.Get(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input UpdateSettingsInput
	if !bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Salon name must not be empty")
			return
		}
		updates["name"] = name
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*input.LogoURL)
	}
	if input.SMSReminders != nil {
		updates["sms_reminders"] = *input.SMSReminders
	}
	if input.WhatsAppReminders != nil {
		updates["whatsapp_reminders"] = *input.WhatsAppReminders
	}
	if input.OpeningHours != nil {
		updates["opening_hours"] = *input.OpeningHours
	}
	if input.PublicSlug != nil {
		slug := utils.Slugify(*input.PublicSlug)
		if slug == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid public link")
			return
		}
		current, err := t.Settings.Get(ctx)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		if slug != current.PublicSlug {
			taken, err := sc.store.SlugTaken(ctx, slug)
			if err != nil {
				utils.RespondWithAppError(c, err)
				return
			}
			if taken {
				utils.RespondWithError(c, http.StatusConflict, "Public link already in use")
				return
			}
			updates["public_slug"] = slug
		}
	}

	salon, err := t.Settings.Update(ctx, updates)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, salon)
}
