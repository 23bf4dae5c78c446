package controllers

import (
	"net/http"

	"easyhora-backend/repository"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextTenant = "tenant"

// TenantMiddleware binds the repositories of the token's salon to the request.
// It must run after the auth middleware.
func TenantMiddleware(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		salonID, err := uuid.Parse(c.GetString(utils.ContextSalonID))
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
			return
		}
		t := store.ForSalon(salonID)
		c.Set(contextTenant, t)
		c.Request = c.Request.WithContext(repository.WithTenant(c.Request.Context(), t))
		c.Next()
	}
}

func tenantFrom(c *gin.Context) (*repository.Tenant, bool) {
	if t, ok := repository.TenantFromContext(c.Request.Context()); ok {
		return t, true
	}
	utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
	return nil, false
}

func userIDFrom(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(utils.ContextUserID))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	return id, true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional id from a query or body value.
func optionalUUID(c *gin.Context, field string, value *string) (*uuid.UUID, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+field+" format")
		return nil, false
	}
	return &id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return false
	}
	return true
}
