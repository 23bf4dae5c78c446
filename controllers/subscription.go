package controllers

import (
	"net/http"

	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutInput struct {
	PriceID string `json:"price_id" binding:"required"`
}

type SubscriptionController struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionController(subscriptions *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptions: subscriptions}
}

// Checkout starts a hosted checkout for one of the configured plans.
func (sc *SubscriptionController) Checkout(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	var input CheckoutInput
	if !bindJSON(c, &input) {
		return
	}
	session, err := sc.subscriptions.Checkout(c.Request.Context(), userID, input.PriceID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": session.URL, "session_id": session.ID})
}

func (sc *SubscriptionController) Status(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}
	status, err := sc.subscriptions.Status(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SyncProfiles is the admin trigger for the profile sync.
func (sc *SubscriptionController) SyncProfiles(c *gin.Context) {
	res, err := sc.subscriptions.SyncProfiles(c.Request.Context())
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
