package controllers

import (
	"net/http"

	"easyhora-backend/models"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth          *services.AuthService
	tokens        *utils.TokenManager
	secureCookies bool
}

func NewAuthController(auth *services.AuthService, tokens *utils.TokenManager, secureCookies bool) *AuthController {
	return &AuthController{auth: auth, tokens: tokens, secureCookies: secureCookies}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	ac.setCookie(c, session.Token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   session.Token,
		"user":    userPayload(session.User, session.Salon),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	ac.setCookie(c, session.Token)
	c.JSON(http.StatusOK, gin.H{
		"token": session.Token,
		"user":  userPayload(session.User, session.Salon),
	})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		return
	}

	user, salon, err := ac.auth.Me(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(user, salon)})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(utils.TokenCookie, "", -1, "/", "", ac.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) setCookie(c *gin.Context, token string) {
	maxAge := int(ac.tokens.Expiry().Seconds())
	c.SetCookie(utils.TokenCookie, token, maxAge, "/", "", ac.secureCookies, true)
}

func userPayload(user *models.User, salon *models.Salon) gin.H {
	return gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"plan":      user.Plan,
		"trialEnd":  user.TrialEnd,
		"salonId":   salon.ID,
		"salonName": salon.Name,
		"salonSlug": salon.PublicSlug,
	}
}
