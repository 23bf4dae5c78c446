package utils

import (
	"net/http"

	"easyhora-backend/apperror"
	"easyhora-backend/logger"

	"github.com/gin-gonic/gin"
)

// RespondWithError aborts with a plain error message.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithAppError renders err using its code and status. Anything that is
// not an AppError is logged and reported as a 500.
func RespondWithAppError(c *gin.Context, err error) {
	appErr := apperror.AsAppError(err)
	if appErr == nil {
		logger.Error(c.Request.Context(), "unhandled error", "path", c.Request.URL.Path, "error", err)
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), appErr.Message, "path", c.Request.URL.Path, "code", appErr.Code, "error", appErr.Err)
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(apperror.GetHTTPStatus(appErr), body)
}
