package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Generic response messages. Every failure within one class uses the
// same body so a caller cannot learn anything from the difference:
// a missing token reads like an expired one, a task owned by someone
// else reads like a task that never existed.
const (
	msgInvalidRequestBody   = "invalid request body"
	msgAuthenticationFailed = "authentication failed"
	msgRegistrationFailed   = "registration failed"
	msgTaskNotFound         = "task not found"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}
