package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pkosenkov/taskboard/internal/models"
	"github.com/pkosenkov/taskboard/internal/services"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

func (h *handlerImpl) HandleSignup(c *gin.Context) {
	var req signupRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind signup request")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	result, err := h.auth.Register(c, services.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			abort(c, newConflictError(msgRegistrationFailed))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		User:  newUserResponse(&result.User),
		Token: result.Token,
	})
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *handlerImpl) HandleSignin(c *gin.Context) {
	var req signinRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind signin request")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	result, err := h.auth.Login(c, services.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			abort(c, newUnauthorizedError(msgAuthenticationFailed))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, authResponse{
		User:  newUserResponse(&result.User),
		Token: result.Token,
	})
}

func (h *handlerImpl) HandleMe(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok || userID == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgAuthenticationFailed))
		return
	}

	user, err := h.auth.CurrentUser(c, userID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to load current user")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newUnauthorizedError(msgAuthenticationFailed))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleVerify(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok || userID == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgAuthenticationFailed))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"user_id": userID,
	})
}
