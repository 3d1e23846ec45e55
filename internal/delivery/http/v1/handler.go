package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pkosenkov/taskboard/internal/auth"
	"github.com/pkosenkov/taskboard/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleSignup(c *gin.Context)
	HandleSignin(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleVerify(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleToggleComplete(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	tokens *auth.TokenService
	auth   services.AuthService
	tasks  services.TaskService
}

func New(
	logger zerolog.Logger,
	tokens *auth.TokenService,
	authService services.AuthService,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger: logger,
		tokens: tokens,
		auth:   authService,
		tasks:  taskService,
	}
}
