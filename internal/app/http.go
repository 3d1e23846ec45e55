package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/pkosenkov/taskboard/internal/auth"
	"github.com/pkosenkov/taskboard/internal/config"
	"github.com/pkosenkov/taskboard/internal/delivery/http/v1"
	"github.com/pkosenkov/taskboard/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	// The token service is built once here and handed to everything
	// that needs it. A signing key shorter than 32 characters is a
	// deployment mistake and aborts startup.
	tokens, err := auth.NewTokenService(jwtCfg.Issuer, jwtCfg.SigningKey, jwtCfg.TokenTTL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create token service")
		panic(err)
	}

	authService := services.NewAuthService(globalLogger, globalPostgresPool, tokens)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	v1Handler := v1.New(globalLogger, tokens, authService, taskService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authRouter := api.Group("/auth")
	authRouter.POST("/signup", v1Handler.HandleSignup)
	authRouter.POST("/signin", v1Handler.HandleSignin)
	authRouter.GET("/me", v1Handler.HandleAuthMiddleware, v1Handler.HandleMe)
	authRouter.GET("/verify", v1Handler.HandleAuthMiddleware, v1Handler.HandleVerify)

	taskRouter := api.Group("/:user_id/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.GET("", v1Handler.HandleListTasks)
	taskRouter.GET("/:id", v1Handler.HandleGetTask)
	taskRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
	taskRouter.PATCH("/:id/complete", v1Handler.HandleToggleComplete)
}
