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

	"github.com/avoran/taskmate/internal/ai"
	"github.com/avoran/taskmate/internal/config"
	v1 "github.com/avoran/taskmate/internal/delivery/http/v1"
	"github.com/avoran/taskmate/internal/services"
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
	openAICfg := config.Global().OpenAI
	aiClient := ai.NewClient(
		openAICfg.BaseURL,
		openAICfg.APIKey,
		openAICfg.Model,
		ai.WithLogger(globalLogger),
	)

	taskService := services.NewTaskService(
		globalLogger,
		globalPostgresPool,
		ai.NewExtractor(aiClient, globalLogger),
		ai.NewSummarizer(aiClient, globalLogger),
	)
	v1Handler := v1.New(globalLogger, taskService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	tasksRouter := router.Group("/api/v1/tasks")
	tasksRouter.Use(v1Handler.HandleRequestIDMiddleware)
	tasksRouter.GET("/", v1Handler.HandleListTasks)
	tasksRouter.POST("/", v1Handler.HandleCreateTask)
	tasksRouter.GET("/labels/", v1Handler.HandleListLabels)
	tasksRouter.POST("/summary", v1Handler.HandleSummarizeTasks)
	tasksRouter.GET("/:id", v1Handler.HandleGetTask)
	tasksRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
}
