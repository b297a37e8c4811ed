package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	httphandlers "taskdeck/internal/handlers/http"
	"taskdeck/internal/infrastructure/integrations"
	"taskdeck/internal/infrastructure/middleware"
	"taskdeck/internal/infrastructure/monitoring"
	"taskdeck/internal/infrastructure/realtime"
	repositories "taskdeck/internal/infrastructure/repositories"
	"taskdeck/internal/infrastructure/storage"
	"taskdeck/pkg/config"
	"taskdeck/pkg/logger"
	"taskdeck/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// accessGuard builds the membership/role guard used by project-scoped routes.
func accessGuard(authService services.AuthService, log *zap.SugaredLogger) httphandlers.AccessGuard {
	return func(allowed ...domain.Role) gin.HandlerFunc {
		return middleware.ProjectAccessMiddleware(authService, log, allowed...)
	}
}

func main() {
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/taskdeck/config.yaml",
		"config.yaml",
	}
	if fromEnv := os.Getenv("TASKDECK_CONFIG"); fromEnv != "" {
		configPaths = append([]string{fromEnv}, configPaths...)
	}

	var cfg *config.Config
	var err error
	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	// Tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Repositories
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}

	projectRepo := repoFactory.CreateProjectRepository()
	boardRepo := repoFactory.CreateBoardRepository()
	taskRepo := repoFactory.CreateTaskRepository()
	commentRepo := repoFactory.CreateCommentRepository()
	subtaskRepo := repoFactory.CreateSubtaskRepository()
	userRepo := repoFactory.CreateUserRepository()
	notificationRepo := repoFactory.CreateNotificationRepository()

	// Monitoring
	collector := monitoring.NewPrometheusCollector()
	checker := monitoring.NewHealthChecker()
	if client := repoFactory.RedisClient(); client != nil {
		checker.AddRedisCheck(client, 2*time.Second)
	}
	checker.AddRepositoryCheck(projectRepo, 2*time.Second)

	// Outbound collaborators
	mailer := integrations.NewSMTPMailer(cfg)
	webhook := integrations.NewSlackWebhook(cfg, log)
	fileStore, err := storage.NewLocalFileStore(cfg.Uploads.Dir, cfg.Uploads.ServePrefix)
	if err != nil {
		log.Fatalw("failed to initialize file store", "error", err)
	}

	// Realtime hub
	hub := realtime.NewHub(collector, log)

	// Services
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
		projectRepo,
	)
	userService := services.NewUserService(userRepo, authService)
	projectService := services.NewProjectService(projectRepo, boardRepo, taskRepo, hub)
	boardService := services.NewBoardService(boardRepo, projectRepo, hub)
	taskService := services.NewTaskService(taskRepo, boardRepo, userRepo, notificationRepo, hub, mailer, webhook, log)
	detailsService := services.NewTaskDetailsService(taskRepo, commentRepo, subtaskRepo, fileStore, hub, log)
	notificationService := services.NewNotificationService(notificationRepo)

	wsServer := realtime.NewServer(hub, authService, cfg, log)

	// Router
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.RequestLoggerMiddleware(logger.NewContextLogger(zapLogger)))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	})

	authenticate := middleware.AuthMiddleware(authService)

	httphandlers.NewAuthHandler(userService).SetupRoutes(router)
	httphandlers.NewProjectHandler(projectService).SetupRoutes(router, authenticate, accessGuard(authService, log))
	httphandlers.NewBoardHandler(boardService, authService, log).SetupRoutes(router, authenticate, accessGuard(authService, log))
	httphandlers.NewTaskHandler(taskService, authService, log).SetupRoutes(router, authenticate, accessGuard(authService, log))
	httphandlers.NewTaskDetailsHandler(detailsService, cfg.Uploads.MaxSizeMB).SetupRoutes(router, authenticate)
	httphandlers.NewNotificationHandler(notificationService).SetupRoutes(router, authenticate)
	httphandlers.NewHealthHandler(checker).SetupRoutes(router)

	router.GET("/ws", func(c *gin.Context) {
		wsServer.HandleWebSocket(c.Writer, c.Request)
	})

	router.Static(cfg.Uploads.ServePrefix, cfg.Uploads.Dir)

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("starting taskdeck server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("received shutdown signal", "signal", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("error force closing server", "error", closeErr)
		}
	} else {
		log.Info("server shutdown gracefully")
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error shutting down tracer", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("error closing repository factory", "error", err)
	}

	log.Info("taskdeck server stopped")
}
