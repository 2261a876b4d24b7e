package main

import (
	"ClubHub/club-system-backend/internal"
	"ClubHub/club-system-backend/internal/auth"
	"ClubHub/club-system-backend/internal/config"
	"ClubHub/club-system-backend/internal/cors"
	"ClubHub/club-system-backend/internal/group"
	"ClubHub/club-system-backend/internal/jwt"
	"ClubHub/club-system-backend/internal/leaderboard"
	"ClubHub/club-system-backend/internal/notification"
	"ClubHub/club-system-backend/internal/task"
	"ClubHub/club-system-backend/internal/trace"
	"ClubHub/club-system-backend/internal/user"
	"ClubHub/club-system-backend/internal/workflow"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "club-system-backend"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrDatabaseURLRequired) {
			title := "Database URL is required"
			message := "Please set the DATABASE_URL environment variable or provide a config file with the database_url key."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.Secret == config.DefaultSecret && !cfg.Debug {
		logger.Warn("Default secret detected in production environment, replace it with a secure random string")
		cfg.Secret = uuid.New().String()
	}

	logger.Info("Starting application...")

	logger.Info("Starting database migration...")

	err = databaseutil.MigrationUp(cfg.MigrationSource, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to run database migration", zap.Error(err))
	}

	dbPool, err := initDatabasePool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()

	// Service
	userService := user.NewService(logger, dbPool)
	jwtService := jwt.NewService(logger, dbPool, cfg.Secret, cfg.AccessTokenExpiration, cfg.RefreshTokenExpiration)
	groupService := group.NewService(logger, dbPool)
	notificationService := notification.NewService(logger, dbPool)
	taskService := task.NewService(logger, dbPool, notificationService)
	leaderboardService := leaderboard.NewService(logger, dbPool)

	// The workflow executor calls the task service in-process by default;
	// when a task service URL is configured, runs go through the HTTP
	// client and its circuit breaker instead.
	var taskCreator workflow.TaskCreator = taskService
	if cfg.TaskServiceURL != "" {
		logger.Info("Using remote task service for workflow runs", zap.String("url", cfg.TaskServiceURL))
		taskCreator = task.NewClient(logger, cfg.TaskServiceURL)
	}
	workflowService := workflow.NewService(logger, workflow.NewManager(), groupService, taskCreator)

	// Handler
	authHandler := auth.NewHandler(logger, validator, problemWriter, userService, jwtService, jwtService, cfg.BaseURL, cfg.AccessTokenExpiration, cfg.RefreshTokenExpiration, cfg.GoogleOauth)
	userHandler := user.NewHandler(logger, validator, problemWriter, userService)
	groupHandler := group.NewHandler(logger, validator, problemWriter, groupService)
	taskHandler := task.NewHandler(logger, validator, problemWriter, taskService)
	notificationHandler := notification.NewHandler(logger, problemWriter, notificationService)
	leaderboardHandler := leaderboard.NewHandler(logger, problemWriter, leaderboardService)
	workflowHandler := workflow.NewHandler(logger, validator, problemWriter, workflowService)

	// Middleware
	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, []string{cfg.BaseURL})
	jwtMiddleware := jwt.NewMiddleware(logger, validator, problemWriter, jwtService, userService)
	groupMiddleware := group.NewMiddleware(logger, problemWriter, groupService)

	// Basic Middleware (Tracing, Recovery and CORS)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleWare)
	basicMiddleware = basicMiddleware.Append(corsMiddleware.HandlerFunc)

	// Auth Middleware
	authMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	authMiddleware = authMiddleware.Append(traceMiddleware.TraceMiddleWare)
	authMiddleware = authMiddleware.Append(corsMiddleware.HandlerFunc)
	authMiddleware = authMiddleware.Append(jwtMiddleware.AuthenticateMiddleware)

	// Due-date reminders
	reminder := notification.NewReminder(logger, taskService, notificationService)
	if err := reminder.Start(); err != nil {
		logger.Fatal("Failed to start due-date reminder", zap.Error(err))
	}
	defer reminder.Stop()

	// HTTP Server
	mux := http.NewServeMux()

	// Health check route
	mux.HandleFunc("GET /api/healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// OAuth2 Authentication routes
	mux.HandleFunc("GET /api/auth/login/oauth/{provider}", basicMiddleware.HandlerFunc(authHandler.Oauth2Start))
	mux.HandleFunc("GET /api/auth/login/oauth/{provider}/callback", basicMiddleware.HandlerFunc(authHandler.Callback))

	// JWT refresh route
	mux.HandleFunc("POST /api/auth/refresh", basicMiddleware.HandlerFunc(authHandler.RefreshToken))

	mux.HandleFunc("GET /api/auth/logout", basicMiddleware.HandlerFunc(authHandler.Logout))
	mux.HandleFunc("POST /api/auth/logout", basicMiddleware.HandlerFunc(authHandler.Logout))

	if cfg.Debug {
		mux.HandleFunc("GET /api/auth/debug/token", basicMiddleware.HandlerFunc(authHandler.DebugToken))
	}

	// User authenticated routes
	mux.Handle("GET /api/users/me", authMiddleware.HandlerFunc(userHandler.GetMe))

	// Onboarding review routes (admin only, checked in the handler)
	mux.Handle("GET /api/onboarding/pending", authMiddleware.HandlerFunc(userHandler.ListPending))
	mux.Handle("POST /api/onboarding/{userId}/approve", authMiddleware.HandlerFunc(userHandler.Approve))
	mux.Handle("POST /api/onboarding/{userId}/reject", authMiddleware.HandlerFunc(userHandler.Reject))

	// Group routes
	mux.Handle("POST /api/groups", authMiddleware.HandlerFunc(groupHandler.Create))
	mux.Handle("GET /api/groups", authMiddleware.HandlerFunc(groupHandler.List))
	mux.Handle("GET /api/groups/administered", authMiddleware.HandlerFunc(groupHandler.ListAdministered))
	mux.Handle("GET /api/groups/{groupId}", authMiddleware.HandlerFunc(groupMiddleware.RequireMember(groupHandler.Get)))
	mux.Handle("PUT /api/groups/{groupId}", authMiddleware.HandlerFunc(groupMiddleware.RequireAdministrator(groupHandler.Update)))
	mux.Handle("DELETE /api/groups/{groupId}", authMiddleware.HandlerFunc(groupMiddleware.RequireAdministrator(groupHandler.Delete)))

	// Group member routes
	mux.Handle("GET /api/groups/{groupId}/members", authMiddleware.HandlerFunc(groupMiddleware.RequireMember(groupHandler.ListMembers)))
	mux.Handle("POST /api/groups/{groupId}/members", authMiddleware.HandlerFunc(groupMiddleware.RequireAdministrator(groupHandler.AddMember)))
	mux.Handle("DELETE /api/groups/{groupId}/members/{memberId}", authMiddleware.HandlerFunc(groupMiddleware.RequireAdministrator(groupHandler.RemoveMember)))
	mux.Handle("PUT /api/groups/{groupId}/members/{memberId}/role", authMiddleware.HandlerFunc(groupMiddleware.RequireAdministrator(groupHandler.UpdateMemberRole)))

	// Task routes
	mux.Handle("POST /api/groups/{groupId}/tasks", authMiddleware.HandlerFunc(groupMiddleware.RequireAdministrator(taskHandler.Create)))
	mux.Handle("GET /api/groups/{groupId}/tasks", authMiddleware.HandlerFunc(groupMiddleware.RequireMember(taskHandler.List)))
	mux.Handle("GET /api/groups/{groupId}/tasks/{taskId}", authMiddleware.HandlerFunc(groupMiddleware.RequireMember(taskHandler.Get)))
	mux.Handle("POST /api/groups/{groupId}/tasks/{taskId}/complete", authMiddleware.HandlerFunc(groupMiddleware.RequireMember(taskHandler.Complete)))

	// Leaderboard route
	mux.Handle("GET /api/groups/{groupId}/leaderboard", authMiddleware.HandlerFunc(groupMiddleware.RequireMember(leaderboardHandler.Get)))

	// Notification routes
	mux.Handle("GET /api/notifications", authMiddleware.HandlerFunc(notificationHandler.List))
	mux.Handle("POST /api/notifications/{notificationId}/read", authMiddleware.HandlerFunc(notificationHandler.MarkRead))

	// Workflow editor routes
	mux.Handle("POST /api/workflows/sessions", authMiddleware.HandlerFunc(workflowHandler.Open))
	mux.Handle("GET /api/workflows/sessions/{sessionId}", authMiddleware.HandlerFunc(workflowHandler.Get))
	mux.Handle("DELETE /api/workflows/sessions/{sessionId}", authMiddleware.HandlerFunc(workflowHandler.Close))
	mux.Handle("PUT /api/workflows/sessions/{sessionId}/group", authMiddleware.HandlerFunc(workflowHandler.SelectGroup))
	mux.Handle("POST /api/workflows/sessions/{sessionId}/nodes", authMiddleware.HandlerFunc(workflowHandler.AddNode))
	mux.Handle("PATCH /api/workflows/sessions/{sessionId}/nodes/{nodeId}", authMiddleware.HandlerFunc(workflowHandler.UpdateNode))
	mux.Handle("PUT /api/workflows/sessions/{sessionId}/nodes/{nodeId}/config", authMiddleware.HandlerFunc(workflowHandler.ConfigureNode))
	mux.Handle("DELETE /api/workflows/sessions/{sessionId}/nodes/{nodeId}", authMiddleware.HandlerFunc(workflowHandler.RemoveNode))
	mux.Handle("POST /api/workflows/sessions/{sessionId}/edges", authMiddleware.HandlerFunc(workflowHandler.Connect))
	mux.Handle("DELETE /api/workflows/sessions/{sessionId}/edges/{edgeId}", authMiddleware.HandlerFunc(workflowHandler.RemoveEdge))
	mux.Handle("POST /api/workflows/sessions/{sessionId}/run", authMiddleware.HandlerFunc(workflowHandler.Run))

	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initDatabasePool(databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	return dbPool, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("clubhub")
	serviceCommitHash := semconv.ServiceVersionKey.String(commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
