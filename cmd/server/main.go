package main

import (
	"context"
	"dm-chat/api"
	"dm-chat/auth"
	"dm-chat/grpc/server"
	"dm-chat/inspect"
	"dm-chat/internal"
	"dm-chat/observability"
	"dm-chat/repositories"
	"dm-chat/runtime/workers"
	"dm-chat/services"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a transport failure.
// Deferred cleanups run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Store (BadgerDB)
	store, err := repositories.Open(repositories.StoreConfig{
		Path:    config.BadgerFilepath,
		Timeout: config.StoreTimeout,
	}, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		if err := store.Close(); err != nil {
			logger.Error("BadgerDB close failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(store.DB(), config.DebugPort, endpoint, inspect.DebugMapper)
	}

	// 3. Repositories & Services
	userRepository := repositories.NewUserRepository(store)
	chatRepository := repositories.NewChatRepository(store, logger)
	messageRepository := repositories.NewMessageRepository(store, logger, config.LimitMessages)

	tokens := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	gate := auth.NewGate(tokens, userRepository)
	authService := services.NewAuthService(userRepository, tokens, logger)
	conversationService := services.NewConversationService(logger, gate,
		userRepository, chatRepository, messageRepository, config.MaxContentLength)

	// 4. Background workers
	monitoring := observability.NewMonitoringManager(logger, config.MetricInterval)
	sup := workers.NewSupervisor(logger).
		Add(monitoring, workers.NewStoreGCWorker(logger, store, config.GCInterval, config.GCDiscardRatio))
	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()
	errChan := make(chan error, 2)

	// 5. gRPC Server
	grpcListener, err := net.Listen("tcp", config.GRPCAddress())
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.GRPCAddress(), err)
	}
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			auth.UnaryInterceptor(logger),
		))
	server.RegisterAuthServiceServer(s, server.NewAuthServer(authService))
	server.RegisterConversationServiceServer(s, server.NewConversationServer(conversationService))

	go func() {
		logger.Info("Starting gRPC server", "address", config.GRPCAddress(), "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. HTTP Server
	handler := api.NewHandler(logger, gate, authService, conversationService, store, monitoring)
	httpServer := &http.Server{
		Addr:              config.HTTPAddress(),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", "address", config.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 8. Graceful Shutdown
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.Stop()
	}
	sup.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")
	return code, runErr
}
