package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-mud/internal/config"
	"github.com/KirkDiggler/rpg-mud/internal/game"
	"github.com/KirkDiggler/rpg-mud/internal/handlers/admin"
	"github.com/KirkDiggler/rpg-mud/internal/redis"
	"github.com/KirkDiggler/rpg-mud/internal/repositories/characters"
)

var grpcPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game loop and the admin gRPC server",
	Long:  `Load bundles, build the world and run the game loop with the admin gRPC service.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if grpcPort != 0 {
		cfg.GRPCPort = grpcPort
	}
	setupLogger(cfg.Log)
	config.Load(cfg.Game)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	redisClient, err := redis.NewClient(cfg.Redis.Endpoint, &redis.Options{
		PoolSize: cfg.Redis.PoolSize,
		UseTLS:   cfg.Redis.UseTLS,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() {
		_ = redisClient.Close() // nolint:errcheck // safe to ignore on shutdown
	}()
	if err := redis.Ping(ctx, redisClient); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	players, err := characters.NewRedis(&characters.RedisConfig{Client: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create player repository: %w", err)
	}

	state, err := loadWorld(ctx, cfg, players)
	if err != nil {
		return err
	}
	if err := state.BuildWorld(ctx); err != nil {
		return fmt.Errorf("failed to build world: %w", err)
	}

	loop, err := game.NewLoop(&game.LoopConfig{State: state, Interval: cfg.TickInterval})
	if err != nil {
		return fmt.Errorf("failed to create game loop: %w", err)
	}

	worldHandler, err := admin.NewWorldHandler(&admin.WorldHandlerConfig{
		Game:    loop,
		Players: players,
	})
	if err != nil {
		return fmt.Errorf("failed to create world handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	admin.RegisterWorldServiceServer(srv, worldHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(admin.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 2)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			errChan <- fmt.Errorf("game loop stopped: %w", err)
		}
	}()

	go func() {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errChan:
		cancel()
	}

	slog.Info("shutting down gRPC server")
	healthServer.Shutdown()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("server stopped gracefully")
	}

	<-loopDone
	if err := state.PlayerManager.SaveAll(shutdownCtx); err != nil {
		slog.Error("failed to save players on shutdown", "error", err.Error())
	}
	return runErr
}
