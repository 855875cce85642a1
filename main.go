package main

import (
	"birdroom/internal/config"
	"birdroom/internal/http/http_server"
	"birdroom/internal/redis/redis_client"
	"birdroom/internal/rooms"
	"birdroom/internal/ws"
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func newLogger() *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if os.Getenv("APP_ENV") == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	logger := newLogger()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Rooms: registry + view counter
	roomService := rooms.NewRoomService()

	// 4. Optional cross-instance relay
	var fanout ws.Broadcaster
	if cfg.RedisRelayEnabled {
		redisClient, err := redis_client.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort)
		if err != nil {
			logger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()

		relay := ws.NewRedisFanout(redisClient, cfg.RedisChannelPrefix, roomService)
		defer relay.Close()
		fanout = relay
		logger.Info("Redis relay enabled", zap.String("prefix", cfg.RedisChannelPrefix))
	}

	// 5. Websocket entry points
	wsSrv := ws.NewWsServer(ctx, roomService, fanout, ws.Options{
		ReadLimit: cfg.WsReadLimit,
		WriteWait: cfg.WsWriteWait,
	})

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, cfg.ShutdownTimeout, wsSrv, roomService)

	served := make(chan error, 1)
	go func() { served <- httpServer.Start() }()

	select {
	case err := <-served:
		if err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		_ = httpServer.Dispose()
		// Websocket sessions are hijacked and outlive Shutdown; detaching
		// every queue makes their forwarding loops send a close frame.
		roomService.Reset()

		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := wsSrv.Drain(drainCtx); err != nil {
			logger.Warn("Websocket sessions still open at exit", zap.Error(err))
		}
	}
}
