package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"birdroom/internal/http/roomhandler"
	"birdroom/internal/metrics"
	"birdroom/internal/rooms"
	"birdroom/internal/ws"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type httpServer struct {
	listenPort      uint16
	shutdownTimeout time.Duration
	srv             *http.Server
	ctx             context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, shutdownTimeout time.Duration, wsSrv *ws.WsServer, roomService rooms.IRoomService) *httpServer {
	return &httpServer{
		listenPort:      listenPort,
		shutdownTimeout: shutdownTimeout,
		srv: &http.Server{
			Handler:           NewRouter(wsSrv, roomService),
			ReadHeaderTimeout: 10 * time.Second,
		},
		ctx: ctx,
	}
}

// NewRouter builds the gin engine with every route the service exposes.
func NewRouter(wsSrv *ws.WsServer, roomService rooms.IRoomService) *gin.Engine {
	routerEngine := gin.New()

	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	routerEngine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello, world!") })
	routerEngine.GET("/metrics", gin.WrapH(metrics.Handler()))

	// websocket endpoints
	routerEngine.GET("/ws/ping", wsSrv.HandlePing)
	routerEngine.GET("/ws/room/:room_id/user/:user", wsSrv.HandleRoom)

	// REST API
	rh := roomhandler.New(roomService)
	rh.Register(routerEngine)

	return routerEngine
}

// Start blocks serving HTTP until Dispose is called or the listener fails.
func (h *httpServer) Start() error {
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	zap.L().Info("http_listening", zap.String("addr", listenAddr))

	if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to shutdownTimeout for in-flight requests to finish. Hijacked
// websocket connections are not covered; the caller resets the rooms for
// those.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), h.shutdownTimeout)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}
	return nil
}
