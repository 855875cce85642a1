package ws

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"birdroom/internal/rooms"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultWriteWait = 10 * time.Second
	defaultReadLimit = 64 << 20
)

// roomSubscriber is implemented by broadcasters that need to know which
// rooms have local members.
type roomSubscriber interface {
	Subscribe(roomID uint64)
	Unsubscribe(roomID uint64)
}

type Options struct {
	ReadLimit int64
	WriteWait time.Duration
}

type WsServer struct {
	ctx      context.Context
	upgrader websocket.Upgrader
	rooms    rooms.IRoomService
	fanout   Broadcaster
	opts     Options
	sessions sync.WaitGroup
}

// NewWsServer builds the websocket entry points. A nil fanout broadcasts
// in-process through svc. Sessions inherit ctx, not the request context.
func NewWsServer(ctx context.Context, svc rooms.IRoomService, fanout Broadcaster, opts Options) *WsServer {
	if fanout == nil {
		fanout = svc
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = defaultReadLimit
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaultWriteWait
	}
	return &WsServer{
		ctx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// No auth and no cookies: any origin may join.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		rooms:  svc,
		fanout: fanout,
		opts:   opts,
	}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-points
// ---------------------------------------------------------------------------

// HandleRoom serves GET /ws/room/:room_id/user/:user for the lifetime of
// the connection.
func (s *WsServer) HandleRoom(ginCtx *gin.Context) {
	roomID, err := strconv.ParseUint(ginCtx.Param("room_id"), 10, 64)
	if err != nil {
		ginCtx.JSON(http.StatusNotFound, ErrorResponse{Error: "room_id must be a non-negative integer"})
		return
	}
	user := rooms.NewUser(ginCtx.Param("user"))

	conn, ok := s.accept(ginCtx)
	if !ok {
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Done()

	if sub, ok := s.fanout.(roomSubscriber); ok {
		sub.Subscribe(roomID)
		defer sub.Unsubscribe(roomID)
	}

	NewSession(roomID, user, conn, s.rooms, s.fanout).Run(s.ctx)
}

// Drain blocks until every room session has returned or ctx is done.
// Sessions only return once their transport is closed, so callers detach
// the queues (Admin Reset) first.
func (s *WsServer) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandlePing serves GET /ws/ping.
func (s *WsServer) HandlePing(ginCtx *gin.Context) {
	conn, ok := s.accept(ginCtx)
	if !ok {
		return
	}
	defer conn.Close()

	playPingGame(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) accept(ginCtx *gin.Context) (*clientConn, bool) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		zap.L().Warn("ws.accept", zap.Error(err))
		return nil, false
	}
	rawConn.SetReadLimit(s.opts.ReadLimit)
	return newClientConn(rawConn, s.opts.WriteWait), true
}
