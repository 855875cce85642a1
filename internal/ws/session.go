package ws

import (
	"context"
	"errors"
	"sync/atomic"

	"birdroom/internal/metrics"
	"birdroom/internal/rooms"

	"go.uber.org/zap"
)

// State is a room session's position in its lifecycle. Sessions move
// strictly forward: Joining, Active, Leaving, Closed.
type State int32

const (
	StateJoining State = iota
	StateActive
	StateLeaving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	case StateLeaving:
		return "leaving"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Broadcaster delivers an accepted message to a room.
type Broadcaster interface {
	Broadcast(ctx context.Context, roomID uint64, msg rooms.Message) error
}

// Session drives one client's membership of one room.
type Session struct {
	roomID uint64
	user   rooms.User
	conn   Transport
	rooms  rooms.IRoomService
	fanout Broadcaster
	state  atomic.Int32
}

// NewSession prepares a session. A nil fanout broadcasts through svc.
func NewSession(roomID uint64, user rooms.User, conn Transport, svc rooms.IRoomService, fanout Broadcaster) *Session {
	if fanout == nil {
		fanout = svc
	}
	return &Session{
		roomID: roomID,
		user:   user,
		conn:   conn,
		rooms:  svc,
		fanout: fanout,
	}
}

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) { s.state.Store(int32(st)) }

// Run joins the room, pumps frames until the transport closes, then leaves.
// It returns once the forwarding loop has finished and the transport is
// closed.
func (s *Session) Run(ctx context.Context) {
	log := zap.L().With(zap.Uint64("room", s.roomID), zap.String("user", s.user.Name))

	q := s.rooms.Join(s.roomID, s.user)
	s.setState(StateActive)
	metrics.SessionsActive.Inc()
	log.Debug("ws.session_joined")

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		s.forward(ctx, q, log)
	}()

	s.receive(ctx, log)

	s.setState(StateLeaving)
	metrics.SessionsActive.Dec()
	s.rooms.Leave(s.roomID, s.user, q)

	<-forwarded
	if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
		log.Debug("ws.close", zap.Error(err))
	}
	s.setState(StateClosed)
	log.Debug("ws.session_closed")
}

// forward drains q onto the transport until q is closed and empty or a
// write fails. Every successful write counts as one view.
func (s *Session) forward(ctx context.Context, q *rooms.Queue, log *zap.Logger) {
	for {
		msg, ok := q.Pop(ctx)
		if !ok {
			break
		}
		frame, err := msg.Encode()
		if err != nil {
			log.Warn("ws.encode", zap.Error(err))
			continue
		}
		if err := s.conn.WriteText(frame); err != nil {
			if !isExpectedCloseError(err) {
				log.Debug("ws.write", zap.Error(err))
			}
			// unblock the receive loop
			_ = s.conn.Close()
			return
		}
		s.rooms.RecordView()
	}

	if err := s.conn.CloseOutbound(); err != nil && !isExpectedCloseError(err) {
		log.Debug("ws.close_outbound", zap.Error(err))
	}
}

// receive reads frames in order and broadcasts the ones that parse and fit.
// Bad frames are dropped without a reply.
func (s *Session) receive(ctx context.Context, log *zap.Logger) {
	for {
		frame, err := s.conn.ReadText()
		if err != nil {
			if !isExpectedCloseError(err) {
				log.Debug("ws.read", zap.Error(err))
			}
			return
		}

		msg, err := rooms.ParseMessage(s.user, frame)
		if err != nil {
			reason := metrics.DropMalformed
			if errors.Is(err, rooms.ErrMessageTooLong) {
				reason = metrics.DropTooLong
			}
			metrics.FramesDropped.WithLabelValues(reason).Inc()
			log.Debug("ws.frame_dropped", zap.String("reason", reason))
			continue
		}

		metrics.MessagesBroadcast.Inc()
		if err := s.fanout.Broadcast(ctx, s.roomID, msg); err != nil {
			log.Warn("ws.broadcast", zap.Error(err))
		}
	}
}
