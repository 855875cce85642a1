package rooms

import (
	"context"

	"birdroom/internal/metrics"

	"go.uber.org/zap"
)

type IRoomService interface {
	Join(roomID uint64, user User) *Queue
	Leave(roomID uint64, user User, q *Queue)
	Broadcast(ctx context.Context, roomID uint64, msg Message) error
	RecordView()
	Views() uint64
	Reset()
	Occupants(roomID uint64) int
}

type roomService struct {
	registry *Registry
	views    ViewCounter
}

var _ IRoomService = (*roomService)(nil)

func NewRoomService() IRoomService {
	return &roomService{registry: NewRegistry()}
}

func (svc *roomService) Join(roomID uint64, user User) *Queue {
	q, displaced := svc.registry.Join(roomID, user)
	if displaced {
		zap.L().Info("rooms.user_displaced",
			zap.Uint64("room", roomID),
			zap.String("user", user.Name),
		)
	}
	return q
}

func (svc *roomService) Leave(roomID uint64, user User, q *Queue) {
	if !svc.registry.Leave(roomID, user, q) {
		zap.L().Debug("rooms.leave_stale",
			zap.Uint64("room", roomID),
			zap.String("user", user.Name),
		)
	}
}

// Broadcast fans msg out to roomID. Delivery failures are absorbed; the
// returned error is always nil for the in-process registry.
func (svc *roomService) Broadcast(_ context.Context, roomID uint64, msg Message) error {
	d := svc.registry.Broadcast(roomID, msg)
	if d.Failed > 0 {
		metrics.DeliveryFailures.Add(float64(d.Failed))
		zap.L().Debug("rooms.delivery_failed",
			zap.Uint64("room", roomID),
			zap.Int("failed", d.Failed),
		)
	}
	return nil
}

func (svc *roomService) RecordView() {
	svc.views.Inc()
	metrics.Deliveries.Inc()
}

func (svc *roomService) Views() uint64 { return svc.views.Load() }

// Reset empties the registry and zeroes the view counter under one write
// lock. Detached forwarding loops drain and close on their own.
func (svc *roomService) Reset() {
	n := svc.registry.Clear(svc.views.Reset)
	metrics.Resets.Inc()
	zap.L().Info("rooms.reset", zap.Int("rooms_cleared", n))
}

func (svc *roomService) Occupants(roomID uint64) int {
	return svc.registry.Occupants(roomID)
}
