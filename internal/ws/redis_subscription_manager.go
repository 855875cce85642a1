package ws

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// subscriptionManager guarantees that we have exactly one Redis
// subscription per room channel, no matter how many local sessions joined
// the same room.
type subscriptionManager struct {
	rdb     *redis.Client
	channel func(roomID uint64) string
	deliver func(ctx context.Context, payload string) error
	mu      sync.Mutex
	subs    map[uint64]*subEntry
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
	done   chan struct{}
}

func newSubscriptionManager(
	rdb *redis.Client,
	channel func(uint64) string,
	deliver func(context.Context, string) error,
) *subscriptionManager {
	return &subscriptionManager{
		rdb:     rdb,
		channel: channel,
		deliver: deliver,
		subs:    make(map[uint64]*subEntry),
	}
}

// Subscribe ensures the process listens on the room's channel; subsequent
// calls for the same room only increment the ref-counter.
func (sm *subscriptionManager) Subscribe(roomID uint64) {
	sm.mu.Lock()
	if e, ok := sm.subs[roomID]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ps := sm.rdb.Subscribe(ctx, sm.channel(roomID))

	e := &subEntry{refCnt: 1, cancel: cancel, done: make(chan struct{})}
	sm.subs[roomID] = e
	sm.mu.Unlock()

	go sm.pump(ctx, roomID, ps, e.done)
}

func (sm *subscriptionManager) pump(ctx context.Context, roomID uint64, ps *redis.PubSub, done chan struct{}) {
	defer close(done)
	defer ps.Close()

	// Single goroutine per channel keeps each publisher's order.
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ps.Channel():
			if !ok {
				return
			}
			if err := sm.deliver(ctx, m.Payload); err != nil {
				zap.L().Warn("ws.relay_deliver_failed",
					zap.Uint64("room", roomID),
					zap.Error(err),
				)
			}
		}
	}
}

// Unsubscribe decrements the ref-counter and tears the subscription down
// when the last local session leaves the room.
func (sm *subscriptionManager) Unsubscribe(roomID uint64) {
	sm.mu.Lock()
	e, ok := sm.subs[roomID]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, roomID)
	sm.mu.Unlock()

	e.cancel()
}

func (sm *subscriptionManager) closeAll() {
	sm.mu.Lock()
	entries := make([]*subEntry, 0, len(sm.subs))
	for id, e := range sm.subs {
		entries = append(entries, e)
		delete(sm.subs, id)
	}
	sm.mu.Unlock()

	for _, e := range entries {
		e.cancel()
		<-e.done
	}
}

func (sm *subscriptionManager) refCount(roomID uint64) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if e, ok := sm.subs[roomID]; ok {
		return e.refCnt
	}
	return 0
}
