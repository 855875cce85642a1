package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"birdroom/internal/metrics"
	"birdroom/internal/rooms"

	"github.com/redis/go-redis/v9"
)

var errRelayTooLong = errors.New("relay message too long")

// relayEnvelope is the Redis payload for one accepted message.
type relayEnvelope struct {
	Room    uint64 `json:"room"`
	User    string `json:"user"`
	Message string `json:"message"`
}

// RedisFanout relays accepted messages through Redis pub/sub so members of
// the same room id on every instance receive them. Local delivery happens
// when the message comes back from Redis, never directly.
type RedisFanout struct {
	rdb    *redis.Client
	prefix string
	rooms  rooms.IRoomService
	subMgr *subscriptionManager
}

var _ Broadcaster = (*RedisFanout)(nil)

func NewRedisFanout(rdb *redis.Client, prefix string, svc rooms.IRoomService) *RedisFanout {
	f := &RedisFanout{rdb: rdb, prefix: prefix, rooms: svc}
	f.subMgr = newSubscriptionManager(rdb, f.channel, f.deliver)
	return f
}

// Broadcast publishes msg on the room's channel.
func (f *RedisFanout) Broadcast(ctx context.Context, roomID uint64, msg rooms.Message) error {
	payload, err := json.Marshal(relayEnvelope{
		Room:    roomID,
		User:    msg.Name,
		Message: msg.Message,
	})
	if err != nil {
		return err
	}
	if err := f.rdb.Publish(ctx, f.channel(roomID), string(payload)).Err(); err != nil {
		metrics.RelayPublishFailures.Inc()
		return fmt.Errorf("relay publish room %d: %w", roomID, err)
	}
	return nil
}

// Subscribe makes this instance receive the room's relayed messages.
func (f *RedisFanout) Subscribe(roomID uint64) { f.subMgr.Subscribe(roomID) }

func (f *RedisFanout) Unsubscribe(roomID uint64) { f.subMgr.Unsubscribe(roomID) }

// Close tears down every open subscription.
func (f *RedisFanout) Close() { f.subMgr.closeAll() }

func (f *RedisFanout) channel(roomID uint64) string {
	return f.prefix + ":room:" + strconv.FormatUint(roomID, 10)
}

// deliver decodes one relayed payload and fans it out locally. The length
// rule is checked again since the payload crossed a process boundary.
func (f *RedisFanout) deliver(ctx context.Context, payload string) error {
	var env relayEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return err
	}
	msg, ok := rooms.NewUser(env.User).EnterMessage(rooms.RawMessage{Message: env.Message})
	if !ok {
		return errRelayTooLong
	}
	return f.rooms.Broadcast(ctx, env.Room, msg)
}
