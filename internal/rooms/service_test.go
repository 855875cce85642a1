package rooms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomServiceViews(t *testing.T) {
	svc := NewRoomService()
	assert.Equal(t, uint64(0), svc.Views())

	svc.RecordView()
	svc.RecordView()
	assert.Equal(t, uint64(2), svc.Views())
}

func TestRoomServiceBroadcast(t *testing.T) {
	svc := NewRoomService()
	alice, bob := NewUser("alice"), NewUser("bob")
	qa := svc.Join(5, alice)
	qb := svc.Join(5, bob)

	msg, ok := alice.EnterMessage(RawMessage{Message: "hi"})
	require.True(t, ok)
	require.NoError(t, svc.Broadcast(context.Background(), 5, msg))

	assert.Equal(t, []Message{msg}, drain(qb))
	// sender hears its own echo
	assert.Equal(t, []Message{msg}, drain(qa))

	assert.NoError(t, svc.Broadcast(context.Background(), 404, msg))
}

func TestRoomServiceReset(t *testing.T) {
	svc := NewRoomService()
	dora := NewUser("dora")
	q := svc.Join(2, dora)
	svc.RecordView()

	svc.Reset()
	assert.Equal(t, uint64(0), svc.Views())
	assert.Equal(t, 0, svc.Occupants(2))
	assert.True(t, q.Closed())

	t.Run("idempotent", func(t *testing.T) {
		svc.Reset()
		assert.Equal(t, uint64(0), svc.Views())
		assert.Equal(t, 0, svc.Occupants(2))
	})

	t.Run("rejoined room does not reach the cleared member", func(t *testing.T) {
		carl := NewUser("carl")
		qc := svc.Join(2, carl)
		msg, _ := carl.EnterMessage(RawMessage{Message: "anyone?"})
		require.NoError(t, svc.Broadcast(context.Background(), 2, msg))

		assert.Empty(t, drain(q))
		assert.Len(t, drain(qc), 1)
	})

	// stale leave after reset is harmless
	svc.Leave(2, dora, q)
}
