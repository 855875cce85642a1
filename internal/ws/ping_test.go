package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPingGame(t *testing.T) {
	conn := newFakeTransport()
	done := make(chan struct{})
	go func() {
		defer close(done)
		playPingGame(conn)
	}()

	t.Run("ping before serve is ignored", func(t *testing.T) {
		conn.send("ping")
		expectSilence(t, conn)
	})

	t.Run("serve then ping answers pong", func(t *testing.T) {
		conn.send("serve")
		conn.send("ping")
		select {
		case got := <-conn.writes:
			assert.Equal(t, "pong", string(got))
		case <-time.After(waitFor):
			t.Fatal("no pong")
		}
	})

	t.Run("unknown frames are ignored", func(t *testing.T) {
		conn.send("pong")
		conn.send(`{"message":"hi"}`)
		expectSilence(t, conn)
	})

	conn.hangUp()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("game did not end on hang up")
	}
}
