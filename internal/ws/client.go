package ws

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport is one persistent, bidirectional text-frame connection.
type Transport interface {
	// ReadText blocks for the next text frame; other frame types are skipped.
	ReadText() ([]byte, error)
	WriteText(data []byte) error
	// CloseOutbound tells the peer no more frames will be sent.
	CloseOutbound() error
	Close() error
}

type clientConn struct {
	rawConn   *websocket.Conn
	writeWait time.Duration
	mu        sync.Mutex
}

var _ Transport = (*clientConn)(nil)

func newClientConn(rawConn *websocket.Conn, writeWait time.Duration) *clientConn {
	return &clientConn{rawConn: rawConn, writeWait: writeWait}
}

func (c *clientConn) ReadText() ([]byte, error) {
	for {
		mt, data, err := c.rawConn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if mt == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *clientConn) WriteText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.rawConn.WriteMessage(websocket.TextMessage, data)
}

func (c *clientConn) CloseOutbound() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	return c.rawConn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeWait))
}

func (c *clientConn) Close() error {
	return c.rawConn.Close()
}

// isExpectedCloseError reports errors that are part of a normal teardown.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
