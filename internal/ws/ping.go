package ws

import "go.uber.org/zap"

type gameState int

const (
	gameConnected gameState = iota
	gameStarted
)

// playPingGame answers "ping" with "pong" once the client has sent "serve".
// Everything else is ignored. It returns when the transport fails.
func playPingGame(conn Transport) {
	state := gameConnected
	for {
		frame, err := conn.ReadText()
		if err != nil {
			if !isExpectedCloseError(err) {
				zap.L().Debug("ws.ping_read", zap.Error(err))
			}
			return
		}

		switch string(frame) {
		case "serve":
			state = gameStarted
		case "ping":
			if state != gameStarted {
				continue
			}
			if err := conn.WriteText([]byte("pong")); err != nil {
				zap.L().Debug("ws.ping_write", zap.Error(err))
				return
			}
		}
	}
}
