package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

// client is one browser connection; it is the View of the session's controller.
type client struct {
	logger     *slog.Logger
	conn       *websocket.Conn
	controller *tictactoe.Controller

	// gorilla connections support one concurrent writer
	writeMu sync.Mutex
}

func newClient(logger *slog.Logger, conn *websocket.Conn) *client {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &client{
		logger: logger,
		conn:   conn,
	}
}

func (that *client) Render(frame tictactoe.Frame) {
	that.send(actionGameFrame, Payload{Frame: &frame})
}

func (that *client) sendError(message string) {
	that.send(actionError, Payload{Error: message})
}

func (that *client) send(action string, payload Payload) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = that.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		that.logger.Debug("failed to write message", "action", action, "error", err)
	}
}

// keepAlive - pings the browser until the returned stop func is called.
func (that *client) keepAlive() func() {
	ticker := time.NewTicker(pingPeriod)
	stop := make(chan struct{})

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	return func() { close(stop) }
}

func (that *client) Close() {
	if err := that.conn.Close(); err != nil {
		that.logger.Debug("failed to close connection", "error", err)
	}
}
