package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

const (
	actionCellClick = "cell:click"
	actionGameReset = "game:reset"
	actionGameFrame = "game:frame"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Cell  *int             `json:"cell,omitempty"`
	Frame *tictactoe.Frame `json:"frame,omitempty"`
	Error string           `json:"error,omitempty"`
}
