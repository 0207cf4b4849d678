package tictactoe

import "github.com/rocketscienceinc/tictactoe-web/internal/entity"

const (
	TonePlayer   = "player"
	ToneThinking = "thinking"
	ToneWon      = "won"
	ToneLost     = "lost"
	ToneDraw     = "draw"
	ToneError    = "error"
)

const (
	StatusPlayerTurn = "Your turn (X)"
	StatusThinking   = "Machine is thinking..."
	StatusPlayerWon  = "You won!"
	StatusMachineWon = "Machine won!"
	StatusDraw       = "Draw!"
	StatusError      = "Error communicating with the server."
)

// View paints frames. Implementations must not call back into the Controller from Render.
type View interface {
	Render(frame Frame)
}

// Frame is a full snapshot of what the board should look like.
type Frame struct {
	Cells        []Cell `json:"cells"`
	Status       string `json:"status"`
	Tone         string `json:"tone"`
	InputEnabled bool   `json:"input_enabled"`
	Highlight    []int  `json:"highlight,omitempty"`
	Dimmed       bool   `json:"dimmed,omitempty"`
}

type Cell struct {
	Mark     string `json:"mark"`
	Playable bool   `json:"playable"`
}

// statusFor - derives status text and tone from a session, used when a session is restored.
func statusFor(session *entity.Session) (string, string) {
	switch session.State() {
	case entity.StateWaitingForOpponent:
		return StatusThinking, ToneThinking
	case entity.StateWon:
		if session.Winner == entity.PlayerX {
			return StatusPlayerWon, ToneWon
		}
		return StatusMachineWon, ToneLost
	case entity.StateDrawn:
		return StatusDraw, ToneDraw
	case entity.StateErrorStopped:
		return StatusError, ToneError
	default:
		return StatusPlayerTurn, TonePlayer
	}
}
