package entity

const (
	StatePlayerTurn         = "player_turn"
	StateWaitingForOpponent = "waiting_for_opponent"
	StateWon                = "won"
	StateDrawn              = "drawn"
	StateErrorStopped       = "error_stopped"
)

// Session is the state of one game as seen by one browser.
type Session struct {
	ID         string `json:"id"`
	Board      Board  `json:"board"`
	Active     bool   `json:"active"`
	PlayerTurn bool   `json:"player_turn"`
	Winner     string `json:"winner,omitempty"`
	Line       []int  `json:"line,omitempty"`
	Failed     bool   `json:"failed,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:         id,
		Board:      NewBoard(),
		Active:     true,
		PlayerTurn: true,
	}
}

// Reset - recreates the session wholesale, keeping only its id.
func (that *Session) Reset() {
	*that = *NewSession(that.ID)
}

func (that *Session) State() string {
	switch {
	case that.Winner == PlayerX || that.Winner == PlayerO:
		return StateWon
	case that.Winner == PlayerTie:
		return StateDrawn
	case that.Failed:
		return StateErrorStopped
	case that.Active && that.PlayerTurn:
		return StatePlayerTurn
	case that.Active:
		return StateWaitingForOpponent
	default:
		return StateErrorStopped
	}
}

func (that *Session) IsWaiting() bool {
	return that.State() == StateWaitingForOpponent
}

// CanPlay - reports whether a click on cell would be accepted.
func (that *Session) CanPlay(cell int) bool {
	return that.Active && that.PlayerTurn && that.Board.IsEmptyCell(cell)
}

func (that *Session) Clone() *Session {
	clone := *that
	clone.Line = append([]int(nil), that.Line...)

	return &clone
}
