package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_State(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{"new session", *NewSession("1"), StatePlayerTurn},
		{"waiting", Session{Active: true, PlayerTurn: false}, StateWaitingForOpponent},
		{"player won", Session{Winner: PlayerX}, StateWon},
		{"opponent won", Session{Winner: PlayerO}, StateWon},
		{"draw", Session{Winner: PlayerTie}, StateDrawn},
		{"failed", Session{Failed: true}, StateErrorStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.State())
		})
	}
}

func TestSession_Reset(t *testing.T) {
	// Given: a finished session
	session := &Session{
		ID:     "abc",
		Board:  Board{x, x, x, o, o, e, e, e, e},
		Winner: PlayerX,
		Line:   []int{0, 1, 2},
	}

	// When: resetting it
	session.Reset()

	// Then: it is a fresh session with the same id
	assert.Equal(t, NewSession("abc"), session)
	assert.Equal(t, StatePlayerTurn, session.State())
}

func TestSession_CanPlay(t *testing.T) {
	session := NewSession("1")
	session.Board[4] = PlayerO

	assert.True(t, session.CanPlay(0))
	assert.False(t, session.CanPlay(4))
	assert.False(t, session.CanPlay(12))

	session.PlayerTurn = false
	assert.False(t, session.CanPlay(0))

	session.PlayerTurn = true
	session.Active = false
	assert.False(t, session.CanPlay(0))
}
