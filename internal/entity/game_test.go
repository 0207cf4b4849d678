package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = PlayerX
	o = PlayerO
	e = EmptyCell
)

func TestNewBoard(t *testing.T) {
	// When: creating a new board
	board := NewBoard()

	// Then: every cell is empty
	assert.Equal(t, Board{e, e, e, e, e, e, e, e, e}, board)
	assert.False(t, board.IsFull())
}

func TestBoard_Result(t *testing.T) {
	t.Run("Every winning combination is detected for both marks", func(t *testing.T) {
		for _, mark := range []string{x, o} {
			for _, combo := range WinCombos {
				// Given: a board holding one full line
				board := NewBoard()
				for _, cell := range combo {
					board[cell] = mark
				}

				// When: determining the result
				winner, line := board.Result()

				// Then: the mark wins on that line
				assert.Equal(t, mark, winner)
				assert.Equal(t, combo[:], line)
			}
		}
	})

	t.Run("Returns PlayerTie when the board is full without a line", func(t *testing.T) {
		// Given: a full board with no winning line
		board := Board{x, o, x, o, x, o, o, x, o}

		// When: determining the result
		winner, line := board.Result()

		// Then: it is a draw
		assert.Equal(t, PlayerTie, winner)
		assert.Nil(t, line)
	})

	t.Run("Win is reported before draw on a full board", func(t *testing.T) {
		// Given: a full board where X completed the main diagonal
		board := Board{x, o, o, o, x, x, x, o, x}

		// When: determining the result
		winner, line := board.Result()

		// Then: X wins
		assert.Equal(t, x, winner)
		assert.Equal(t, []int{0, 4, 8}, line)
	})

	t.Run("Returns empty result while the game goes on", func(t *testing.T) {
		// Given: a board with moves but no line
		board := Board{x, o, e, e, x, e, e, e, o}

		// When: determining the result
		winner, line := board.Result()

		// Then: there is no result yet
		assert.Empty(t, winner)
		assert.Nil(t, line)
	})

	t.Run("Mixed marks on a line do not win", func(t *testing.T) {
		// Given: a top row of X, X, O
		board := Board{x, x, o, e, e, e, e, e, e}

		// When: determining the result
		winner, _ := board.Result()

		// Then: nobody wins
		assert.Empty(t, winner)
	})
}

func TestBoardFromCells(t *testing.T) {
	t.Run("Accepts nine known marks", func(t *testing.T) {
		board, err := BoardFromCells([]string{x, x, e, o, o, e, e, e, e})

		require.NoError(t, err)
		assert.Equal(t, Board{x, x, e, o, o, e, e, e, e}, board)
	})

	t.Run("Rejects wrong length", func(t *testing.T) {
		_, err := BoardFromCells([]string{x, o})

		assert.ErrorIs(t, err, ErrInvalidBoardSize)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		_, err := BoardFromCells([]string{x, "", e, e, e, e, e, e, e})

		assert.ErrorIs(t, err, ErrInvalidCellValue)
	})
}

func TestBoard_IsEmptyCell(t *testing.T) {
	board := Board{x, e, e, e, e, e, e, e, e}

	assert.False(t, board.IsEmptyCell(0))
	assert.True(t, board.IsEmptyCell(1))
	assert.False(t, board.IsEmptyCell(-1))
	assert.False(t, board.IsEmptyCell(9))
}
