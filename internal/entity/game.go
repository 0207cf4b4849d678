package entity

import (
	"errors"
	"fmt"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = " "

	BoardSize = 9
)

var (
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidCellValue = errors.New("invalid cell value")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the 3x3 grid in row-major order.
type Board [BoardSize]string

func NewBoard() Board {
	var board Board
	for i := range board {
		board[i] = EmptyCell
	}

	return board
}

// BoardFromCells - converts wire cells to a Board, rejecting anything but 9 known marks.
func BoardFromCells(cells []string) (Board, error) {
	var board Board

	if len(cells) != BoardSize {
		return board, fmt.Errorf("%w: got %d cells", ErrInvalidBoardSize, len(cells))
	}

	copy(board[:], cells)

	if err := board.Validate(); err != nil {
		return Board{}, err
	}

	return board, nil
}

func (that Board) Cells() []string {
	return append([]string(nil), that[:]...)
}

func (that Board) Validate() error {
	for i, cell := range that {
		switch cell {
		case EmptyCell, PlayerX, PlayerO:
		default:
			return fmt.Errorf("%w: cell %d is %q", ErrInvalidCellValue, i, cell)
		}
	}

	return nil
}

func (that Board) IsEmptyCell(cell int) bool {
	return cell >= 0 && cell < BoardSize && that[cell] == EmptyCell
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Result - returns the winner and its line, PlayerTie for a full board, or "" while the game goes on.
func (that Board) Result() (string, []int) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a, []int{combo[0], combo[1], combo[2]}
		}
	}

	// a winning line on a full board is still a win
	if that.IsFull() {
		return PlayerTie, nil
	}

	return "", nil
}
