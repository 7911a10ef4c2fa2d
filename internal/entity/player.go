package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
)

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"user_name"`
	Color string `json:"user_color"`
}

// Piece - returns the cell value this player's moves leave on the board.
func (that *Player) Piece() (Cell, error) {
	return ParseColor(that.Color)
}

// ParseColor - validates a color as a single printable ASCII character distinct from the empty cell.
func ParseColor(color string) (Cell, error) {
	if len(color) != 1 {
		return 0, fmt.Errorf("%w: color must be a single character, got %q", apperror.ErrInvalidArgument, color)
	}

	cell := Cell(color[0])
	if cell <= ' ' || cell > '~' || cell.IsEmpty() {
		return 0, fmt.Errorf("%w: color %q is not allowed", apperror.ErrInvalidArgument, color)
	}

	return cell, nil
}
