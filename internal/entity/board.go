package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
)

const (
	DefaultRows    = 6
	DefaultColumns = 9
)

// Cell is a single board position. EmptyCell marks a free position, any other value is a piece color.
type Cell byte

const EmptyCell Cell = '-'

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

// Grid is a board of cells, row 0 is the top row.
type Grid [][]Cell

// NewGrid - creates an empty grid of the given dimensions.
func NewGrid(rows, columns int) Grid {
	grid := make(Grid, rows)
	for r := range grid {
		row := make([]Cell, columns)
		for c := range row {
			row[c] = EmptyCell
		}
		grid[r] = row
	}

	return grid
}

func (that Grid) Rows() int {
	return len(that)
}

func (that Grid) Columns() int {
	if len(that) == 0 {
		return 0
	}

	return len(that[0])
}

// Clone - returns a deep copy of the grid.
func (that Grid) Clone() Grid {
	clone := make(Grid, len(that))
	for r, row := range that {
		clone[r] = append([]Cell(nil), row...)
	}

	return clone
}

// DecodeBoard - builds a grid from its row-major linear encoding.
func DecodeBoard(text string, rows, columns int) (Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", apperror.ErrMalformedBoard, rows, columns)
	}

	if len(text) != rows*columns {
		return nil, fmt.Errorf("%w: length %d, expected %d", apperror.ErrMalformedBoard, len(text), rows*columns)
	}

	grid := make(Grid, rows)
	for r := range grid {
		row := make([]Cell, columns)
		for c := range row {
			row[c] = Cell(text[r*columns+c])
		}
		grid[r] = row
	}

	return grid, nil
}

// EncodeBoard - flattens a grid into its row-major linear encoding.
func EncodeBoard(grid Grid) string {
	var builder strings.Builder
	builder.Grow(grid.Rows() * grid.Columns())

	for _, row := range grid {
		for _, cell := range row {
			builder.WriteByte(byte(cell))
		}
	}

	return builder.String()
}

// NewEmptyBoard - returns the encoding of an empty board.
func NewEmptyBoard(rows, columns int) string {
	return strings.Repeat(string(EmptyCell), rows*columns)
}
