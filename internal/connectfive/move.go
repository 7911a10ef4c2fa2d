package connectfive

import (
	"fmt"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
)

// ApplyMove - drops a piece of the given color into a 1-based column and returns the resulting grid.
// The input grid is never modified.
func ApplyMove(grid entity.Grid, column int, color entity.Cell) (entity.Grid, error) {
	col := column - 1

	if err := validateColumn(grid, col); err != nil {
		return nil, err
	}

	row := landingRow(grid, col)
	if row < 0 {
		return nil, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	next := grid.Clone()
	next[row][col] = color

	return next, nil
}

// validateColumn - checks that a 0-based column index exists on the grid.
func validateColumn(grid entity.Grid, col int) error {
	if col < 0 || col >= grid.Columns() {
		return fmt.Errorf("%w: %d, max column is %d", apperror.ErrInvalidColumn, col+1, grid.Columns())
	}

	return nil
}

// landingRow - returns the highest row index holding an empty cell in the column, or -1 when the column is full.
func landingRow(grid entity.Grid, col int) int {
	for row := grid.Rows() - 1; row >= 0; row-- {
		if grid[row][col].IsEmpty() {
			return row
		}
	}

	return -1
}
