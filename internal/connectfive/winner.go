package connectfive

import "github.com/rocketscienceinc/connectfive-backend/internal/entity"

// WinLength is the number of consecutive pieces of one color that wins the game.
const WinLength = 5

// IsWinner - reports whether any line of the grid holds a winning run.
func IsWinner(grid entity.Grid) bool {
	_, ok := Winner(grid)
	return ok
}

// Winner - returns the color of the first winning run found in rows, columns, left and right diagonals.
func Winner(grid entity.Grid) (entity.Cell, bool) {
	if grid.Rows() == 0 || grid.Columns() == 0 {
		return entity.EmptyCell, false
	}

	families := [][][]entity.Cell{
		grid,
		columns(grid),
		diagonalsLeft(grid),
		diagonalsRight(grid),
	}

	for _, lines := range families {
		for _, line := range lines {
			if color, ok := winningRun(line, WinLength); ok {
				return color, true
			}
		}
	}

	return entity.EmptyCell, false
}

// IsFull - reports whether no empty cell is left on the grid.
func IsFull(grid entity.Grid) bool {
	for _, row := range grid {
		for _, cell := range row {
			if cell.IsEmpty() {
				return false
			}
		}
	}

	return true
}

// winningRun - run-length scans a line for a non-empty run of at least length cells.
func winningRun(line []entity.Cell, length int) (entity.Cell, bool) {
	run := 0
	for i, cell := range line {
		if i > 0 && cell == line[i-1] {
			run++
		} else {
			run = 1
		}

		if !cell.IsEmpty() && run >= length {
			return cell, true
		}
	}

	return entity.EmptyCell, false
}

// columns - transposes the grid, cols[c][r] = grid[r][c].
func columns(grid entity.Grid) [][]entity.Cell {
	h, w := grid.Rows(), grid.Columns()

	cols := make([][]entity.Cell, w)
	for c := range cols {
		cols[c] = make([]entity.Cell, h)
		for r := range h {
			cols[c][r] = grid[r][c]
		}
	}

	return cols
}

// diagonalsLeft - diagonals running down and to the right, from the bottom left corner to the top right one.
func diagonalsLeft(grid entity.Grid) [][]entity.Cell {
	h, w := grid.Rows(), grid.Columns()

	diags := make([][]entity.Cell, 0, h+w-1)
	for p := 0; p < h+w-1; p++ {
		lower, upper := diagonalBounds(p, h, w)

		diag := make([]entity.Cell, 0, upper-lower)
		for col := lower; col < upper; col++ {
			diag = append(diag, grid[h-p+col-1][col])
		}
		diags = append(diags, diag)
	}

	return diags
}

// diagonalsRight - diagonals running up and to the right, from the top left corner to the bottom right one.
func diagonalsRight(grid entity.Grid) [][]entity.Cell {
	h, w := grid.Rows(), grid.Columns()

	diags := make([][]entity.Cell, 0, h+w-1)
	for p := 0; p < h+w-1; p++ {
		lower, upper := diagonalBounds(p, h, w)

		diag := make([]entity.Cell, 0, upper-lower)
		for col := lower; col < upper; col++ {
			diag = append(diag, grid[p-col][col])
		}
		diags = append(diags, diag)
	}

	return diags
}

func diagonalBounds(p, h, w int) (int, int) {
	return max(0, p-h+1), min(p+1, w)
}
