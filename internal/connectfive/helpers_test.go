package connectfive

import (
	"strings"
	"testing"

	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

// gridOf - builds a grid from one string per row.
func gridOf(t *testing.T, rows ...string) entity.Grid {
	t.Helper()

	grid, err := entity.DecodeBoard(strings.Join(rows, ""), len(rows), len(rows[0]))
	require.NoError(t, err)

	return grid
}

func linesOf(lines ...string) [][]entity.Cell {
	out := make([][]entity.Cell, 0, len(lines))
	for _, line := range lines {
		out = append(out, []entity.Cell(line))
	}

	return out
}
