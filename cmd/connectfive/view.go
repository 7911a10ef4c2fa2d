package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connectfive-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/synchronizer"
	"github.com/rocketscienceinc/connectfive-backend/internal/turn"
)

// view is everything the terminal shows. It only changes through responses from the synchronizer,
// and never goes back to an older session version.
type view struct {
	player  *entity.Player
	session *entity.Session
	grid    entity.Grid
	state   turn.State
	status  string
	loaded  bool
}

func newView(player *entity.Player, session *entity.Session) *view {
	return &view{
		player:  player,
		session: session,
		grid:    entity.NewGrid(session.Rows, session.Columns),
		status:  "loading board...",
	}
}

func (that *view) apply(resp synchronizer.Response) {
	switch resp.Kind {
	case synchronizer.Failed:
		that.status = describeError(resp.Err)
		return
	case synchronizer.GameOver:
		that.state = resp.State
		that.status = that.gameOverText()
		return
	}

	if that.loaded && resp.Snapshot.Version < that.session.Version {
		return
	}

	grid, err := resp.Snapshot.Grid()
	if err != nil {
		that.status = describeError(err)
		return
	}

	that.session = resp.Snapshot
	that.grid = grid
	that.state = resp.State
	that.loaded = true

	switch that.state.Kind {
	case turn.WaitingForMe:
		that.status = fmt.Sprintf("your turn, press 1-%d", that.grid.Columns())
	case turn.WaitingForOpponent:
		that.status = "waiting for your opponent..."
	case turn.GameOver:
		that.status = that.gameOverText()
	}
}

// column - maps a key to a 1-based column, when a move is allowed.
func (that *view) column(ch rune) (int, bool) {
	if !that.loaded || that.state.Kind != turn.WaitingForMe {
		return 0, false
	}

	if ch < '1' || ch > '9' {
		return 0, false
	}

	column := int(ch - '0')
	if column > that.grid.Columns() {
		return 0, false
	}

	return column, true
}

func (that *view) gameOverText() string {
	switch {
	case that.state.IsDraw():
		return "game over: draw, press q to quit"
	case that.state.WinnerID == that.player.ID:
		return "game over: you won! press q to quit"
	default:
		return "game over: you lost, press q to quit"
	}
}

func (that *view) lines() []string {
	lines := []string{
		fmt.Sprintf("connect five | %s (%s) | session %s", that.player.Name, that.player.Color, that.session.ID),
		"",
	}

	for _, row := range that.grid {
		var builder strings.Builder
		for _, cell := range row {
			builder.WriteString(" ")
			if cell.IsEmpty() {
				builder.WriteByte('.')
				continue
			}
			builder.WriteByte(byte(cell))
		}
		lines = append(lines, builder.String())
	}

	var footer strings.Builder
	for column := range that.grid.Columns() {
		fmt.Fprintf(&footer, " %d", (column+1)%10)
	}

	return append(lines, footer.String(), "", that.status, "q/esc: quit")
}

func describeError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrColumnFull):
		return "this column is full, pick another one"
	case errors.Is(err, apperror.ErrInvalidColumn):
		return "there is no such column"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "it's not your turn"
	case errors.Is(err, apperror.ErrGameFinished):
		return "the game is already finished"
	case errors.Is(err, apperror.ErrTransport):
		return "server unreachable, retrying..."
	default:
		return "error: " + err.Error()
	}
}
