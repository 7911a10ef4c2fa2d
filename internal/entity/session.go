package entity

// Session is the authoritative snapshot of one game.
type Session struct {
	ID             string `json:"id"`
	Board          string `json:"board"`
	Rows           int    `json:"rows"`
	Columns        int    `json:"columns"`
	Player1ID      string `json:"user_1"`
	Player2ID      string `json:"user_2,omitempty"`
	LastMoverID    string `json:"last_user_id,omitempty"`
	LastMoverColor string `json:"last_user_color,omitempty"`
	Winner         bool   `json:"winner"`
	Ended          bool   `json:"ended"`
	Version        int64  `json:"version"`
}

func NewSession(id, playerID string, rows, columns int) *Session {
	return &Session{
		ID:        id,
		Board:     NewEmptyBoard(rows, columns),
		Rows:      rows,
		Columns:   columns,
		Player1ID: playerID,
	}
}

// Grid - decodes the session board.
func (that *Session) Grid() (Grid, error) {
	return DecodeBoard(that.Board, that.Rows, that.Columns)
}

func (that *Session) HasLastMover() bool {
	return that.LastMoverID != ""
}

func (that *Session) IsWaiting() bool {
	return that.Player2ID == ""
}

func (that *Session) HasPlayer(playerID string) bool {
	return playerID != "" && (that.Player1ID == playerID || that.Player2ID == playerID)
}

// Clone - returns a copy safe to mutate independently of the receiver.
func (that *Session) Clone() *Session {
	clone := *that
	return &clone
}
