package synchronizer

import (
	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/rocketscienceinc/connectfive-backend/internal/turn"
)

// RequesterID identifies the mailbox a request's responses are delivered to.
type RequesterID string

type RequestKind int

const (
	InitializeBoard RequestKind = iota + 1
	MakeMove
)

func (that RequestKind) String() string {
	switch that {
	case InitializeBoard:
		return "InitializeBoard"
	case MakeMove:
		return "MakeMove"
	default:
		return "Unknown"
	}
}

type Request struct {
	Kind      RequestKind
	Requester RequesterID
	// Column is the 1-based column of a MakeMove request.
	Column int
}

type ResponseKind int

const (
	// DataFetched answers InitializeBoard.
	DataFetched ResponseKind = iota + 1
	// MoveApplied answers MakeMove.
	MoveApplied
	// SnapshotRefreshed is the result of a periodic refresh.
	SnapshotRefreshed
	// GameOver follows any of the above when the snapshot is terminal.
	GameOver
	Failed
)

func (that ResponseKind) String() string {
	switch that {
	case DataFetched:
		return "DataFetched"
	case MoveApplied:
		return "MoveApplied"
	case SnapshotRefreshed:
		return "SnapshotRefreshed"
	case GameOver:
		return "GameOver"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

type Response struct {
	Kind     ResponseKind
	Snapshot *entity.Session
	State    turn.State
	// WinnerID is set on GameOver, empty for a draw.
	WinnerID string
	Err      error
}
