package turn

import "github.com/rocketscienceinc/connectfive-backend/internal/entity"

type Kind int

const (
	WaitingForMe Kind = iota
	WaitingForOpponent
	GameOver
)

func (that Kind) String() string {
	switch that {
	case WaitingForMe:
		return "waiting_for_me"
	case WaitingForOpponent:
		return "waiting_for_opponent"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// State is the local player's view of a session. WinnerID is only set for GameOver, and is empty on a draw.
type State struct {
	Kind     Kind
	WinnerID string
}

func (that State) IsOver() bool {
	return that.Kind == GameOver
}

func (that State) IsDraw() bool {
	return that.Kind == GameOver && that.WinnerID == ""
}

// Derive - computes the state from a snapshot and the local player id alone.
// It keeps no history, so any snapshot, however stale, yields the state that snapshot implies.
func Derive(session *entity.Session, myID string) State {
	switch {
	case session.Winner:
		return State{Kind: GameOver, WinnerID: session.LastMoverID}
	case session.Ended:
		return State{Kind: GameOver}
	case session.HasLastMover() && session.LastMoverID == myID:
		return State{Kind: WaitingForOpponent}
	default:
		return State{Kind: WaitingForMe}
	}
}
