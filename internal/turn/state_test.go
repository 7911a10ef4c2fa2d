package turn

import (
	"testing"

	"github.com/rocketscienceinc/connectfive-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	const me, opponent = "me", "opponent"

	tests := []struct {
		name     string
		session  *entity.Session
		expected State
	}{
		{
			name:     "No move yet means it is my turn",
			session:  &entity.Session{},
			expected: State{Kind: WaitingForMe},
		},
		{
			name:     "I moved last so I wait for the opponent",
			session:  &entity.Session{LastMoverID: me},
			expected: State{Kind: WaitingForOpponent},
		},
		{
			name:     "Opponent moved last so it is my turn",
			session:  &entity.Session{LastMoverID: opponent},
			expected: State{Kind: WaitingForMe},
		},
		{
			name:     "Winner flag ends the game with the last mover as winner",
			session:  &entity.Session{LastMoverID: opponent, Winner: true, Ended: true},
			expected: State{Kind: GameOver, WinnerID: opponent},
		},
		{
			name:     "My winning move ends the game with me as winner",
			session:  &entity.Session{LastMoverID: me, Winner: true, Ended: true},
			expected: State{Kind: GameOver, WinnerID: me},
		},
		{
			name:     "Ended without winner is a draw",
			session:  &entity.Session{LastMoverID: me, Ended: true},
			expected: State{Kind: GameOver},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: deriving the state
			state := Derive(tt.session, me)

			// Then: it should match the turn table
			assert.Equal(t, tt.expected, state)
		})
	}
}

func TestDerive_EmptyLocalID(t *testing.T) {
	// Given: no mover and an unknown local id
	session := &entity.Session{}

	// When: deriving with an empty id
	state := Derive(session, "")

	// Then: an absent last mover never matches
	assert.Equal(t, State{Kind: WaitingForMe}, state)
}

func TestDerive_Idempotent(t *testing.T) {
	// Given: one snapshot
	session := &entity.Session{LastMoverID: "me"}

	// When: deriving twice
	first := Derive(session, "me")
	second := Derive(session, "me")

	// Then: both results should be the same
	assert.Equal(t, first, second)
	assert.Equal(t, &entity.Session{LastMoverID: "me"}, session)
}

func TestState_Helpers(t *testing.T) {
	assert.True(t, State{Kind: GameOver}.IsDraw())
	assert.False(t, State{Kind: GameOver, WinnerID: "a"}.IsDraw())
	assert.True(t, State{Kind: GameOver, WinnerID: "a"}.IsOver())
	assert.False(t, State{Kind: WaitingForMe}.IsOver())
	assert.Equal(t, "waiting_for_opponent", WaitingForOpponent.String())
}
