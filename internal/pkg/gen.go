package pkg

import "github.com/google/uuid"

// GenerateSessionID - generates a unique identifier for a game session.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GeneratePlayerID - generates a unique identifier for a registered player.
func GeneratePlayerID() string {
	return uuid.NewString()
}
