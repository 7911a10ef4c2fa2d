package apperror

import "errors"

var (
	ErrMalformedBoard  = errors.New("malformed board")
	ErrInvalidColumn   = errors.New("there is no column with this number")
	ErrColumnFull      = errors.New("this column is full")
	ErrPersistence     = errors.New("could not persist game state")
	ErrTransport       = errors.New("could not reach game server")
	ErrNotFound        = errors.New("not found")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrGameFinished    = errors.New("game is already finished")
	ErrSessionFull     = errors.New("session already has two players")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrVersionConflict = errors.New("session was modified concurrently")
)
