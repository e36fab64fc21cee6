// internal/game/errors.go
package game

import "errors"

// Engine failure kinds. Handlers match these with errors.Is to pick a status
// code; repository faults (room.ErrConflict, room.ErrUnavailable) pass
// through untouched and stay retryable.
var (
	ErrRoomNotFound   = errors.New("game: room not found")
	ErrPlayerNotFound = errors.New("game: player not found")
	ErrNotAuthorized  = errors.New("game: not authorized")
	ErrInvalidState   = errors.New("game: operation not valid in current state")
	ErrValidation     = errors.New("game: invalid input")
)
