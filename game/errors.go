package game

import "errors"

var (
	ErrGameNotFound    = errors.New("game-not-found")
	ErrWrongPassword   = errors.New("wrong-password")
	ErrBanned          = errors.New("banned")
	ErrGameFull        = errors.New("game-full")
	ErrAlreadyRunning  = errors.New("game-already-running")
	ErrForbidden       = errors.New("not-game-master")
	ErrNotEnrolled     = errors.New("not-enrolled")
	ErrWrongPhase      = errors.New("wrong-phase")
	ErrInvalidTarget   = errors.New("invalid-target")
	ErrPlayersNotReady = errors.New("players-not-ready")
)

// Master chat command parsing errors.
var (
	ErrUnknownCommand = errors.New("unknown-command")
	ErrMissingTarget  = errors.New("missing-target")
)
