package game

import "errors"

// Game errors
var (
	// ErrInvalidAction marks a precondition violation: wrong phase, wrong
	// owner, missing adjacency, or an army-count minimum. Recoverable; the
	// engine re-queries the policy or forfeits the phase.
	ErrInvalidAction = errors.New("invalid action")

	// ErrMalformedPolicy marks a structurally invalid policy response,
	// such as negative armies or a non-existent territory. Fatal for that
	// policy's player.
	ErrMalformedPolicy = errors.New("malformed policy response")

	// ErrMapIntegrity marks an internally inconsistent map definition.
	// Only possible at construction time.
	ErrMapIntegrity = errors.New("map integrity violation")

	// ErrGameOver is returned for actions attempted after the game ended.
	ErrGameOver = errors.New("game is over")
)
