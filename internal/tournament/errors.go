package tournament

import "errors"

// Domain-level error values returned by tournament operations.
var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTournamentFull      = errors.New("tournament full")
	ErrAlreadyJoined       = errors.New("already joined this tournament")
	ErrParticipantNotFound = errors.New("participant not found")
)
