package brackets

import "errors"

var (
	// ErrInsufficientParticipants is returned when a format's knockout layer
	// cannot be built from the available entrants. Nothing is generated.
	ErrInsufficientParticipants = errors.New("not enough participants for this bracket")
	ErrUnknownFormat            = errors.New("unknown tournament format")
	ErrInvalidPlan              = errors.New("invalid bracket plan")
)
