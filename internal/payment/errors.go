package payment

import "errors"

// Domain-level error values returned by payment processing.
var (
	ErrBadPayload  = errors.New("bad payment payload")
	ErrUserUnknown = errors.New("unknown user for payment")
)
