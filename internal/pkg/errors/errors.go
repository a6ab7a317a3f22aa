package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")

	// Share link lifecycle.
	ErrLinkNotLive = errors.New("link revoked or expired")

	// OTP handshake.
	ErrEmailNotAllowed    = errors.New("email not allowed")
	ErrNoPendingChallenge = errors.New("no pending challenge")
	ErrChallengeExpired   = errors.New("challenge expired")
	ErrAttemptsExhausted  = errors.New("attempts exhausted")
	ErrInvalidCode        = errors.New("invalid code")
	ErrDeliveryFailed     = errors.New("delivery failed")

	// Access tokens.
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsOTPFailure reports whether err is one of the verify sub-cases that
// must be surfaced to the viewer as a single generic answer.
func IsOTPFailure(err error) bool {
	return errors.Is(err, ErrNoPendingChallenge) ||
		errors.Is(err, ErrChallengeExpired) ||
		errors.Is(err, ErrAttemptsExhausted) ||
		errors.Is(err, ErrInvalidCode)
}
