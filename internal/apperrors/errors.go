package apperrors

import "errors"

// Failure classes surfaced to the HTTP layer. Services wrap these with
// fmt.Errorf("...: %w", ...) so handlers can classify with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrUnverified   = errors.New("account not verified")
	ErrRateLimited  = errors.New("rate limited")
)

type classified struct {
	kind error
	msg  string
}

func (e *classified) Error() string { return e.msg }
func (e *classified) Unwrap() error { return e.kind }

// WithMessage attaches a caller-facing message to one of the sentinel
// classes above. errors.Is against the sentinel still matches.
func WithMessage(kind error, msg string) error {
	return &classified{kind: kind, msg: msg}
}
