package service

import "errors"

// Error kinds. Match with errors.Is; the handler layer maps each to a status code.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

// Error carries a caller-safe message plus the kind and optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }
func conflict(msg string) error   { return &Error{Kind: ErrConflict, Message: msg} }
func authFailed(msg string) error { return &Error{Kind: ErrAuth, Message: msg} }
func notFound(msg string) error   { return &Error{Kind: ErrNotFound, Message: msg} }

// storage hides err from clients; the message never leaves the server.
func storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

// PublicMessage returns the text safe to show a client for err.
func PublicMessage(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Kind != ErrStorage {
		return se.Message
	}
	return "Internal server error"
}
