package models

import "errors"

// Sentinel errors for the failure modes the application recovers from
// or reports to the caller. Layers wrap these with fmt.Errorf and %w;
// handlers match them with errors.Is.
var (
	// ErrDuplicateUser signals a registration colliding with an
	// existing username or email.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrInvalidCredential signals a failed login. The concrete
	// reason travels in a CredentialError wrapping this sentinel.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrAccessDenied signals an authorization gate rejection.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound signals a lookup of a record that does not exist.
	ErrNotFound = errors.New("not found")
)

// CredentialError carries the user-facing reason for a failed login
// while still matching ErrInvalidCredential under errors.Is.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string { return e.Reason }

func (e *CredentialError) Unwrap() error { return ErrInvalidCredential }
