package services

import (
	"errors"
	"fmt"
)

var (
	// Validation errors
	ErrMissingUsername       = errors.New("missing 'username' input")
	ErrFailoverEmailRequired = errors.New("failover name provided without failover email")
	ErrUnknownWriter         = errors.New("unknown git config writer")

	// Lookup errors
	ErrNoFailoverEmail = errors.New("API failed and no failover email provided")
)

// ValidationError reports invalid invocation options. Nothing has been called when it is returned.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid options: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LookupFailure reports a failed user lookup. Status is the HTTP status code, or 0
// when no response was received.
type LookupFailure struct {
	Username string
	Status   int
	Message  string
	Err      error
}

func (e *LookupFailure) Error() string {
	return fmt.Sprintf("failed to fetch user %q: %d: %s", e.Username, e.Status, e.Message)
}

func (e *LookupFailure) Unwrap() error {
	return e.Err
}

// MutationFailure reports a rejected git config write
type MutationFailure struct {
	Key string
	Err error
}

func (e *MutationFailure) Error() string {
	return fmt.Sprintf("failed to set git config %s: %v", e.Key, e.Err)
}

func (e *MutationFailure) Unwrap() error {
	return e.Err
}
