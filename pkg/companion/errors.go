package companion

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers a missing account, a missing session, and a session
	// owned by another account. The last two are deliberately indistinguishable
	// so callers cannot probe for other users' session ids.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned for banned accounts.
	ErrForbidden = errors.New("account is banned")

	// ErrInvalidInput is returned for empty or oversized text and titles.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a concurrent credit update won the race.
	// Callers may retry the whole operation; no credit was spent.
	ErrConflict = errors.New("credit balance changed concurrently")
)

// InsufficientCreditsError carries the current balance so the caller can show it.
type InsufficientCreditsError struct {
	Balance int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits (balance: %d)", e.Balance)
}

// GenerationError wraps a Generation Service failure. The credit spent for the
// attempt is not refunded.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
