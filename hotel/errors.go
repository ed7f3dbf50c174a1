/*
errors.go - Centralized error types for the folio engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses.

ERROR CATEGORIES:
  1. Validation errors - Missing/invalid input, always recoverable
  2. State violations  - Operation not legal in the room's current status
  3. Store errors      - Persistence-level failures

There is no fatal category in this engine: every failure is an input
rejection raised before any mutation, never corruption. A rejected
operation leaves the room and the booking ledger unchanged.

USAGE:
  if errors.Is(err, hotel.ErrNotOccupied) { ... }

  var verr *hotel.ValidationError
  if errors.As(err, &verr) { field := verr.Field }

SEE ALSO:
  - engine.go: Raises these before mutating
  - api/handlers.go: Maps them onto HTTP statuses
*/
package hotel

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRoomNotFound is returned when a referenced room doesn't exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomTypeNotFound is returned when a room references a type
	// missing from the catalog.
	ErrRoomTypeNotFound = errors.New("room type not found")

	// ErrServiceItemNotFound is returned when a posted catalog item
	// doesn't exist in its category.
	ErrServiceItemNotFound = errors.New("service item not found")

	// ErrNotOccupied is returned when a stay-only operation (posting a
	// charge, checkout, DND, wake-up) targets a room that isn't occupied.
	ErrNotOccupied = errors.New("room is not occupied")

	// ErrInvalidTransition is returned when the requested status change
	// is not in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrActiveBookingExists is returned when opening a stay while a
	// prior Active booking for the same room is still open. The engine
	// guards against this at the call site; the store enforces it again.
	ErrActiveBookingExists = errors.New("room already has an active booking")

	// ErrBookingCompleted is returned on attempts to mutate a Completed
	// booking. Completed bookings are immutable; no reopen exists.
	ErrBookingCompleted = errors.New("booking already completed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports missing or invalid input, naming the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StateError reports an operation attempted in a status that forbids it.
type StateError struct {
	RoomID    RoomID
	Status    RoomStatus
	Operation string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s room %s in status %q", e.Operation, e.RoomID, e.Status)
}

func (e *StateError) Unwrap() error {
	if e.Operation == "post charge" || e.Operation == "check out" ||
		e.Operation == "toggle dnd" || e.Operation == "set wake-up" {
		return ErrNotOccupied
	}
	return ErrInvalidTransition
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine or store failure.
func IsClientError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrServiceItemNotFound)
}

// IsStateError returns true for operations rejected by the current status.
func IsStateError(err error) bool {
	return errors.Is(err, ErrNotOccupied) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrActiveBookingExists) ||
		errors.Is(err, ErrBookingCompleted)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrRoomTypeNotFound) ||
		errors.Is(err, ErrServiceItemNotFound)
}
