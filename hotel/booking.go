/*
booking.go - Append-only stay history

PURPOSE:
  Booking is the durable audit trail of stays, independent of the live
  Room record. One Booking is created per check-in; it is mutated
  exactly once (Active → Completed) when its room next returns to
  Available, and never deleted.

APPEND-ONLY CONTRACT:
  - OpenStay():  append a new Active booking. The ONLY insert.
  - CloseStay(): complete the matching Active booking. The ONLY update.
  - No delete exists. No reopen exists.

SINGLE-ACTIVE INVARIANT:
  At most one Active booking per room at any time. The engine guards
  this at the call site (check-in only fires from Available/Reserved
  rooms whose prior booking, if any, is already Completed); the sqlite
  store enforces it again with a partial unique index.

SEE ALSO:
  - store.go: BookingStore interface
  - engine.go: The only writer of bookings
*/
package hotel

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
)

// Booking is one historical stay. RoomID is a back-reference, not
// ownership: deleting a room (which this core never does) would not
// cascade here.
type Booking struct {
	ID           BookingID
	RoomID       RoomID
	RoomNumber   string
	GuestName    string
	CheckIn      time.Time
	CheckOut     time.Time
	RoomType     RoomTypeID
	RatePerNight Money
	Status       BookingStatus

	CreatedBy   string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// BookingLedger wraps a BookingStore with the open/close protocol.
type BookingLedger struct {
	store BookingStore
}

func NewBookingLedger(store BookingStore) *BookingLedger {
	return &BookingLedger{store: store}
}

// OpenStay appends a new Active booking for the room. Callers must hold
// the room serialized and must have verified no Active booking exists.
func (l *BookingLedger) OpenStay(ctx context.Context, room *Room, rate Money, createdBy string, now time.Time) (Booking, error) {
	if prior, err := l.store.ActiveBooking(ctx, room.ID); err != nil {
		return Booking{}, err
	} else if prior != nil {
		return Booking{}, ErrActiveBookingExists
	}

	b := Booking{
		ID:           BookingID(uuid.NewString()),
		RoomID:       room.ID,
		RoomNumber:   room.Number,
		GuestName:    room.Stay.GuestName,
		CheckIn:      room.Stay.CheckIn,
		CheckOut:     room.Stay.CheckOut,
		RoomType:     room.Type,
		RatePerNight: rate,
		Status:       BookingActive,
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}
	if err := l.store.AppendBooking(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// CloseStay completes the room's Active booking. A no-op if none is
// found, per the checkout contract.
func (l *BookingLedger) CloseStay(ctx context.Context, roomID RoomID, at time.Time) error {
	return l.store.CompleteActiveBooking(ctx, roomID, at)
}

// History returns all bookings, newest first.
func (l *BookingLedger) History(ctx context.Context) ([]Booking, error) {
	return l.store.ListBookings(ctx)
}
