/*
store.go - Persistence interfaces

PURPOSE:
  Defines the interface between the engine and the database. Different
  implementations can use SQLite or in-memory storage; the engine
  enforces invariants centrally and the stores persist snapshots.

KEY INTERFACES:
  RoomStore:     Room snapshots. The room set is fixed, so there is
                 list, get and upsert but no delete.
  BookingStore:  Append-only stay history: append, complete, no delete.
  SettingsStore: Rate policy, room types, service catalog

BOOKING CONTRACT:
  AppendBooking and CompleteActiveBooking are the only booking writes.
  There is no UPDATE of a completed booking and no DELETE. Ever.

CHECKOUT ATOMICITY:
  CheckoutRoom stores the cleared room and completes the Active booking
  in one store-level transaction, so the audit trail can't drift from
  the live record on a mid-write failure.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite (WAL, migrate-on-open)
  - store/memory: In-memory for tests and dev

SEE ALSO:
  - engine.go: The only caller of mutating store methods
*/
package hotel

import (
	"context"
	"time"
)

// RoomStore persists room snapshots. The room set is fixed at setup:
// there is Upsert but no Delete.
type RoomStore interface {
	// GetRoom returns the room or ErrRoomNotFound.
	GetRoom(ctx context.Context, id RoomID) (*Room, error)

	// ListRooms returns all rooms ordered by floor, then number.
	ListRooms(ctx context.Context) ([]*Room, error)

	// UpsertRoom stores a full room snapshot (last write wins).
	UpsertRoom(ctx context.Context, room *Room) error
}

// BookingStore persists the append-only stay history.
type BookingStore interface {
	// AppendBooking inserts a new booking. Returns
	// ErrActiveBookingExists if the room already has an Active one.
	AppendBooking(ctx context.Context, b Booking) error

	// ActiveBooking returns the room's Active booking, or nil.
	ActiveBooking(ctx context.Context, roomID RoomID) (*Booking, error)

	// CompleteActiveBooking flips the room's Active booking to
	// Completed with the given timestamp. No-op if none exists.
	CompleteActiveBooking(ctx context.Context, roomID RoomID, at time.Time) error

	// ListBookings returns all bookings, newest first.
	ListBookings(ctx context.Context) ([]Booking, error)
}

// TxRoomStore extends the stores with the one cross-entity write the
// engine needs to be atomic: checkout.
type TxRoomStore interface {
	RoomStore
	BookingStore

	// CheckoutRoom stores the cleared room and completes its Active
	// booking atomically.
	CheckoutRoom(ctx context.Context, room *Room, at time.Time) error
}

// SettingsStore persists the externally configured reference data.
type SettingsStore interface {
	GetPolicy(ctx context.Context) (RatePolicy, error)
	SavePolicy(ctx context.Context, p RatePolicy) error

	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	SaveRoomType(ctx context.Context, rt RoomType) error

	ListServiceItems(ctx context.Context) ([]ServiceItem, error)
	SaveServiceItem(ctx context.Context, it ServiceItem) error
}

// Store is the full persistence surface the server wires together.
type Store interface {
	TxRoomStore
	SettingsStore
}
