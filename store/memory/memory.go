// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/folio-engine/hotel"
)

type Store struct {
	mu       sync.RWMutex
	rooms    map[hotel.RoomID]*hotel.Room
	bookings []hotel.Booking
	policy   hotel.RatePolicy
	types    []hotel.RoomType
	items    []hotel.ServiceItem
}

func New() *Store {
	return &Store{rooms: make(map[hotel.RoomID]*hotel.Room)}
}

// =============================================================================
// ROOM STORE
// =============================================================================

func (s *Store) GetRoom(_ context.Context, id hotel.RoomID) (*hotel.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, hotel.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Store) ListRooms(_ context.Context) ([]*hotel.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*hotel.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (s *Store) UpsertRoom(_ context.Context, room *hotel.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.ID] = room.Clone()
	return nil
}

// =============================================================================
// BOOKING STORE - Append-only
// =============================================================================

func (s *Store) AppendBooking(_ context.Context, b hotel.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendBookingLocked(b)
}

func (s *Store) appendBookingLocked(b hotel.Booking) error {
	if b.Status == hotel.BookingActive {
		for _, prior := range s.bookings {
			if prior.RoomID == b.RoomID && prior.Status == hotel.BookingActive {
				return hotel.ErrActiveBookingExists
			}
		}
	}
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *Store) ActiveBooking(_ context.Context, roomID hotel.RoomID) (*hotel.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.bookings {
		if s.bookings[i].RoomID == roomID && s.bookings[i].Status == hotel.BookingActive {
			b := s.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (s *Store) CompleteActiveBooking(_ context.Context, roomID hotel.RoomID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeActiveLocked(roomID, at)
	return nil
}

func (s *Store) completeActiveLocked(roomID hotel.RoomID, at time.Time) {
	for i := range s.bookings {
		if s.bookings[i].RoomID == roomID && s.bookings[i].Status == hotel.BookingActive {
			s.bookings[i].Status = hotel.BookingCompleted
			done := at
			s.bookings[i].CompletedAt = &done
			return
		}
	}
}

func (s *Store) ListBookings(_ context.Context) ([]hotel.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]hotel.Booking(nil), s.bookings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CheckoutRoom stores the cleared room and completes its Active booking
// under one lock hold, mirroring the sqlite store's transaction.
func (s *Store) CheckoutRoom(_ context.Context, room *hotel.Room, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.ID] = room.Clone()
	s.completeActiveLocked(room.ID, at)
	return nil
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

func (s *Store) GetPolicy(_ context.Context) (hotel.RatePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy, nil
}

func (s *Store) SavePolicy(_ context.Context, p hotel.RatePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
	return nil
}

func (s *Store) ListRoomTypes(_ context.Context) ([]hotel.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]hotel.RoomType(nil), s.types...), nil
}

func (s *Store) SaveRoomType(_ context.Context, rt hotel.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.types {
		if s.types[i].ID == rt.ID {
			s.types[i] = rt
			return nil
		}
	}
	s.types = append(s.types, rt)
	return nil
}

func (s *Store) ListServiceItems(_ context.Context) ([]hotel.ServiceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]hotel.ServiceItem(nil), s.items...), nil
}

func (s *Store) SaveServiceItem(_ context.Context, it hotel.ServiceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == it.ID && s.items[i].Category == it.Category {
			s.items[i] = it
			return nil
		}
	}
	s.items = append(s.items, it)
	return nil
}
