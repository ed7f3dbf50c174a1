/*
room.go - The Room aggregate

PURPOSE:
  Room is the mutable unit of occupancy: status, hosted stay, posted
  charges, housekeeping requests, DND/wake-up flags. The fixed room set
  is created once at hotel setup and never added to or removed at
  runtime.

STATE MACHINE (executed by the Engine, guards in this file):

  Available ──checkIn──▶ Occupied ──checkOut──▶ Available
  Available ──reserve──▶ Reserved ──checkIn───▶ Occupied
  Reserved ──cancelReservation──▶ Available
  Available ──setMaintenance──▶ Maintenance ──markAvailable──▶ Available

OCCUPANCY INVARIANT:
  Stay != nil  ⇔  Status == Occupied
  Charges are empty whenever Stay is nil; checkout clears both together.

SNAPSHOT SEMANTICS:
  The engine hands out deep copies (Clone). Callers never hold a live
  pointer into engine state, so a rejected operation observably changes
  nothing.

SEE ALSO:
  - engine.go: Executes transitions under per-room serialization
  - folio.go:  Derives totals from a room snapshot
*/
package hotel

import "time"

// Room is the mutable unit of occupancy. Identity is stable and never
// reused.
type Room struct {
	ID     RoomID
	Number string
	Floor  int
	Type   RoomTypeID
	Status RoomStatus

	// Stay is non-nil iff Status == StatusOccupied.
	Stay *Stay

	// Charges in posting order. Empty unless occupied.
	Charges []Charge

	// Housekeeping has its own lifecycle; checkout never touches it.
	Housekeeping []HousekeepingRequest

	DoNotDisturb bool
	WakeUpTime   string

	UpdatedAt time.Time
}

// Occupied reports whether the room currently hosts a stay.
func (r *Room) Occupied() bool { return r.Status == StatusOccupied }

// canCheckIn reports whether a check-in may start from the current status.
func (r *Room) canCheckIn() bool {
	return r.Status == StatusAvailable || r.Status == StatusReserved
}

// ServiceSubtotal sums the currently held charges.
func (r *Room) ServiceSubtotal() Money {
	total := NewMoneyFromInt(0)
	for _, c := range r.Charges {
		total = total.Add(c.Total)
	}
	return total
}

// FindCharge returns the index of the charge with the given ID, or -1.
func (r *Room) FindCharge(id ChargeID) int {
	for i, c := range r.Charges {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// FindHousekeeping returns the index of the request with the given ID, or -1.
func (r *Room) FindHousekeeping(id RequestID) int {
	for i, h := range r.Housekeeping {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. The engine only ever hands out clones.
func (r *Room) Clone() *Room {
	cp := *r
	if r.Stay != nil {
		stay := *r.Stay
		cp.Stay = &stay
	}
	cp.Charges = append([]Charge(nil), r.Charges...)
	cp.Housekeeping = make([]HousekeepingRequest, len(r.Housekeeping))
	for i, h := range r.Housekeeping {
		cp.Housekeeping[i] = h
		cp.Housekeeping[i].Tasks = append([]string(nil), h.Tasks...)
		if h.CompletedAt != nil {
			done := *h.CompletedAt
			cp.Housekeeping[i].CompletedAt = &done
		}
	}
	return &cp
}
