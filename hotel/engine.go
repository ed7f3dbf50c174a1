/*
engine.go - Room lifecycle engine

PURPOSE:
  Executes every mutating operation on a room: check-in, check-out,
  reserve, cancel-reservation, maintenance, charge posting/removal,
  DND, wake-up calls, housekeeping. The engine is the single writer of
  room and booking state; collaborators (restaurant module, service
  UI, view layer) all go through it.

OPERATION FLOW:
  1. Serialize on the room ID (per-room mutex)
  2. Load the room snapshot from the store
  3. Validate: every guard runs before any mutation
  4. Mutate a clone
  5. Persist the clone; only then hand it out

  Because validation precedes mutation and mutation happens on a
  clone, a rejected operation leaves the room and the booking ledger
  byte-for-byte unchanged.

CONCURRENCY:
  A front desk is effectively single-session, but exposed as a service
  the API can see overlapping requests, so mutations are serialized
  per room ID. The folio calculator stays pure and needs no lock.

BOOKING COORDINATION:
  Check-in opens exactly one Active booking (rate snapshotted from the
  room-type catalog). Check-out clears stay, charges, DND and wake-up
  together, completes the Active booking, and returns the final folio
  as the receipt. The store does the room write and the booking
  completion in one transaction.

SEE ALSO:
  - room.go:    Aggregate and guards
  - ledger.go:  Charge construction/validation
  - booking.go: Append-only stay history
  - store.go:   Persistence interfaces
*/
package hotel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Engine owns room status and guest-stay fields. All mutating
// operations are serialized per room.
type Engine struct {
	store     Store
	roomTypes *RoomTypeCatalog
	charges   *ChargeLedger
	bookings  *BookingLedger

	now func() time.Time

	mu    sync.Mutex
	locks map[RoomID]*sync.Mutex
}

// NewEngine wires the engine to a store and loads the catalogs.
func NewEngine(ctx context.Context, store Store) (*Engine, error) {
	e := &Engine{
		store:    store,
		bookings: NewBookingLedger(store),
		now:      func() time.Time { return time.Now().UTC() },
		locks:    make(map[RoomID]*sync.Mutex),
	}
	if err := e.ReloadCatalogs(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// ReloadCatalogs re-reads the room-type and service catalogs from the
// store. Called after the settings module changes reference data;
// changes affect the next folio computation, not stored charges.
func (e *Engine) ReloadCatalogs(ctx context.Context) error {
	types, err := e.store.ListRoomTypes(ctx)
	if err != nil {
		return err
	}
	items, err := e.store.ListServiceItems(ctx)
	if err != nil {
		return err
	}
	e.roomTypes = NewRoomTypeCatalog(types)
	e.charges = NewChargeLedger(NewServiceCatalog(items))
	return nil
}

// RoomTypes returns the room-type catalog.
func (e *Engine) RoomTypes() *RoomTypeCatalog { return e.roomTypes }

// lockRoom serializes mutations for one room ID.
func (e *Engine) lockRoom(id RoomID) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// =============================================================================
// READS
// =============================================================================

func (e *Engine) Room(ctx context.Context, id RoomID) (*Room, error) {
	return e.store.GetRoom(ctx, id)
}

func (e *Engine) Rooms(ctx context.Context) ([]*Room, error) {
	return e.store.ListRooms(ctx)
}

func (e *Engine) Policy(ctx context.Context) (RatePolicy, error) {
	return e.store.GetPolicy(ctx)
}

// Folio derives the room's current folio under the current policy.
func (e *Engine) Folio(ctx context.Context, id RoomID) (Folio, error) {
	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return Folio{}, err
	}
	policy, err := e.store.GetPolicy(ctx)
	if err != nil {
		return Folio{}, err
	}
	return ComputeFolio(room, e.roomTypes, policy)
}

// Bookings returns the append-only stay history, newest first.
func (e *Engine) Bookings(ctx context.Context) ([]Booking, error) {
	return e.bookings.History(ctx)
}

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================

// CheckInRequest carries the guest fields for a check-in.
type CheckInRequest struct {
	GuestName string
	Phone     string
	IDNumber  string
	CheckIn   time.Time
	CheckOut  time.Time
	Adults    int
	Notes     string
}

func (r CheckInRequest) validate() error {
	if r.GuestName == "" {
		return invalidField("guestName", "required")
	}
	if r.CheckIn.IsZero() {
		return invalidField("checkIn", "required")
	}
	if r.CheckOut.IsZero() {
		return invalidField("checkOut", "required")
	}
	// checkOut <= checkIn is allowed through: it bills one night, per
	// the nights floor in folio.go.
	return nil
}

// CheckIn moves an Available or Reserved room to Occupied, sets the
// guest fields, resets the charge ledger, and opens an Active booking.
func (e *Engine) CheckIn(ctx context.Context, id RoomID, req CheckInRequest, actor string) (*Room, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.canCheckIn() {
		return nil, &StateError{RoomID: id, Status: room.Status, Operation: "check in"}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	rt, ok := e.roomTypes.Lookup(room.Type)
	if !ok {
		return nil, ErrRoomTypeNotFound
	}

	adults := req.Adults
	if adults < 1 {
		adults = 1
	}

	now := e.now()
	next := room.Clone()
	next.Status = StatusOccupied
	next.Stay = &Stay{
		GuestName: req.GuestName,
		Phone:     req.Phone,
		IDNumber:  req.IDNumber,
		Adults:    adults,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Notes:     req.Notes,
	}
	next.Charges = nil
	next.UpdatedAt = now

	// Open the booking before storing the room so a still-active prior
	// booking rejects the whole check-in.
	if _, err := e.bookings.OpenStay(ctx, next, rt.PricePerNight, actor, now); err != nil {
		return nil, err
	}
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// CheckOut clears the stay, charges, DND and wake-up together, returns
// the room to Available, completes the Active booking, and returns the
// final folio as the receipt.
func (e *Engine) CheckOut(ctx context.Context, id RoomID, actor string) (*Room, Folio, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, Folio{}, err
	}
	if !room.Occupied() {
		return nil, Folio{}, &StateError{RoomID: id, Status: room.Status, Operation: "check out"}
	}

	policy, err := e.store.GetPolicy(ctx)
	if err != nil {
		return nil, Folio{}, err
	}
	folio, err := ComputeFolio(room, e.roomTypes, policy)
	if err != nil {
		return nil, Folio{}, err
	}

	now := e.now()
	next := room.Clone()
	next.Status = StatusAvailable
	next.Stay = nil
	next.Charges = nil
	next.DoNotDisturb = false
	next.WakeUpTime = ""
	next.UpdatedAt = now

	if err := e.store.CheckoutRoom(ctx, next, now); err != nil {
		return nil, Folio{}, err
	}
	return next, folio, nil
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

// Reserve marks an Available room as Reserved.
func (e *Engine) Reserve(ctx context.Context, id RoomID) (*Room, error) {
	return e.transition(ctx, id, "reserve", StatusAvailable, StatusReserved)
}

// CancelReservation returns a Reserved room to Available.
func (e *Engine) CancelReservation(ctx context.Context, id RoomID) (*Room, error) {
	return e.transition(ctx, id, "cancel reservation", StatusReserved, StatusAvailable)
}

// SetMaintenance takes an Available room out of service.
func (e *Engine) SetMaintenance(ctx context.Context, id RoomID) (*Room, error) {
	return e.transition(ctx, id, "set maintenance", StatusAvailable, StatusMaintenance)
}

// MarkAvailable returns a Maintenance room to service.
func (e *Engine) MarkAvailable(ctx context.Context, id RoomID) (*Room, error) {
	return e.transition(ctx, id, "mark available", StatusMaintenance, StatusAvailable)
}

func (e *Engine) transition(ctx context.Context, id RoomID, op string, from, to RoomStatus) (*Room, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Status != from {
		return nil, &StateError{RoomID: id, Status: room.Status, Operation: op}
	}

	next := room.Clone()
	next.Status = to
	next.UpdatedAt = e.now()
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// =============================================================================
// CHARGES
// =============================================================================

// PostCatalogCharges appends a batch of catalog items to an occupied
// room's ledger. All-or-nothing: an invalid batch posts nothing.
func (e *Engine) PostCatalogCharges(ctx context.Context, id RoomID, lines []PostLine, actor string) (*Room, error) {
	return e.appendCharges(ctx, id, func(now time.Time) ([]Charge, error) {
		return e.charges.BuildCatalogCharges(lines, actor, now)
	})
}

// PostExternalCharge appends one explicit-price charge. The restaurant
// module posts pre-aggregated order totals through this path.
func (e *Engine) PostExternalCharge(ctx context.Context, id RoomID, ext ExternalCharge, actor string) (*Room, error) {
	return e.appendCharges(ctx, id, func(now time.Time) ([]Charge, error) {
		c, err := e.charges.BuildExternalCharge(ext, actor, now)
		if err != nil {
			return nil, err
		}
		return []Charge{c}, nil
	})
}

func (e *Engine) appendCharges(ctx context.Context, id RoomID, build func(time.Time) ([]Charge, error)) (*Room, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.Occupied() {
		return nil, &StateError{RoomID: id, Status: room.Status, Operation: "post charge"}
	}

	now := e.now()
	charges, err := build(now)
	if err != nil {
		return nil, err
	}

	next := room.Clone()
	next.Charges = append(next.Charges, charges...)
	next.UpdatedAt = now
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// RemoveCharge removes exactly one line item. Unknown IDs are a silent
// no-op, so removal is idempotent.
func (e *Engine) RemoveCharge(ctx context.Context, id RoomID, chargeID ChargeID) (*Room, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	i := room.FindCharge(chargeID)
	if i < 0 {
		return room, nil
	}

	next := room.Clone()
	next.Charges = append(next.Charges[:i], next.Charges[i+1:]...)
	next.UpdatedAt = e.now()
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// =============================================================================
// IN-STAY CONVENIENCES - DND and wake-up calls
// =============================================================================

// ToggleDND flips do-not-disturb on an occupied room.
func (e *Engine) ToggleDND(ctx context.Context, id RoomID) (*Room, error) {
	return e.mutateOccupied(ctx, id, "toggle dnd", func(next *Room) error {
		next.DoNotDisturb = !next.DoNotDisturb
		return nil
	})
}

// SetWakeUp schedules a wake-up call at an HH:MM time of day.
func (e *Engine) SetWakeUp(ctx context.Context, id RoomID, at string) (*Room, error) {
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, invalidField("wakeUpTime", "must be HH:MM")
	}
	return e.mutateOccupied(ctx, id, "set wake-up", func(next *Room) error {
		next.WakeUpTime = at
		return nil
	})
}

// ClearWakeUp cancels a scheduled wake-up call.
func (e *Engine) ClearWakeUp(ctx context.Context, id RoomID) (*Room, error) {
	return e.mutateOccupied(ctx, id, "set wake-up", func(next *Room) error {
		next.WakeUpTime = ""
		return nil
	})
}

func (e *Engine) mutateOccupied(ctx context.Context, id RoomID, op string, mutate func(*Room) error) (*Room, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.Occupied() {
		return nil, &StateError{RoomID: id, Status: room.Status, Operation: op}
	}

	next := room.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = e.now()
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// =============================================================================
// HOUSEKEEPING - Independent lifecycle, any status
// =============================================================================

// AddHousekeepingRequest files a housekeeping request against a room.
// Housekeeping is independent of occupancy and survives checkout.
func (e *Engine) AddHousekeepingRequest(ctx context.Context, id RoomID, tasks []string, note string) (*Room, error) {
	if len(tasks) == 0 {
		return nil, invalidField("tasks", "at least one task required")
	}

	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	next := room.Clone()
	next.Housekeeping = append(next.Housekeeping, HousekeepingRequest{
		ID:        RequestID(uuid.NewString()),
		Tasks:     append([]string(nil), tasks...),
		Note:      note,
		Status:    HousekeepingPending,
		CreatedAt: e.now(),
	})
	next.UpdatedAt = e.now()
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// CompleteHousekeeping marks one pending request done.
func (e *Engine) CompleteHousekeeping(ctx context.Context, id RoomID, reqID RequestID) (*Room, error) {
	defer e.lockRoom(id)()

	room, err := e.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	i := room.FindHousekeeping(reqID)
	if i < 0 {
		return nil, invalidField("requestId", "no such housekeeping request")
	}

	now := e.now()
	next := room.Clone()
	next.Housekeeping[i].Status = HousekeepingDone
	next.Housekeeping[i].CompletedAt = &now
	next.UpdatedAt = now
	if err := e.store.UpsertRoom(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
