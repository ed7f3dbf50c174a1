package hotel_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/folio-engine/hotel"
	"github.com/warp/folio-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newTestEngine builds an engine over an in-memory store seeded with two
// room types, a small service catalog, the default rate policy, and two
// available rooms (room-101 standard, room-102 deluxe).
func newTestEngine(t *testing.T) (*hotel.Engine, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SavePolicy(ctx, testPolicy()))
	for _, rt := range testCatalog().List() {
		require.NoError(t, store.SaveRoomType(ctx, rt))
	}
	items := []hotel.ServiceItem{
		{ID: "whiskey-50", Category: hotel.CategoryMinibar, Name: "Whiskey 50ml", UnitPrice: hotel.NewMoneyFromInt(12)},
		{ID: "water", Category: hotel.CategoryMinibar, Name: "Mineral Water", UnitPrice: hotel.NewMoneyFromInt(3)},
		{ID: "wash-fold", Category: hotel.CategoryLaundry, Name: "Wash & Fold", UnitPrice: hotel.NewMoneyFromInt(18)},
	}
	for _, it := range items {
		require.NoError(t, store.SaveServiceItem(ctx, it))
	}

	rooms := []*hotel.Room{
		{ID: "room-101", Number: "101", Floor: 1, Type: "standard", Status: hotel.StatusAvailable},
		{ID: "room-102", Number: "102", Floor: 1, Type: "deluxe", Status: hotel.StatusAvailable},
	}
	for _, r := range rooms {
		require.NoError(t, store.UpsertRoom(ctx, r))
	}

	engine, err := hotel.NewEngine(ctx, store)
	require.NoError(t, err)
	return engine, store
}

func checkInRequest() hotel.CheckInRequest {
	return hotel.CheckInRequest{
		GuestName: "Ada Lovelace",
		Phone:     "555-0101",
		Adults:    2,
		CheckIn:   date(2024, time.June, 1),
		CheckOut:  date(2024, time.June, 4),
	}
}

func mustCheckIn(t *testing.T, e *hotel.Engine, id hotel.RoomID) *hotel.Room {
	t.Helper()
	room, err := e.CheckIn(context.Background(), id, checkInRequest(), "front-desk")
	require.NoError(t, err)
	return room
}

// =============================================================================
// CHECK-IN
// =============================================================================

func TestCheckIn_AvailableRoom(t *testing.T) {
	// GIVEN: An available standard room
	// WHEN:  Checking a guest in
	// THEN:  The room is occupied, the stay is set, the charge ledger is
	//        empty, and exactly one Active booking exists with the
	//        standard rate snapshotted

	engine, _ := newTestEngine(t)
	ctx := context.Background()

	room := mustCheckIn(t, engine, "room-101")

	assert.Equal(t, hotel.StatusOccupied, room.Status)
	require.NotNil(t, room.Stay)
	assert.Equal(t, "Ada Lovelace", room.Stay.GuestName)
	assert.Equal(t, 2, room.Stay.Adults)
	assert.Empty(t, room.Charges)

	bookings, err := engine.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, hotel.BookingActive, bookings[0].Status)
	assert.Equal(t, hotel.RoomID("room-101"), bookings[0].RoomID)
	assert.Equal(t, "101", bookings[0].RoomNumber)
	assert.Equal(t, "front-desk", bookings[0].CreatedBy)
	assert.True(t, bookings[0].RatePerNight.Equal(hotel.NewMoneyFromInt(75)))
}

func TestCheckIn_ReservedRoom(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Reserve(ctx, "room-101")
	require.NoError(t, err)

	room := mustCheckIn(t, engine, "room-101")
	assert.Equal(t, hotel.StatusOccupied, room.Status)
}

func TestCheckIn_ZeroAdults_DefaultsToOne(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := checkInRequest()
	req.Adults = 0
	room, err := engine.CheckIn(context.Background(), "room-101", req, "front-desk")
	require.NoError(t, err)

	assert.Equal(t, 1, room.Stay.Adults)
}

func TestCheckIn_MissingGuestName_RejectedWithoutMutation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	req := checkInRequest()
	req.GuestName = ""
	_, err := engine.CheckIn(ctx, "room-101", req, "front-desk")

	var verr *hotel.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "guestName", verr.Field)

	// the room must be untouched
	room, err := engine.Room(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, hotel.StatusAvailable, room.Status)
	assert.Nil(t, room.Stay)

	bookings, err := engine.Bookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestCheckIn_OccupiedRoom_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustCheckIn(t, engine, "room-101")

	_, err := engine.CheckIn(context.Background(), "room-101", checkInRequest(), "front-desk")
	assert.ErrorIs(t, err, hotel.ErrInvalidTransition)
	assert.True(t, hotel.IsStateError(err))
}

func TestCheckIn_MaintenanceRoom_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.SetMaintenance(ctx, "room-101")
	require.NoError(t, err)

	_, err = engine.CheckIn(ctx, "room-101", checkInRequest(), "front-desk")
	assert.ErrorIs(t, err, hotel.ErrInvalidTransition)
}

func TestCheckIn_UnknownRoom(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.CheckIn(context.Background(), "room-999", checkInRequest(), "front-desk")
	assert.ErrorIs(t, err, hotel.ErrRoomNotFound)
	assert.True(t, hotel.IsNotFound(err))
}

// =============================================================================
// CHECK-OUT
// =============================================================================

func TestCheckOut_ClearsStayAndCompletesBooking(t *testing.T) {
	// GIVEN: An occupied room with charges, DND on, and a wake-up call
	// WHEN:  Checking out
	// THEN:  The room is available with stay/charges/DND/wake-up all
	//        cleared, the booking is Completed, and the returned folio
	//        matches the worked example

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	_, err := engine.PostCatalogCharges(ctx, "room-101",
		[]hotel.PostLine{{Category: hotel.CategoryMinibar, ItemID: "whiskey-50", Quantity: 2}}, "front-desk")
	require.NoError(t, err)
	_, err = engine.ToggleDND(ctx, "room-101")
	require.NoError(t, err)
	_, err = engine.SetWakeUp(ctx, "room-101", "07:30")
	require.NoError(t, err)

	room, folio, err := engine.CheckOut(ctx, "room-101", "front-desk")
	require.NoError(t, err)

	assert.Equal(t, hotel.StatusAvailable, room.Status)
	assert.Nil(t, room.Stay)
	assert.Empty(t, room.Charges)
	assert.False(t, room.DoNotDisturb)
	assert.Empty(t, room.WakeUpTime)

	assert.Equal(t, 3, folio.Nights)
	assert.True(t, folio.GrandTotal.Equal(hotel.NewMoneyFromInt(293)), "grandTotal = %s", folio.GrandTotal)

	bookings, err := engine.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, hotel.BookingCompleted, bookings[0].Status)
	require.NotNil(t, bookings[0].CompletedAt)
}

func TestCheckOut_VacantRoom_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, _, err := engine.CheckOut(context.Background(), "room-101", "front-desk")
	assert.ErrorIs(t, err, hotel.ErrNotOccupied)
}

func TestCheckOut_ThenReoccupy_StartsFreshLedger(t *testing.T) {
	// A second stay must open a second booking and start with an empty
	// charge ledger, never inheriting the prior guest's lines.

	engine, _ := newTestEngine(t)
	ctx := context.Background()

	mustCheckIn(t, engine, "room-101")
	_, err := engine.PostCatalogCharges(ctx, "room-101",
		[]hotel.PostLine{{Category: hotel.CategoryMinibar, ItemID: "water", Quantity: 1}}, "front-desk")
	require.NoError(t, err)
	_, _, err = engine.CheckOut(ctx, "room-101", "front-desk")
	require.NoError(t, err)

	room := mustCheckIn(t, engine, "room-101")
	assert.Empty(t, room.Charges)

	bookings, err := engine.Bookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	active, completed := 0, 0
	for _, b := range bookings {
		switch b.Status {
		case hotel.BookingActive:
			active++
		case hotel.BookingCompleted:
			completed++
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, completed)
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

func TestTransitions_Table(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// available -> reserved -> available
	room, err := engine.Reserve(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, hotel.StatusReserved, room.Status)

	room, err = engine.CancelReservation(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, hotel.StatusAvailable, room.Status)

	// available -> maintenance -> available
	room, err = engine.SetMaintenance(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, hotel.StatusMaintenance, room.Status)

	room, err = engine.MarkAvailable(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, hotel.StatusAvailable, room.Status)
}

func TestTransitions_IllegalEdges_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// reserve a reserved room
	_, err := engine.Reserve(ctx, "room-101")
	require.NoError(t, err)
	_, err = engine.Reserve(ctx, "room-101")
	assert.ErrorIs(t, err, hotel.ErrInvalidTransition)

	// maintenance on a reserved room
	_, err = engine.SetMaintenance(ctx, "room-101")
	assert.ErrorIs(t, err, hotel.ErrInvalidTransition)

	// reserve an occupied room
	mustCheckIn(t, engine, "room-102")
	_, err = engine.Reserve(ctx, "room-102")
	assert.ErrorIs(t, err, hotel.ErrInvalidTransition)

	// cancel with no reservation
	_, err = engine.CancelReservation(ctx, "room-102")
	assert.ErrorIs(t, err, hotel.ErrInvalidTransition)
}

// =============================================================================
// CHARGES
// =============================================================================

func TestPostCatalogCharges_PricesFromCatalog(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	room, err := engine.PostCatalogCharges(ctx, "room-101", []hotel.PostLine{
		{Category: hotel.CategoryMinibar, ItemID: "whiskey-50", Quantity: 2},
		{Category: hotel.CategoryLaundry, ItemID: "wash-fold", Quantity: 1},
	}, "service-desk")
	require.NoError(t, err)

	require.Len(t, room.Charges, 2)
	assert.Equal(t, "Whiskey 50ml", room.Charges[0].Name)
	assert.True(t, room.Charges[0].Total.Equal(hotel.NewMoneyFromInt(24)))
	assert.Equal(t, "service-desk", room.Charges[0].PostedBy)
	assert.True(t, room.ServiceSubtotal().Equal(hotel.NewMoneyFromInt(42)))
}

func TestPostCatalogCharges_SkipsZeroQuantities(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	room, err := engine.PostCatalogCharges(ctx, "room-101", []hotel.PostLine{
		{Category: hotel.CategoryMinibar, ItemID: "whiskey-50", Quantity: 0},
		{Category: hotel.CategoryMinibar, ItemID: "water", Quantity: 3},
	}, "front-desk")
	require.NoError(t, err)

	require.Len(t, room.Charges, 1)
	assert.Equal(t, "Mineral Water", room.Charges[0].Name)
}

func TestPostCatalogCharges_AllZero_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustCheckIn(t, engine, "room-101")

	_, err := engine.PostCatalogCharges(context.Background(), "room-101", []hotel.PostLine{
		{Category: hotel.CategoryMinibar, ItemID: "whiskey-50", Quantity: 0},
	}, "front-desk")

	var verr *hotel.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
}

func TestPostCatalogCharges_UnknownItem_PostsNothing(t *testing.T) {
	// GIVEN: A batch with one valid and one unknown item
	// WHEN:  Posting
	// THEN:  The whole batch is rejected and no line lands on the room

	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	_, err := engine.PostCatalogCharges(ctx, "room-101", []hotel.PostLine{
		{Category: hotel.CategoryMinibar, ItemID: "water", Quantity: 1},
		{Category: hotel.CategoryMinibar, ItemID: "caviar", Quantity: 1},
	}, "front-desk")
	assert.ErrorIs(t, err, hotel.ErrServiceItemNotFound)

	room, err := engine.Room(ctx, "room-101")
	require.NoError(t, err)
	assert.Empty(t, room.Charges)
}

func TestPostCharges_VacantRoom_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.PostCatalogCharges(context.Background(), "room-101",
		[]hotel.PostLine{{Category: hotel.CategoryMinibar, ItemID: "water", Quantity: 1}}, "front-desk")
	assert.ErrorIs(t, err, hotel.ErrNotOccupied)
}

func TestPostExternalCharge(t *testing.T) {
	engine, _ := newTestEngine(t)
	mustCheckIn(t, engine, "room-101")

	room, err := engine.PostExternalCharge(context.Background(), "room-101", hotel.ExternalCharge{
		Category:  hotel.CategoryRestaurant,
		Name:      "Dinner order #42",
		Quantity:  1,
		UnitPrice: hotel.MustParseMoney("56.50"),
	}, "restaurant")
	require.NoError(t, err)

	require.Len(t, room.Charges, 1)
	assert.Equal(t, hotel.CategoryRestaurant, room.Charges[0].Category)
	assert.True(t, room.Charges[0].Total.Equal(hotel.MustParseMoney("56.50")))
}

func TestPostExternalCharge_Invalid(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	cases := []struct {
		name  string
		ext   hotel.ExternalCharge
		field string
	}{
		{"bad category", hotel.ExternalCharge{Category: "casino", Name: "Chips", Quantity: 1, UnitPrice: hotel.NewMoneyFromInt(10)}, "category"},
		{"empty name", hotel.ExternalCharge{Category: hotel.CategoryOther, Name: "", Quantity: 1, UnitPrice: hotel.NewMoneyFromInt(10)}, "name"},
		{"zero quantity", hotel.ExternalCharge{Category: hotel.CategoryOther, Name: "Fee", Quantity: 0, UnitPrice: hotel.NewMoneyFromInt(10)}, "quantity"},
		{"negative price", hotel.ExternalCharge{Category: hotel.CategoryOther, Name: "Fee", Quantity: 1, UnitPrice: hotel.NewMoneyFromInt(-1)}, "unitPrice"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.PostExternalCharge(ctx, "room-101", tc.ext, "front-desk")
			var verr *hotel.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestRemoveCharge(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	room, err := engine.PostCatalogCharges(ctx, "room-101", []hotel.PostLine{
		{Category: hotel.CategoryMinibar, ItemID: "whiskey-50", Quantity: 1},
		{Category: hotel.CategoryMinibar, ItemID: "water", Quantity: 1},
	}, "front-desk")
	require.NoError(t, err)
	require.Len(t, room.Charges, 2)

	room, err = engine.RemoveCharge(ctx, "room-101", room.Charges[0].ID)
	require.NoError(t, err)
	require.Len(t, room.Charges, 1)
	assert.Equal(t, "Mineral Water", room.Charges[0].Name)
}

func TestRemoveCharge_UnknownID_IsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	room, err := engine.RemoveCharge(ctx, "room-101", "no-such-charge")
	require.NoError(t, err)
	assert.Empty(t, room.Charges)
}

// =============================================================================
// DND AND WAKE-UP
// =============================================================================

func TestToggleDND(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	room, err := engine.ToggleDND(ctx, "room-101")
	require.NoError(t, err)
	assert.True(t, room.DoNotDisturb)

	room, err = engine.ToggleDND(ctx, "room-101")
	require.NoError(t, err)
	assert.False(t, room.DoNotDisturb)
}

func TestSetWakeUp_ValidatesTimeOfDay(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	room, err := engine.SetWakeUp(ctx, "room-101", "06:45")
	require.NoError(t, err)
	assert.Equal(t, "06:45", room.WakeUpTime)

	_, err = engine.SetWakeUp(ctx, "room-101", "25:00")
	var verr *hotel.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "wakeUpTime", verr.Field)

	room, err = engine.ClearWakeUp(ctx, "room-101")
	require.NoError(t, err)
	assert.Empty(t, room.WakeUpTime)
}

func TestDND_VacantRoom_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.ToggleDND(context.Background(), "room-101")
	assert.ErrorIs(t, err, hotel.ErrNotOccupied)
}

// =============================================================================
// HOUSEKEEPING
// =============================================================================

func TestHousekeeping_AnyStatusAndSurvivesCheckout(t *testing.T) {
	// GIVEN: A housekeeping request filed on a vacant room, then a full
	//        stay on the same room
	// WHEN:  The guest checks out
	// THEN:  The request is still on the room, untouched

	engine, _ := newTestEngine(t)
	ctx := context.Background()

	room, err := engine.AddHousekeepingRequest(ctx, "room-101", []string{"deep clean"}, "carpet stain")
	require.NoError(t, err)
	require.Len(t, room.Housekeeping, 1)
	assert.Equal(t, hotel.HousekeepingPending, room.Housekeeping[0].Status)

	mustCheckIn(t, engine, "room-101")
	room, _, err = engine.CheckOut(ctx, "room-101", "front-desk")
	require.NoError(t, err)

	require.Len(t, room.Housekeeping, 1)
	assert.Equal(t, hotel.HousekeepingPending, room.Housekeeping[0].Status)
}

func TestHousekeeping_Complete(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	room, err := engine.AddHousekeepingRequest(ctx, "room-101", []string{"towels", "sheets"}, "")
	require.NoError(t, err)
	reqID := room.Housekeeping[0].ID

	room, err = engine.CompleteHousekeeping(ctx, "room-101", reqID)
	require.NoError(t, err)
	assert.Equal(t, hotel.HousekeepingDone, room.Housekeeping[0].Status)
	require.NotNil(t, room.Housekeeping[0].CompletedAt)
}

func TestHousekeeping_NoTasks_Rejected(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.AddHousekeepingRequest(context.Background(), "room-101", nil, "")
	var verr *hotel.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tasks", verr.Field)
}

func TestHousekeeping_UnknownRequestID(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.CompleteHousekeeping(context.Background(), "room-101", "no-such-request")
	assert.True(t, hotel.IsClientError(err))
}

// =============================================================================
// BOOKING LEDGER - Single-active invariant
// =============================================================================

func TestBookingLedger_SingleActivePerRoom(t *testing.T) {
	// The store enforces the invariant even when a caller bypasses the
	// engine's status guard.

	_, store := newTestEngine(t)
	ctx := context.Background()

	first := hotel.Booking{ID: "b1", RoomID: "room-101", Status: hotel.BookingActive, CreatedAt: time.Now()}
	require.NoError(t, store.AppendBooking(ctx, first))

	second := hotel.Booking{ID: "b2", RoomID: "room-101", Status: hotel.BookingActive, CreatedAt: time.Now()}
	err := store.AppendBooking(ctx, second)
	assert.ErrorIs(t, err, hotel.ErrActiveBookingExists)

	// a different room is unaffected
	other := hotel.Booking{ID: "b3", RoomID: "room-102", Status: hotel.BookingActive, CreatedAt: time.Now()}
	assert.NoError(t, store.AppendBooking(ctx, other))
}

func TestEngineFolio_TracksLiveCharges(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	mustCheckIn(t, engine, "room-101")

	before, err := engine.Folio(ctx, "room-101")
	require.NoError(t, err)
	assert.True(t, before.ServiceSubtotal.IsZero())

	_, err = engine.PostCatalogCharges(ctx, "room-101",
		[]hotel.PostLine{{Category: hotel.CategoryMinibar, ItemID: "whiskey-50", Quantity: 2}}, "front-desk")
	require.NoError(t, err)

	after, err := engine.Folio(ctx, "room-101")
	require.NoError(t, err)
	assert.True(t, after.ServiceSubtotal.Equal(hotel.NewMoneyFromInt(24)))
	assert.True(t, after.GrandTotal.GreaterThan(before.GrandTotal))
}
