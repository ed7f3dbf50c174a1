package hotel_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/folio-engine/hotel"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testCatalog() *hotel.RoomTypeCatalog {
	return hotel.NewRoomTypeCatalog([]hotel.RoomType{
		{ID: "standard", Name: "Standard", PricePerNight: hotel.NewMoneyFromInt(75), MaxOccupancy: 2},
		{ID: "deluxe", Name: "Deluxe", PricePerNight: hotel.NewMoneyFromInt(120), MaxOccupancy: 3},
	})
}

func testPolicy() hotel.RatePolicy {
	return hotel.RatePolicy{
		TaxRatePercent:       hotel.MustParseMoney("7.5"),
		ServiceChargePercent: hotel.MustParseMoney("10"),
		CurrencySymbol:       "$",
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func occupiedRoom(stay *hotel.Stay, charges ...hotel.Charge) *hotel.Room {
	return &hotel.Room{
		ID:      "room-101",
		Number:  "101",
		Floor:   1,
		Type:    "standard",
		Status:  hotel.StatusOccupied,
		Stay:    stay,
		Charges: charges,
	}
}

// =============================================================================
// NIGHTS - Ceiling of the day difference, floored at one
// =============================================================================

func TestNights_SameDay_BillsOneNight(t *testing.T) {
	stay := &hotel.Stay{CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 1)}
	assert.Equal(t, 1, hotel.Nights(stay))
}

func TestNights_InvertedDates_StillBillOneNight(t *testing.T) {
	// checkOut before checkIn is allowed through and billed as one
	// night; rejecting it would change historical invoice amounts.
	stay := &hotel.Stay{CheckIn: date(2024, time.June, 4), CheckOut: date(2024, time.June, 1)}
	assert.Equal(t, 1, hotel.Nights(stay))
}

func TestNights_OneDay(t *testing.T) {
	stay := &hotel.Stay{CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 2)}
	assert.Equal(t, 1, hotel.Nights(stay))
}

func TestNights_TwentyFiveHours_RoundsUpToTwo(t *testing.T) {
	in := date(2024, time.June, 1)
	stay := &hotel.Stay{CheckIn: in, CheckOut: in.Add(25 * time.Hour)}
	assert.Equal(t, 2, hotel.Nights(stay))
}

func TestNights_ThreeDays(t *testing.T) {
	stay := &hotel.Stay{CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 4)}
	assert.Equal(t, 3, hotel.Nights(stay))
}

func TestNights_NilStay_IsZero(t *testing.T) {
	assert.Equal(t, 0, hotel.Nights(nil))
}

// =============================================================================
// FOLIO - Worked example and rounding order
// =============================================================================

func TestComputeFolio_WorkedExample(t *testing.T) {
	// GIVEN: Room 101 (Standard, $75/night), 2024-06-01 -> 2024-06-04,
	//        one minibar charge 2 x $12, tax 7.5%, service 10%
	// WHEN:  Computing the folio
	// THEN:  nights=3, roomCharge=225, serviceSubtotal=24, subtotal=249,
	//        tax=round(18.675)=19, serviceCharge=round(24.9)=25, grand=293

	room := occupiedRoom(
		&hotel.Stay{GuestName: "Ada Lovelace", Adults: 2,
			CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 4)},
		hotel.Charge{ID: "c1", Category: hotel.CategoryMinibar, Name: "Whiskey 50ml",
			Quantity: 2, UnitPrice: hotel.NewMoneyFromInt(12), Total: hotel.NewMoneyFromInt(24)},
	)

	folio, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 3, folio.Nights)
	assert.True(t, folio.RoomCharge.Equal(hotel.NewMoneyFromInt(225)), "roomCharge = %s", folio.RoomCharge)
	assert.True(t, folio.ServiceSubtotal.Equal(hotel.NewMoneyFromInt(24)), "serviceSubtotal = %s", folio.ServiceSubtotal)
	assert.True(t, folio.Subtotal.Equal(hotel.NewMoneyFromInt(249)), "subtotal = %s", folio.Subtotal)
	assert.True(t, folio.Tax.Equal(hotel.NewMoneyFromInt(19)), "tax = %s", folio.Tax)
	assert.True(t, folio.ServiceCharge.Equal(hotel.NewMoneyFromInt(25)), "serviceCharge = %s", folio.ServiceCharge)
	assert.True(t, folio.GrandTotal.Equal(hotel.NewMoneyFromInt(293)), "grandTotal = %s", folio.GrandTotal)
	assert.Equal(t, "$", folio.CurrencySymbol)
}

func TestComputeFolio_RoundsComponentsBeforeSumming(t *testing.T) {
	// Subtotal 75: tax 7.5% = 5.625 -> 6, service 10% = 7.5 -> 8.
	// GrandTotal must be 75+6+8=89, not round(75+5.625+7.5)=88.

	room := occupiedRoom(&hotel.Stay{GuestName: "g",
		CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 2)})

	folio, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	require.NoError(t, err)

	assert.True(t, folio.Tax.Equal(hotel.NewMoneyFromInt(6)), "tax = %s", folio.Tax)
	assert.True(t, folio.ServiceCharge.Equal(hotel.NewMoneyFromInt(8)), "serviceCharge = %s", folio.ServiceCharge)
	assert.True(t, folio.GrandTotal.Equal(hotel.NewMoneyFromInt(89)), "grandTotal = %s", folio.GrandTotal)
}

func TestComputeFolio_Additivity(t *testing.T) {
	// grandTotal == subtotal + round(subtotal*tax%) + round(subtotal*svc%)
	// for a spread of rate combinations.
	cases := []struct {
		tax, svc string
	}{
		{"0", "0"}, {"7.5", "10"}, {"12.5", "5"}, {"18", "12.5"}, {"3.33", "6.66"},
	}

	room := occupiedRoom(
		&hotel.Stay{GuestName: "g", CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 3)},
		hotel.Charge{ID: "c1", Category: hotel.CategorySpa, Name: "Massage", Quantity: 1,
			UnitPrice: hotel.MustParseMoney("80"), Total: hotel.MustParseMoney("80")},
	)

	for _, tc := range cases {
		policy := hotel.RatePolicy{
			TaxRatePercent:       hotel.MustParseMoney(tc.tax),
			ServiceChargePercent: hotel.MustParseMoney(tc.svc),
			CurrencySymbol:       "$",
		}
		folio, err := hotel.ComputeFolio(room, testCatalog(), policy)
		require.NoError(t, err)

		hundred := decimal.NewFromInt(100)
		wantTax := folio.Subtotal.Mul(hotel.MustParseMoney(tc.tax)).Div(hundred).Round(0)
		wantSvc := folio.Subtotal.Mul(hotel.MustParseMoney(tc.svc)).Div(hundred).Round(0)
		want := folio.Subtotal.Add(wantTax).Add(wantSvc)

		assert.True(t, folio.GrandTotal.Equal(want),
			"tax=%s svc=%s: grandTotal %s, want %s", tc.tax, tc.svc, folio.GrandTotal, want)
	}
}

func TestComputeFolio_IsPureAndIdempotent(t *testing.T) {
	room := occupiedRoom(
		&hotel.Stay{GuestName: "g", CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 4)},
		hotel.Charge{ID: "c1", Category: hotel.CategoryMinibar, Name: "Water", Quantity: 3,
			UnitPrice: hotel.NewMoneyFromInt(3), Total: hotel.NewMoneyFromInt(9)},
	)
	before := room.Clone()

	first, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	require.NoError(t, err)
	second, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	require.NoError(t, err)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal), "recomputation must be stable")
	assert.Equal(t, before, room, "calculator must not mutate the room")
}

func TestComputeFolio_VacantRoom_IsZero(t *testing.T) {
	room := &hotel.Room{ID: "room-102", Number: "102", Type: "standard", Status: hotel.StatusAvailable}

	folio, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	require.NoError(t, err)

	assert.Equal(t, 0, folio.Nights)
	assert.True(t, folio.GrandTotal.IsZero())
}

func TestComputeFolio_UnknownRoomType_Fails(t *testing.T) {
	room := occupiedRoom(&hotel.Stay{GuestName: "g",
		CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 2)})
	room.Type = "penthouse"

	_, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	assert.ErrorIs(t, err, hotel.ErrRoomTypeNotFound)
}

func TestComputeFolio_PolicyChangeAffectsNextComputationOnly(t *testing.T) {
	// GIVEN: A folio computed under one policy
	// WHEN:  The policy changes
	// THEN:  Recomputation reflects the new rates; the stored charges
	//        are untouched (they hold prices, not tax)

	room := occupiedRoom(&hotel.Stay{GuestName: "g",
		CheckIn: date(2024, time.June, 1), CheckOut: date(2024, time.June, 2)})

	before, err := hotel.ComputeFolio(room, testCatalog(), testPolicy())
	require.NoError(t, err)

	raised := testPolicy()
	raised.TaxRatePercent = hotel.MustParseMoney("20")
	after, err := hotel.ComputeFolio(room, testCatalog(), raised)
	require.NoError(t, err)

	assert.True(t, after.Tax.GreaterThan(before.Tax))
	assert.True(t, after.Subtotal.Equal(before.Subtotal))
}
