/*
Package hotel provides the room lifecycle and folio engine.

PURPOSE:
  This package contains the core types and algorithms governing a
  room's occupancy status, the guest stay it hosts, the ledger of
  charges posted against that stay, and the derived monetary totals
  (subtotal, tax, service charge, grand total) shown at every
  touchpoint: room card, guest list, checkout, invoice, dashboard.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money:               A decimal monetary amount (never float64)
  - Room / Stay:         The mutable unit of occupancy and its guest data
  - Charge:              An immutable billable line item
  - RatePolicy:          Hotel-wide tax and service-charge percentages
  - HousekeepingRequest: Per-room task request, independent lifecycle

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Strong typing for IDs prevents mixing room/booking IDs
  3. Immutability: Charges are never edited, only removed whole
  4. Derivation: Folio totals are computed, never stored

INVARIANTS:
  - Room.Stay is non-nil iff Room.Status == StatusOccupied
  - Room.Charges is empty whenever Room.Stay is nil
  - Charge.Total == Charge.UnitPrice * Charge.Quantity

SEE ALSO:
  - room.go:   Room aggregate and transition guards
  - folio.go:  Folio calculation from a room + policy
  - ledger.go: Charge posting and removal
  - booking.go: Append-only stay history
*/
package hotel

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal monetary amount
// =============================================================================

// Money is a monetary amount in the hotel's (single) currency.
// All folio math happens on Money; float64 never touches an invoice.
type Money = decimal.Decimal

func NewMoney(value float64) Money      { return decimal.NewFromFloat(value) }
func NewMoneyFromInt(value int64) Money { return decimal.NewFromInt(value) }

// MustParseMoney parses s as a decimal amount, returning zero on failure.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundCurrency rounds to the nearest integer currency unit, half up.
// Tax and service charge are each rounded this way independently before
// summing into the grand total; the ordering is load-bearing for
// bit-exact invoice totals.
func RoundCurrency(m Money) Money { return m.Round(0) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RoomID string
type RoomTypeID string
type ChargeID string
type BookingID string
type RequestID string

// =============================================================================
// ROOM STATUS
// =============================================================================

type RoomStatus string

const (
	StatusAvailable   RoomStatus = "available"
	StatusOccupied    RoomStatus = "occupied"
	StatusReserved    RoomStatus = "reserved"
	StatusMaintenance RoomStatus = "maintenance"

	// StatusCheckout is a display-only substate of Occupied shown during
	// the payment step. It is never persisted: the stored status stays
	// Occupied until checkout is confirmed.
	StatusCheckout RoomStatus = "checkout"
)

// Persistable reports whether the status may be written to a store.
func (s RoomStatus) Persistable() bool { return s != StatusCheckout }

// =============================================================================
// STAY - Guest occupancy data, present only while Occupied
// =============================================================================

type Stay struct {
	GuestName string
	Phone     string
	IDNumber  string
	Adults    int
	CheckIn   time.Time
	CheckOut  time.Time
	Notes     string
}

// =============================================================================
// CHARGE - One billable line item
// =============================================================================

type ChargeCategory string

const (
	CategoryRestaurant ChargeCategory = "restaurant"
	CategoryMinibar    ChargeCategory = "minibar"
	CategoryLaundry    ChargeCategory = "laundry"
	CategorySpa        ChargeCategory = "spa"
	CategoryGym        ChargeCategory = "gym"
	CategoryTransport  ChargeCategory = "transport"
	CategoryOther      ChargeCategory = "other"
)

// ChargeCategories lists every valid category, in display order.
var ChargeCategories = []ChargeCategory{
	CategoryRestaurant, CategoryMinibar, CategoryLaundry,
	CategorySpa, CategoryGym, CategoryTransport, CategoryOther,
}

func (c ChargeCategory) Valid() bool {
	for _, k := range ChargeCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Charge is immutable once posted. Corrections are whole-line removals,
// never partial edits.
type Charge struct {
	ID       ChargeID
	Category ChargeCategory
	Name     string
	Quantity int
	UnitPrice Money
	Total     Money

	// Audit fields
	PostedBy string
	PostedAt time.Time
}

// =============================================================================
// HOUSEKEEPING - Independent lifecycle, untouched by checkout
// =============================================================================

type HousekeepingStatus string

const (
	HousekeepingPending HousekeepingStatus = "pending"
	HousekeepingDone    HousekeepingStatus = "done"
)

type HousekeepingRequest struct {
	ID          RequestID
	Tasks       []string
	Note        string
	Status      HousekeepingStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// =============================================================================
// RATE POLICY - Externally configured, read-only to the engine
// =============================================================================

// RatePolicy carries the hotel-wide tax and service-charge percentages.
// Changes take effect on the next folio computation, never retroactively
// on stored charges.
type RatePolicy struct {
	TaxRatePercent       decimal.Decimal
	ServiceChargePercent decimal.Decimal
	CurrencySymbol       string
}

// =============================================================================
// ROOM TYPE - Reference data, no behavior
// =============================================================================

type RoomType struct {
	ID            RoomTypeID
	Name          string
	PricePerNight Money
	MaxOccupancy  int
	Amenities     []string
}

// ServiceItem is one entry of a category's fixed price catalog.
type ServiceItem struct {
	ID        string
	Category  ChargeCategory
	Name      string
	UnitPrice Money
}
