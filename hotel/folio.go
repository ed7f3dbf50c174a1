/*
folio.go - Folio calculation

PURPOSE:
  Computes the running account for a stay: room charge, service
  subtotal, tax, service charge, grand total. This is the one place
  folio math lives; every surface that displays money (room card,
  guest list, checkout, invoice, dashboard) calls ComputeFolio on
  demand, so edits to charges are always reflected without a separate
  recompute step. Totals are never persisted.

KEY INSIGHT - NIGHTS:
  nights = max(1, ceil((checkOut - checkIn) / 24h))

  A same-day or even inverted date pair still bills one night. This is
  deliberate business policy: rejecting such pairs would silently alter
  historical invoice amounts for edge-case stays.

ROUNDING ORDER:
  tax and serviceCharge are each rounded half-up to the nearest integer
  currency unit BEFORE summing into grandTotal; grandTotal is not
  rounded again. This ordering must hold for bit-exact invoices.

WORKED EXAMPLE:
  Standard room $75/night, 2024-06-01 → 2024-06-04 = 3 nights = $225.
  One minibar charge 2 × $12 = $24. Subtotal $249.
  Tax 7.5% → round(18.675) = 19. Service 10% → round(24.9) = 25.
  Grand total $293.

SEE ALSO:
  - report.go: Folds ComputeFolio over all rooms for the dashboard
*/
package hotel

import (
	"math"

	"github.com/shopspring/decimal"
)

// Folio is the derived account of a stay. It is a value, recomputed on
// demand, never stored.
type Folio struct {
	Nights          int
	RoomCharge      Money
	ServiceSubtotal Money
	Subtotal        Money
	Tax             Money
	ServiceCharge   Money
	GrandTotal      Money
	CurrencySymbol  string
}

var oneHundred = decimal.NewFromInt(100)

// Nights returns the billable night count for a stay: the ceiling of
// the day difference, floored at one.
func Nights(stay *Stay) int {
	if stay == nil {
		return 0
	}
	hours := stay.CheckOut.Sub(stay.CheckIn).Hours()
	nights := int(math.Ceil(hours / 24))
	if nights < 1 {
		return 1
	}
	return nights
}

// ComputeFolio derives the folio for a room. Pure: it never mutates the
// room, and identical inputs always yield an identical folio.
//
// A vacant room (no stay) yields a zero folio with the policy's
// currency symbol; its charge list is empty by invariant.
func ComputeFolio(room *Room, catalog *RoomTypeCatalog, policy RatePolicy) (Folio, error) {
	folio := Folio{
		RoomCharge:      decimal.Zero,
		ServiceSubtotal: decimal.Zero,
		Subtotal:        decimal.Zero,
		Tax:             decimal.Zero,
		ServiceCharge:   decimal.Zero,
		GrandTotal:      decimal.Zero,
		CurrencySymbol:  policy.CurrencySymbol,
	}

	if room.Stay != nil {
		rt, ok := catalog.Lookup(room.Type)
		if !ok {
			return Folio{}, ErrRoomTypeNotFound
		}
		folio.Nights = Nights(room.Stay)
		folio.RoomCharge = rt.PricePerNight.Mul(decimal.NewFromInt(int64(folio.Nights)))
	}

	folio.ServiceSubtotal = room.ServiceSubtotal()
	folio.Subtotal = folio.RoomCharge.Add(folio.ServiceSubtotal)

	// Each component rounds independently before the final sum.
	folio.Tax = RoundCurrency(folio.Subtotal.Mul(policy.TaxRatePercent).Div(oneHundred))
	folio.ServiceCharge = RoundCurrency(folio.Subtotal.Mul(policy.ServiceChargePercent).Div(oneHundred))
	folio.GrandTotal = folio.Subtotal.Add(folio.Tax).Add(folio.ServiceCharge)

	return folio, nil
}
