/*
ledger.go - Charge ledger

PURPOSE:
  Builds and validates billable line items before they are appended to
  an occupied room. Two posting paths share one contract:

  1. Catalog post: the service UI posts (category, itemID, quantity)
     lines; unit prices come from the category's fixed catalog.
  2. External post: the restaurant/order module posts a pre-aggregated
     total with category "restaurant" and an explicit unit price.

VALIDATION:
  - A batch with no line of quantity > 0 is rejected whole.
  - Lines with quantity <= 0 are dropped, not billed.
  - Unknown catalog items reject the whole batch (no partial posts).
  - External posts require a name and a non-negative unit price.

Charges are immutable once built: Total is fixed at UnitPrice × Quantity
and corrections are whole-line removals.

SEE ALSO:
  - engine.go: Guards room status and appends/removes charges
  - catalog.go: The fixed price catalog
*/
package hotel

import (
	"time"

	"github.com/google/uuid"
)

// PostLine is one line of a catalog batch post.
type PostLine struct {
	Category ChargeCategory
	ItemID   string
	Quantity int
}

// ExternalCharge is a charge with an explicit price, used by external
// collaborators (the restaurant module posts pre-aggregated order
// totals this way).
type ExternalCharge struct {
	Category  ChargeCategory
	Name      string
	Quantity  int
	UnitPrice Money
}

// ChargeLedger turns posting requests into immutable Charge records.
type ChargeLedger struct {
	catalog *ServiceCatalog
}

func NewChargeLedger(catalog *ServiceCatalog) *ChargeLedger {
	return &ChargeLedger{catalog: catalog}
}

func newCharge(category ChargeCategory, name string, qty int, unit Money, actor string, now time.Time) Charge {
	return Charge{
		ID:        ChargeID(uuid.NewString()),
		Category:  category,
		Name:      name,
		Quantity:  qty,
		UnitPrice: unit,
		Total:     unit.Mul(NewMoneyFromInt(int64(qty))),
		PostedBy:  actor,
		PostedAt:  now,
	}
}

// BuildCatalogCharges validates a batch of catalog lines and returns the
// charges to append. Rejects the whole batch if no line has a positive
// quantity or if any referenced item is unknown.
func (l *ChargeLedger) BuildCatalogCharges(lines []PostLine, actor string, now time.Time) ([]Charge, error) {
	var charges []Charge
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if !line.Category.Valid() {
			return nil, invalidField("category", "unknown charge category "+string(line.Category))
		}
		item, ok := l.catalog.Lookup(line.Category, line.ItemID)
		if !ok {
			return nil, ErrServiceItemNotFound
		}
		charges = append(charges, newCharge(item.Category, item.Name, line.Quantity, item.UnitPrice, actor, now))
	}
	if len(charges) == 0 {
		return nil, invalidField("items", "no items with quantity > 0")
	}
	return charges, nil
}

// BuildExternalCharge validates an explicit-price charge.
func (l *ChargeLedger) BuildExternalCharge(ext ExternalCharge, actor string, now time.Time) (Charge, error) {
	if !ext.Category.Valid() {
		return Charge{}, invalidField("category", "unknown charge category "+string(ext.Category))
	}
	if ext.Name == "" {
		return Charge{}, invalidField("name", "required")
	}
	if ext.Quantity < 1 {
		return Charge{}, invalidField("quantity", "must be at least 1")
	}
	if ext.UnitPrice.IsNegative() {
		return Charge{}, invalidField("unitPrice", "must not be negative")
	}
	return newCharge(ext.Category, ext.Name, ext.Quantity, ext.UnitPrice, actor, now), nil
}
