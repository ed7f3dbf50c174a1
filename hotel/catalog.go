/*
catalog.go - Room type and service catalogs

PURPOSE:
  Reference data the engine reads but never writes: the price/capacity
  lookup per room type and the fixed per-category price list charges
  are posted from. Both are shared, read-only, and assumed externally
  consistent for the duration of any single computation.

SEE ALSO:
  - folio.go:  Looks up the nightly rate
  - ledger.go: Looks up service item prices
  - api/seed.go: Installs the defaults at first start
*/
package hotel

// =============================================================================
// ROOM TYPE CATALOG
// =============================================================================

// RoomTypeCatalog is an immutable lookup of room types by ID.
type RoomTypeCatalog struct {
	types map[RoomTypeID]RoomType
	order []RoomTypeID
}

func NewRoomTypeCatalog(types []RoomType) *RoomTypeCatalog {
	c := &RoomTypeCatalog{types: make(map[RoomTypeID]RoomType, len(types))}
	for _, rt := range types {
		if _, dup := c.types[rt.ID]; dup {
			continue
		}
		c.types[rt.ID] = rt
		c.order = append(c.order, rt.ID)
	}
	return c
}

func (c *RoomTypeCatalog) Lookup(id RoomTypeID) (RoomType, bool) {
	rt, ok := c.types[id]
	return rt, ok
}

// List returns the types in insertion order.
func (c *RoomTypeCatalog) List() []RoomType {
	out := make([]RoomType, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.types[id])
	}
	return out
}

// =============================================================================
// SERVICE CATALOG - Fixed prices per charge category
// =============================================================================

type ServiceCatalog struct {
	items map[ChargeCategory][]ServiceItem
}

func NewServiceCatalog(items []ServiceItem) *ServiceCatalog {
	c := &ServiceCatalog{items: make(map[ChargeCategory][]ServiceItem)}
	for _, it := range items {
		c.items[it.Category] = append(c.items[it.Category], it)
	}
	return c
}

// Lookup finds an item by category and ID.
func (c *ServiceCatalog) Lookup(category ChargeCategory, itemID string) (ServiceItem, bool) {
	for _, it := range c.items[category] {
		if it.ID == itemID {
			return it, true
		}
	}
	return ServiceItem{}, false
}

// Items returns the items of one category.
func (c *ServiceCatalog) Items(category ChargeCategory) []ServiceItem {
	return append([]ServiceItem(nil), c.items[category]...)
}

// All returns every item, grouped by category in display order.
func (c *ServiceCatalog) All() []ServiceItem {
	var out []ServiceItem
	for _, cat := range ChargeCategories {
		out = append(out, c.items[cat]...)
	}
	return out
}
