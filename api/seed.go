/*
seed.go - Default hotel setup

PURPOSE:
  Installs the fixed hotel configuration: the room set (created once at
  setup, never added to or removed at runtime), the room-type catalog,
  the per-category service catalog, and the default rate policy.

  Seed() runs at first start when the store is empty. Reset() (behind
  POST /api/admin/reset) reinstalls the defaults over whatever is
  there; the booking trail is append-only and survives a reset.
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/folio-engine/hotel"
)

func defaultRoomTypes() []hotel.RoomType {
	return []hotel.RoomType{
		{ID: "standard", Name: "Standard", PricePerNight: hotel.NewMoneyFromInt(75), MaxOccupancy: 2,
			Amenities: []string{"wifi", "tv", "ac"}},
		{ID: "deluxe", Name: "Deluxe", PricePerNight: hotel.NewMoneyFromInt(120), MaxOccupancy: 3,
			Amenities: []string{"wifi", "tv", "ac", "minibar", "city-view"}},
		{ID: "suite", Name: "Suite", PricePerNight: hotel.NewMoneyFromInt(200), MaxOccupancy: 4,
			Amenities: []string{"wifi", "tv", "ac", "minibar", "living-room", "bathtub"}},
		{ID: "executive", Name: "Executive Suite", PricePerNight: hotel.NewMoneyFromInt(320), MaxOccupancy: 4,
			Amenities: []string{"wifi", "tv", "ac", "minibar", "living-room", "bathtub", "lounge-access"}},
	}
}

func defaultServiceItems() []hotel.ServiceItem {
	return []hotel.ServiceItem{
		{ID: "breakfast-tray", Category: hotel.CategoryRestaurant, Name: "Breakfast in room", UnitPrice: hotel.NewMoneyFromInt(18)},
		{ID: "whiskey-50", Category: hotel.CategoryMinibar, Name: "Whiskey 50ml", UnitPrice: hotel.NewMoneyFromInt(12)},
		{ID: "still-water", Category: hotel.CategoryMinibar, Name: "Still water", UnitPrice: hotel.NewMoneyFromInt(3)},
		{ID: "chocolate-bar", Category: hotel.CategoryMinibar, Name: "Chocolate bar", UnitPrice: hotel.NewMoneyFromInt(6)},
		{ID: "wash-fold", Category: hotel.CategoryLaundry, Name: "Wash & fold (per bag)", UnitPrice: hotel.NewMoneyFromInt(15)},
		{ID: "dry-clean", Category: hotel.CategoryLaundry, Name: "Dry cleaning (per item)", UnitPrice: hotel.NewMoneyFromInt(9)},
		{ID: "massage-60", Category: hotel.CategorySpa, Name: "Massage 60 min", UnitPrice: hotel.NewMoneyFromInt(80)},
		{ID: "sauna-pass", Category: hotel.CategorySpa, Name: "Sauna pass", UnitPrice: hotel.NewMoneyFromInt(25)},
		{ID: "trainer-session", Category: hotel.CategoryGym, Name: "Personal trainer session", UnitPrice: hotel.NewMoneyFromInt(40)},
		{ID: "airport-pickup", Category: hotel.CategoryTransport, Name: "Airport pickup", UnitPrice: hotel.NewMoneyFromInt(45)},
		{ID: "city-shuttle", Category: hotel.CategoryTransport, Name: "City shuttle", UnitPrice: hotel.NewMoneyFromInt(12)},
		{ID: "extra-bed", Category: hotel.CategoryOther, Name: "Extra bed", UnitPrice: hotel.NewMoneyFromInt(30)},
	}
}

func defaultPolicy() hotel.RatePolicy {
	return hotel.RatePolicy{
		TaxRatePercent:       hotel.MustParseMoney("7.5"),
		ServiceChargePercent: hotel.MustParseMoney("10"),
		CurrencySymbol:       "$",
	}
}

// defaultRooms lays out three floors of six rooms: four standard, one
// deluxe and one suite per floor, with 306 as the executive suite.
func defaultRooms(now time.Time) []*hotel.Room {
	var rooms []*hotel.Room
	for floor := 1; floor <= 3; floor++ {
		for n := 1; n <= 6; n++ {
			number := fmt.Sprintf("%d%02d", floor, n)
			var rt hotel.RoomTypeID
			switch {
			case floor == 3 && n == 6:
				rt = "executive"
			case n == 6:
				rt = "suite"
			case n == 5:
				rt = "deluxe"
			default:
				rt = "standard"
			}
			rooms = append(rooms, &hotel.Room{
				ID:        hotel.RoomID("room-" + number),
				Number:    number,
				Floor:     floor,
				Type:      rt,
				Status:    hotel.StatusAvailable,
				UpdatedAt: now,
			})
		}
	}
	return rooms
}

// Seed installs the defaults if the store holds no rooms yet.
func Seed(ctx context.Context, store hotel.Store) error {
	rooms, err := store.ListRooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		return nil
	}
	return Reset(ctx, store)
}

// Reset reinstalls the default setup, overwriting existing rooms and
// reference data. Bookings are append-only and are left alone.
func Reset(ctx context.Context, store hotel.Store) error {
	for _, rt := range defaultRoomTypes() {
		if err := store.SaveRoomType(ctx, rt); err != nil {
			return err
		}
	}
	for _, it := range defaultServiceItems() {
		if err := store.SaveServiceItem(ctx, it); err != nil {
			return err
		}
	}
	if err := store.SavePolicy(ctx, defaultPolicy()); err != nil {
		return err
	}
	for _, room := range defaultRooms(time.Now().UTC()) {
		if err := store.UpsertRoom(ctx, room); err != nil {
			return err
		}
	}
	return nil
}
