/*
report.go - Dashboard aggregation

PURPOSE:
  Read-only folds over the room collection for the dashboard: counts
  per status, occupancy percentage, room and service revenue.

SNAPSHOT SEMANTICS:
  Revenue here is a point-in-time snapshot, not a historical
  accumulator: only currently-held charges and currently-occupied room
  charges count. A room that checked out an hour ago contributes
  nothing. The aggregate deliberately surfaces active/completed
  booking counts alongside, and the booking history carries the data a
  historical report would need, so the limitation is visible rather
  than silently replicated.
*/
package hotel

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
)

// DashboardStats is the reporting aggregate consumed by the dashboard.
type DashboardStats struct {
	TotalRooms       int
	AvailableCount   int
	OccupiedCount    int
	ReservedCount    int
	MaintenanceCount int

	// OccupancyPercent is occupied/total, rounded to the nearest
	// integer percent.
	OccupancyPercent int

	// RoomRevenue sums roomCharge over currently occupied rooms.
	// ServiceRevenue sums currently-held charges. Both are snapshots.
	RoomRevenue    Money
	ServiceRevenue Money

	ActiveBookings    int
	CompletedBookings int

	CurrencySymbol string
}

// Report folds over all rooms and the booking history.
func Report(ctx context.Context, engine *Engine) (DashboardStats, error) {
	rooms, err := engine.Rooms(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	policy, err := engine.Policy(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalRooms:     len(rooms),
		RoomRevenue:    decimal.Zero,
		ServiceRevenue: decimal.Zero,
		CurrencySymbol: policy.CurrencySymbol,
	}

	for _, room := range rooms {
		switch room.Status {
		case StatusAvailable:
			stats.AvailableCount++
		case StatusOccupied:
			stats.OccupiedCount++
		case StatusReserved:
			stats.ReservedCount++
		case StatusMaintenance:
			stats.MaintenanceCount++
		}

		stats.ServiceRevenue = stats.ServiceRevenue.Add(room.ServiceSubtotal())

		if room.Occupied() {
			folio, err := ComputeFolio(room, engine.RoomTypes(), policy)
			if err != nil {
				return DashboardStats{}, err
			}
			stats.RoomRevenue = stats.RoomRevenue.Add(folio.RoomCharge)
		}
	}

	if stats.TotalRooms > 0 {
		stats.OccupancyPercent = int(math.Round(float64(stats.OccupiedCount) / float64(stats.TotalRooms) * 100))
	}

	bookings, err := engine.Bookings(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	for _, b := range bookings {
		if b.Status == BookingActive {
			stats.ActiveBookings++
		} else {
			stats.CompletedBookings++
		}
	}

	return stats, nil
}
