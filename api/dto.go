/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary fields are decimal.Decimal and serialize as quoted decimal
  strings, never floats. Dates travel as "YYYY-MM-DD", timestamps as
  RFC3339.

VALIDATION:
  Validation lives in the engine, not in DTOs. DTOs are pure data
  carriers; handlers only parse shapes and dates.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/folio-engine/hotel"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type RoomDTO struct {
	ID           string                   `json:"id"`
	Number       string                   `json:"number"`
	Floor        int                      `json:"floor"`
	Type         string                   `json:"type"`
	Status       string                   `json:"status"`
	Guest        *GuestDTO                `json:"guest,omitempty"`
	Charges      []ChargeDTO              `json:"charges"`
	Housekeeping []HousekeepingDTO        `json:"housekeeping"`
	DoNotDisturb bool                     `json:"doNotDisturb"`
	WakeUpTime   string                   `json:"wakeUpTime,omitempty"`
	UpdatedAt    string                   `json:"updatedAt"`
}

type GuestDTO struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	IDNumber string `json:"idNumber,omitempty"`
	Adults   int    `json:"adults"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Notes    string `json:"notes,omitempty"`
}

type ChargeDTO struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	PostedBy  string          `json:"postedBy,omitempty"`
	PostedAt  string          `json:"postedAt"`
}

type HousekeepingDTO struct {
	ID          string   `json:"id"`
	Tasks       []string `json:"tasks"`
	Note        string   `json:"note,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	CompletedAt string   `json:"completedAt,omitempty"`
}

type FolioDTO struct {
	Nights          int             `json:"nights"`
	RoomCharge      decimal.Decimal `json:"roomCharge"`
	ServiceSubtotal decimal.Decimal `json:"serviceSubtotal"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ServiceCharge   decimal.Decimal `json:"serviceCharge"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	Currency        string          `json:"currency"`
}

type BookingDTO struct {
	ID           string          `json:"id"`
	RoomID       string          `json:"roomId"`
	RoomNumber   string          `json:"roomNumber"`
	GuestName    string          `json:"guestName"`
	CheckIn      string          `json:"checkIn"`
	CheckOut     string          `json:"checkOut"`
	RoomType     string          `json:"roomType"`
	RatePerNight decimal.Decimal `json:"ratePerNight"`
	Status       string          `json:"status"`
	CreatedBy    string          `json:"createdBy,omitempty"`
	CreatedAt    string          `json:"createdAt"`
	CompletedAt  string          `json:"completedAt,omitempty"`
}

type RoomTypeDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	MaxOccupancy  int             `json:"maxOccupancy"`
	Amenities     []string        `json:"amenities"`
}

type ServiceItemDTO struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CatalogDTO struct {
	RoomTypes    []RoomTypeDTO    `json:"roomTypes"`
	ServiceItems []ServiceItemDTO `json:"serviceItems"`
}

type SettingsDTO struct {
	TaxRatePercent       decimal.Decimal `json:"taxRatePercent"`
	ServiceChargePercent decimal.Decimal `json:"serviceChargePercent"`
	CurrencySymbol       string          `json:"currencySymbol"`
}

type DashboardDTO struct {
	TotalRooms        int             `json:"totalRooms"`
	Available         int             `json:"available"`
	Occupied          int             `json:"occupied"`
	Reserved          int             `json:"reserved"`
	Maintenance       int             `json:"maintenance"`
	OccupancyPercent  int             `json:"occupancyPercent"`
	RoomRevenue       decimal.Decimal `json:"roomRevenue"`
	ServiceRevenue    decimal.Decimal `json:"serviceRevenue"`
	ActiveBookings    int             `json:"activeBookings"`
	CompletedBookings int             `json:"completedBookings"`
	Currency          string          `json:"currency"`
}

type CheckoutResponse struct {
	Room  RoomDTO  `json:"room"`
	Folio FolioDTO `json:"folio"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CheckInRequest struct {
	GuestName string `json:"guestName"`
	Phone     string `json:"phone"`
	IDNumber  string `json:"idNumber"`
	CheckIn   string `json:"checkIn"`  // YYYY-MM-DD
	CheckOut  string `json:"checkOut"` // YYYY-MM-DD
	Adults    int    `json:"adults"`
	Notes     string `json:"notes"`
}

// PostChargesRequest carries either catalog lines or one explicit-price
// charge (the restaurant collaborator's path), never both.
type PostChargesRequest struct {
	Items    []PostLineRequest  `json:"items,omitempty"`
	External *ExternalChargeReq `json:"external,omitempty"`
}

type PostLineRequest struct {
	Category string `json:"category"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type ExternalChargeReq struct {
	Category  string          `json:"category"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type WakeUpRequest struct {
	Time string `json:"time"` // HH:MM
}

type HousekeepingCreateRequest struct {
	Tasks []string `json:"tasks"`
	Note  string   `json:"note"`
}

type UpdateSettingsRequest struct {
	TaxRatePercent       decimal.Decimal `json:"taxRatePercent"`
	ServiceChargePercent decimal.Decimal `json:"serviceChargePercent"`
	CurrencySymbol       string          `json:"currencySymbol"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

const dateLayout = "2006-01-02"

func toRoomDTO(room *hotel.Room) RoomDTO {
	dto := RoomDTO{
		ID:           string(room.ID),
		Number:       room.Number,
		Floor:        room.Floor,
		Type:         string(room.Type),
		Status:       string(room.Status),
		Charges:      make([]ChargeDTO, 0, len(room.Charges)),
		Housekeeping: make([]HousekeepingDTO, 0, len(room.Housekeeping)),
		DoNotDisturb: room.DoNotDisturb,
		WakeUpTime:   room.WakeUpTime,
		UpdatedAt:    room.UpdatedAt.Format(time.RFC3339),
	}
	if room.Stay != nil {
		dto.Guest = &GuestDTO{
			Name:     room.Stay.GuestName,
			Phone:    room.Stay.Phone,
			IDNumber: room.Stay.IDNumber,
			Adults:   room.Stay.Adults,
			CheckIn:  room.Stay.CheckIn.Format(dateLayout),
			CheckOut: room.Stay.CheckOut.Format(dateLayout),
			Notes:    room.Stay.Notes,
		}
	}
	for _, c := range room.Charges {
		dto.Charges = append(dto.Charges, ChargeDTO{
			ID:        string(c.ID),
			Category:  string(c.Category),
			Name:      c.Name,
			Quantity:  c.Quantity,
			UnitPrice: c.UnitPrice,
			Total:     c.Total,
			PostedBy:  c.PostedBy,
			PostedAt:  c.PostedAt.Format(time.RFC3339),
		})
	}
	for _, h := range room.Housekeeping {
		hd := HousekeepingDTO{
			ID:        string(h.ID),
			Tasks:     h.Tasks,
			Note:      h.Note,
			Status:    string(h.Status),
			CreatedAt: h.CreatedAt.Format(time.RFC3339),
		}
		if h.CompletedAt != nil {
			hd.CompletedAt = h.CompletedAt.Format(time.RFC3339)
		}
		dto.Housekeeping = append(dto.Housekeeping, hd)
	}
	return dto
}

func toFolioDTO(f hotel.Folio) FolioDTO {
	return FolioDTO{
		Nights:          f.Nights,
		RoomCharge:      f.RoomCharge,
		ServiceSubtotal: f.ServiceSubtotal,
		Subtotal:        f.Subtotal,
		Tax:             f.Tax,
		ServiceCharge:   f.ServiceCharge,
		GrandTotal:      f.GrandTotal,
		Currency:        f.CurrencySymbol,
	}
}

func toBookingDTO(b hotel.Booking) BookingDTO {
	dto := BookingDTO{
		ID:           string(b.ID),
		RoomID:       string(b.RoomID),
		RoomNumber:   b.RoomNumber,
		GuestName:    b.GuestName,
		CheckIn:      b.CheckIn.Format(dateLayout),
		CheckOut:     b.CheckOut.Format(dateLayout),
		RoomType:     string(b.RoomType),
		RatePerNight: b.RatePerNight,
		Status:       string(b.Status),
		CreatedBy:    b.CreatedBy,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
	if b.CompletedAt != nil {
		dto.CompletedAt = b.CompletedAt.Format(time.RFC3339)
	}
	return dto
}
