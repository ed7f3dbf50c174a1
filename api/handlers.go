/*
handlers.go - HTTP API handlers for the front-desk engine

PURPOSE:
  Exposes the room lifecycle and folio engine via REST API. Handles
  HTTP request/response and JSON shapes, delegates everything else to
  the engine.

ENDPOINTS:
  Rooms:
    GET    /api/rooms                     Room grid
    GET    /api/rooms/{id}                Room snapshot
    GET    /api/rooms/{id}/folio          Derived folio

  Lifecycle:
    POST   /api/rooms/{id}/checkin
    POST   /api/rooms/{id}/checkout       Returns final folio
    POST   /api/rooms/{id}/reserve
    POST   /api/rooms/{id}/reservation/cancel
    POST   /api/rooms/{id}/maintenance
    POST   /api/rooms/{id}/available

  Charges:
    POST   /api/rooms/{id}/charges        Catalog batch or external post
    DELETE /api/rooms/{id}/charges/{chargeID}

  In-stay:
    POST   /api/rooms/{id}/dnd
    POST   /api/rooms/{id}/wakeup
    DELETE /api/rooms/{id}/wakeup

  Housekeeping:
    POST   /api/rooms/{id}/housekeeping
    POST   /api/rooms/{id}/housekeeping/{reqID}/done

  Elsewhere:
    GET    /api/bookings
    GET    /api/catalog
    GET    /api/settings | PUT /api/settings
    GET    /api/dashboard
    POST   /api/admin/reset

ACTING USER:
  Authentication lives outside this service. The X-Acting-User header
  names the actor for audit fields only; it grants nothing.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Room/record not found
  - 409: Operation not legal in the room's current status
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/folio-engine/hotel"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *hotel.Engine
	Store  hotel.Store
}

// NewHandler creates a new handler around the engine.
func NewHandler(engine *hotel.Engine, store hotel.Store) *Handler {
	return &Handler{Engine: engine, Store: store}
}

func actor(r *http.Request) string {
	if a := r.Header.Get("X-Acting-User"); a != "" {
		return a
	}
	return "front-desk"
}

func roomID(r *http.Request) hotel.RoomID {
	return hotel.RoomID(chi.URLParam(r, "id"))
}

// =============================================================================
// ROOM HANDLERS
// =============================================================================

// ListRooms returns the room grid.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Engine.Rooms(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		dtos[i] = toRoomDTO(room)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRoom returns a single room snapshot.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.Engine.Room(r.Context(), roomID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// GetFolio returns the room's derived folio under the current policy.
func (h *Handler) GetFolio(w http.ResponseWriter, r *http.Request) {
	folio, err := h.Engine.Folio(r.Context(), roomID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFolioDTO(folio))
}

// =============================================================================
// LIFECYCLE HANDLERS
// =============================================================================

// CheckIn moves a room to Occupied and opens a booking.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, err := parseDate(req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid checkIn date (use YYYY-MM-DD)", err)
		return
	}
	out, err := parseDate(req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid checkOut date (use YYYY-MM-DD)", err)
		return
	}

	room, err := h.Engine.CheckIn(r.Context(), roomID(r), hotel.CheckInRequest{
		GuestName: req.GuestName,
		Phone:     req.Phone,
		IDNumber:  req.IDNumber,
		CheckIn:   in,
		CheckOut:  out,
		Adults:    req.Adults,
		Notes:     req.Notes,
	}, actor(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// CheckOut clears the stay and returns the final folio as the receipt.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	room, folio, err := h.Engine.CheckOut(r.Context(), roomID(r), actor(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckoutResponse{Room: toRoomDTO(room), Folio: toFolioDTO(folio)})
}

func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	h.writeTransition(w, r, h.Engine.Reserve)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.writeTransition(w, r, h.Engine.CancelReservation)
}

func (h *Handler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	h.writeTransition(w, r, h.Engine.SetMaintenance)
}

func (h *Handler) MarkAvailable(w http.ResponseWriter, r *http.Request) {
	h.writeTransition(w, r, h.Engine.MarkAvailable)
}

func (h *Handler) writeTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id hotel.RoomID) (*hotel.Room, error)) {
	room, err := op(r.Context(), roomID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// =============================================================================
// CHARGE HANDLERS
// =============================================================================

// PostCharges appends a batch of catalog items or one explicit-price
// charge (the restaurant module's path) to an occupied room.
func (h *Handler) PostCharges(w http.ResponseWriter, r *http.Request) {
	var req PostChargesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var room *hotel.Room
	var err error
	switch {
	case req.External != nil:
		room, err = h.Engine.PostExternalCharge(r.Context(), roomID(r), hotel.ExternalCharge{
			Category:  hotel.ChargeCategory(req.External.Category),
			Name:      req.External.Name,
			Quantity:  req.External.Quantity,
			UnitPrice: req.External.UnitPrice,
		}, actor(r))
	default:
		lines := make([]hotel.PostLine, len(req.Items))
		for i, it := range req.Items {
			lines[i] = hotel.PostLine{
				Category: hotel.ChargeCategory(it.Category),
				ItemID:   it.ItemID,
				Quantity: it.Quantity,
			}
		}
		room, err = h.Engine.PostCatalogCharges(r.Context(), roomID(r), lines, actor(r))
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

// RemoveCharge removes one line item; unknown IDs are a no-op.
func (h *Handler) RemoveCharge(w http.ResponseWriter, r *http.Request) {
	chargeID := hotel.ChargeID(chi.URLParam(r, "chargeID"))
	room, err := h.Engine.RemoveCharge(r.Context(), roomID(r), chargeID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// =============================================================================
// IN-STAY HANDLERS
// =============================================================================

func (h *Handler) ToggleDND(w http.ResponseWriter, r *http.Request) {
	room, err := h.Engine.ToggleDND(r.Context(), roomID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

func (h *Handler) SetWakeUp(w http.ResponseWriter, r *http.Request) {
	var req WakeUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	room, err := h.Engine.SetWakeUp(r.Context(), roomID(r), req.Time)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

func (h *Handler) ClearWakeUp(w http.ResponseWriter, r *http.Request) {
	room, err := h.Engine.ClearWakeUp(r.Context(), roomID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// =============================================================================
// HOUSEKEEPING HANDLERS
// =============================================================================

func (h *Handler) AddHousekeeping(w http.ResponseWriter, r *http.Request) {
	var req HousekeepingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	room, err := h.Engine.AddHousekeepingRequest(r.Context(), roomID(r), req.Tasks, req.Note)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

func (h *Handler) CompleteHousekeeping(w http.ResponseWriter, r *http.Request) {
	reqID := hotel.RequestID(chi.URLParam(r, "reqID"))
	room, err := h.Engine.CompleteHousekeeping(r.Context(), roomID(r), reqID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// =============================================================================
// BOOKING / CATALOG / SETTINGS / DASHBOARD
// =============================================================================

// ListBookings returns the stay audit trail, newest first.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Engine.Bookings(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCatalog returns room types and the service price catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListRoomTypes(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	items, err := h.Store.ListServiceItems(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	catalog := CatalogDTO{
		RoomTypes:    make([]RoomTypeDTO, len(types)),
		ServiceItems: make([]ServiceItemDTO, len(items)),
	}
	for i, rt := range types {
		catalog.RoomTypes[i] = RoomTypeDTO{
			ID:            string(rt.ID),
			Name:          rt.Name,
			PricePerNight: rt.PricePerNight,
			MaxOccupancy:  rt.MaxOccupancy,
			Amenities:     rt.Amenities,
		}
	}
	for i, it := range items {
		catalog.ServiceItems[i] = ServiceItemDTO{
			ID:        it.ID,
			Category:  string(it.Category),
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
		}
	}
	writeJSON(w, http.StatusOK, catalog)
}

// GetSettings returns the rate policy.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Engine.Policy(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{
		TaxRatePercent:       policy.TaxRatePercent,
		ServiceChargePercent: policy.ServiceChargePercent,
		CurrencySymbol:       policy.CurrencySymbol,
	})
}

// UpdateSettings replaces the rate policy. Takes effect on the next
// folio computation; stored charges are untouched.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TaxRatePercent.IsNegative() || req.ServiceChargePercent.IsNegative() {
		writeError(w, http.StatusBadRequest, "Rates must not be negative", nil)
		return
	}

	policy := hotel.RatePolicy{
		TaxRatePercent:       req.TaxRatePercent,
		ServiceChargePercent: req.ServiceChargePercent,
		CurrencySymbol:       req.CurrencySymbol,
	}
	if err := h.Store.SavePolicy(r.Context(), policy); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsDTO{
		TaxRatePercent:       policy.TaxRatePercent,
		ServiceChargePercent: policy.ServiceChargePercent,
		CurrencySymbol:       policy.CurrencySymbol,
	})
}

// GetDashboard returns the point-in-time reporting aggregate.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := hotel.Report(r.Context(), h.Engine)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardDTO{
		TotalRooms:        stats.TotalRooms,
		Available:         stats.AvailableCount,
		Occupied:          stats.OccupiedCount,
		Reserved:          stats.ReservedCount,
		Maintenance:       stats.MaintenanceCount,
		OccupancyPercent:  stats.OccupancyPercent,
		RoomRevenue:       stats.RoomRevenue,
		ServiceRevenue:    stats.ServiceRevenue,
		ActiveBookings:    stats.ActiveBookings,
		CompletedBookings: stats.CompletedBookings,
		Currency:          stats.CurrencySymbol,
	})
}

// ResetDatabase reinstalls the default hotel setup (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := Reset(r.Context(), h.Store); err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Engine.ReloadCatalogs(r.Context()); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	var verr *hotel.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case hotel.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case hotel.IsStateError(err):
		writeError(w, http.StatusConflict, "Operation not allowed in current status", err)
	case hotel.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
