/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the full persistence surface (hotel.Store) using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  hotel.RoomStore:     Room snapshots (last write wins)
  hotel.BookingStore:  Append-only stay history
  hotel.SettingsStore: Rate policy, room types, service catalog

KEY TABLES:
  rooms:          One row per room; stay, charges and housekeeping are
                  JSON columns (the room is stored and loaded as one
                  snapshot, matching engine semantics)
  bookings:       Append-only audit trail of stays
  room_types:     Reference data
  service_items:  Fixed per-category price catalog
  settings:       Single-row rate policy

INVARIANT ENFORCEMENT:
  idx_bookings_single_active is a partial unique index on
  bookings(room_id) WHERE status='active'. A second Active booking for
  the same room fails the insert and maps to
  hotel.ErrActiveBookingExists, whatever the caller did wrong.

BOOKING WRITES:
  AppendBooking inserts; CompleteActiveBooking is the single UPDATE and
  only ever moves active -> completed. No DELETE exists on bookings.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/frontdesk.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - hotel/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/folio-engine/hotel"
)

// Store implements hotel.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Rooms (fixed set, one snapshot row per room)
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		floor INTEGER NOT NULL,
		room_type TEXT NOT NULL,
		status TEXT NOT NULL,
		stay_json TEXT,
		charges_json TEXT NOT NULL DEFAULT '[]',
		housekeeping_json TEXT NOT NULL DEFAULT '[]',
		do_not_disturb INTEGER NOT NULL DEFAULT 0,
		wake_up_time TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rooms_status ON rooms(status);

	-- Bookings (append-only audit trail)
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		room_number TEXT NOT NULL,
		guest_name TEXT NOT NULL,
		check_in TEXT NOT NULL,
		check_out TEXT NOT NULL,
		room_type TEXT NOT NULL,
		rate_per_night TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_room ON bookings(room_id);
	CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status);

	-- CRITICAL: at most one Active booking per room, ever.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_single_active
		ON bookings(room_id) WHERE status = 'active';

	-- Room types (reference data)
	CREATE TABLE IF NOT EXISTS room_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price_per_night TEXT NOT NULL,
		max_occupancy INTEGER NOT NULL DEFAULT 2,
		amenities_json TEXT NOT NULL DEFAULT '[]'
	);

	-- Service catalog (fixed per-category prices)
	CREATE TABLE IF NOT EXISTS service_items (
		id TEXT NOT NULL,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		PRIMARY KEY (category, id)
	);

	-- Settings (single-row rate policy)
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		tax_rate_percent TEXT NOT NULL,
		service_charge_percent TEXT NOT NULL,
		currency_symbol TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROOM STORE (hotel.RoomStore interface)
// =============================================================================

func (s *Store) GetRoom(ctx context.Context, id hotel.RoomID) (*hotel.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, number, floor, room_type, status, stay_json, charges_json,
		       housekeeping_json, do_not_disturb, wake_up_time, updated_at
		FROM rooms WHERE id = ?`, id)

	room, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return nil, hotel.ErrRoomNotFound
	}
	return room, err
}

func (s *Store) ListRooms(ctx context.Context) ([]*hotel.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, floor, room_type, status, stay_json, charges_json,
		       housekeeping_json, do_not_disturb, wake_up_time, updated_at
		FROM rooms ORDER BY floor, number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*hotel.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *Store) UpsertRoom(ctx context.Context, room *hotel.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return upsertRoom(ctx, s.db, room)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertRoom(ctx context.Context, db execer, room *hotel.Room) error {
	stayJSON, chargesJSON, housekeepingJSON, err := encodeRoomJSON(room)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO rooms
		(id, number, floor, room_type, status, stay_json, charges_json,
		 housekeeping_json, do_not_disturb, wake_up_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			floor = excluded.floor,
			room_type = excluded.room_type,
			status = excluded.status,
			stay_json = excluded.stay_json,
			charges_json = excluded.charges_json,
			housekeeping_json = excluded.housekeeping_json,
			do_not_disturb = excluded.do_not_disturb,
			wake_up_time = excluded.wake_up_time,
			updated_at = excluded.updated_at`,
		room.ID, room.Number, room.Floor, room.Type, room.Status,
		stayJSON, chargesJSON, housekeepingJSON,
		boolInt(room.DoNotDisturb), room.WakeUpTime,
		room.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert room: %w", err)
	}
	return nil
}

// =============================================================================
// BOOKING STORE (hotel.BookingStore interface)
// =============================================================================

func (s *Store) AppendBooking(ctx context.Context, b hotel.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings
		(id, room_id, room_number, guest_name, check_in, check_out,
		 room_type, rate_per_night, status, created_by, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.RoomID, b.RoomNumber, b.GuestName,
		b.CheckIn.UTC().Format(time.RFC3339), b.CheckOut.UTC().Format(time.RFC3339),
		b.RoomType, b.RatePerNight.String(), b.Status, b.CreatedBy,
		b.CreatedAt.UTC().Format(time.RFC3339), nullTime(b.CompletedAt))
	if err != nil {
		if isUniqueConstraintError(err) {
			return hotel.ErrActiveBookingExists
		}
		return fmt.Errorf("failed to append booking: %w", err)
	}
	return nil
}

func (s *Store) ActiveBooking(ctx context.Context, roomID hotel.RoomID) (*hotel.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, room_number, guest_name, check_in, check_out,
		       room_type, rate_per_night, status, created_by, created_at, completed_at
		FROM bookings WHERE room_id = ? AND status = 'active'`, roomID)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CompleteActiveBooking(ctx context.Context, roomID hotel.RoomID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return completeActive(ctx, s.db, roomID, at)
}

func completeActive(ctx context.Context, db execer, roomID hotel.RoomID, at time.Time) error {
	// The WHERE clause is the whole contract: only an Active booking
	// ever changes, and only to Completed.
	_, err := db.ExecContext(ctx, `
		UPDATE bookings SET status = 'completed', completed_at = ?
		WHERE room_id = ? AND status = 'active'`,
		at.UTC().Format(time.RFC3339), roomID)
	if err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	return nil
}

func (s *Store) ListBookings(ctx context.Context) ([]hotel.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, room_number, guest_name, check_in, check_out,
		       room_type, rate_per_night, status, created_by, created_at, completed_at
		FROM bookings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []hotel.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CheckoutRoom stores the cleared room and completes its Active booking
// in one SQL transaction.
func (s *Store) CheckoutRoom(ctx context.Context, room *hotel.Room, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertRoom(ctx, tx, room); err != nil {
		return err
	}
	if err := completeActive(ctx, tx, room.ID, at); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// SETTINGS STORE (hotel.SettingsStore interface)
// =============================================================================

func (s *Store) GetPolicy(ctx context.Context) (hotel.RatePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tax, svc, symbol string
	err := s.db.QueryRowContext(ctx, `
		SELECT tax_rate_percent, service_charge_percent, currency_symbol
		FROM settings WHERE id = 1`).Scan(&tax, &svc, &symbol)
	if err == sql.ErrNoRows {
		return hotel.RatePolicy{}, nil
	}
	if err != nil {
		return hotel.RatePolicy{}, err
	}
	return hotel.RatePolicy{
		TaxRatePercent:       hotel.MustParseMoney(tax),
		ServiceChargePercent: hotel.MustParseMoney(svc),
		CurrencySymbol:       symbol,
	}, nil
}

func (s *Store) SavePolicy(ctx context.Context, p hotel.RatePolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, tax_rate_percent, service_charge_percent, currency_symbol, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tax_rate_percent = excluded.tax_rate_percent,
			service_charge_percent = excluded.service_charge_percent,
			currency_symbol = excluded.currency_symbol,
			updated_at = excluded.updated_at`,
		p.TaxRatePercent.String(), p.ServiceChargePercent.String(), p.CurrencySymbol,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListRoomTypes(ctx context.Context) ([]hotel.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price_per_night, max_occupancy, amenities_json
		FROM room_types ORDER BY CAST(price_per_night AS REAL)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []hotel.RoomType
	for rows.Next() {
		var rt hotel.RoomType
		var price, amenitiesJSON string
		if err := rows.Scan(&rt.ID, &rt.Name, &price, &rt.MaxOccupancy, &amenitiesJSON); err != nil {
			return nil, err
		}
		rt.PricePerNight = hotel.MustParseMoney(price)
		if err := json.Unmarshal([]byte(amenitiesJSON), &rt.Amenities); err != nil {
			return nil, fmt.Errorf("failed to decode amenities for %s: %w", rt.ID, err)
		}
		types = append(types, rt)
	}
	return types, rows.Err()
}

func (s *Store) SaveRoomType(ctx context.Context, rt hotel.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	amenities := rt.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, err := json.Marshal(amenities)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO room_types (id, name, price_per_night, max_occupancy, amenities_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price_per_night = excluded.price_per_night,
			max_occupancy = excluded.max_occupancy,
			amenities_json = excluded.amenities_json`,
		rt.ID, rt.Name, rt.PricePerNight.String(), rt.MaxOccupancy, string(amenitiesJSON))
	return err
}

func (s *Store) ListServiceItems(ctx context.Context) ([]hotel.ServiceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, unit_price FROM service_items ORDER BY category, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []hotel.ServiceItem
	for rows.Next() {
		var it hotel.ServiceItem
		var price string
		if err := rows.Scan(&it.ID, &it.Category, &it.Name, &price); err != nil {
			return nil, err
		}
		it.UnitPrice = hotel.MustParseMoney(price)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) SaveServiceItem(ctx context.Context, it hotel.ServiceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_items (id, category, name, unit_price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category, id) DO UPDATE SET
			name = excluded.name,
			unit_price = excluded.unit_price`,
		it.ID, it.Category, it.Name, it.UnitPrice.String())
	return err
}

// =============================================================================
// ROW CODECS
// =============================================================================

// storedStay / storedCharge / storedHousekeeping are the JSON column
// shapes, kept separate from the domain types so the domain can evolve
// without silently changing what's on disk.

type storedStay struct {
	GuestName string    `json:"guestName"`
	Phone     string    `json:"phone,omitempty"`
	IDNumber  string    `json:"idNumber,omitempty"`
	Adults    int       `json:"adults"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Notes     string    `json:"notes,omitempty"`
}

type storedCharge struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	Total     string    `json:"total"`
	PostedBy  string    `json:"postedBy,omitempty"`
	PostedAt  time.Time `json:"postedAt"`
}

type storedHousekeeping struct {
	ID          string     `json:"id"`
	Tasks       []string   `json:"tasks"`
	Note        string     `json:"note,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func encodeRoomJSON(room *hotel.Room) (stay sql.NullString, charges, housekeeping string, err error) {
	if room.Stay != nil {
		b, err := json.Marshal(storedStay{
			GuestName: room.Stay.GuestName,
			Phone:     room.Stay.Phone,
			IDNumber:  room.Stay.IDNumber,
			Adults:    room.Stay.Adults,
			CheckIn:   room.Stay.CheckIn,
			CheckOut:  room.Stay.CheckOut,
			Notes:     room.Stay.Notes,
		})
		if err != nil {
			return sql.NullString{}, "", "", err
		}
		stay = sql.NullString{String: string(b), Valid: true}
	}

	sc := make([]storedCharge, len(room.Charges))
	for i, c := range room.Charges {
		sc[i] = storedCharge{
			ID:        string(c.ID),
			Category:  string(c.Category),
			Name:      c.Name,
			Quantity:  c.Quantity,
			UnitPrice: c.UnitPrice.String(),
			Total:     c.Total.String(),
			PostedBy:  c.PostedBy,
			PostedAt:  c.PostedAt,
		}
	}
	cb, err := json.Marshal(sc)
	if err != nil {
		return sql.NullString{}, "", "", err
	}

	sh := make([]storedHousekeeping, len(room.Housekeeping))
	for i, h := range room.Housekeeping {
		sh[i] = storedHousekeeping{
			ID:          string(h.ID),
			Tasks:       h.Tasks,
			Note:        h.Note,
			Status:      string(h.Status),
			CreatedAt:   h.CreatedAt,
			CompletedAt: h.CompletedAt,
		}
	}
	hb, err := json.Marshal(sh)
	if err != nil {
		return sql.NullString{}, "", "", err
	}

	return stay, string(cb), string(hb), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*hotel.Room, error) {
	var room hotel.Room
	var stayJSON sql.NullString
	var chargesJSON, housekeepingJSON, updatedAt string
	var dnd int

	err := row.Scan(&room.ID, &room.Number, &room.Floor, &room.Type, &room.Status,
		&stayJSON, &chargesJSON, &housekeepingJSON, &dnd, &room.WakeUpTime, &updatedAt)
	if err != nil {
		return nil, err
	}

	room.DoNotDisturb = dnd != 0
	room.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if stayJSON.Valid {
		var ss storedStay
		if err := json.Unmarshal([]byte(stayJSON.String), &ss); err != nil {
			return nil, fmt.Errorf("failed to decode stay for room %s: %w", room.ID, err)
		}
		room.Stay = &hotel.Stay{
			GuestName: ss.GuestName,
			Phone:     ss.Phone,
			IDNumber:  ss.IDNumber,
			Adults:    ss.Adults,
			CheckIn:   ss.CheckIn,
			CheckOut:  ss.CheckOut,
			Notes:     ss.Notes,
		}
	}

	var sc []storedCharge
	if err := json.Unmarshal([]byte(chargesJSON), &sc); err != nil {
		return nil, fmt.Errorf("failed to decode charges for room %s: %w", room.ID, err)
	}
	for _, c := range sc {
		room.Charges = append(room.Charges, hotel.Charge{
			ID:        hotel.ChargeID(c.ID),
			Category:  hotel.ChargeCategory(c.Category),
			Name:      c.Name,
			Quantity:  c.Quantity,
			UnitPrice: hotel.MustParseMoney(c.UnitPrice),
			Total:     hotel.MustParseMoney(c.Total),
			PostedBy:  c.PostedBy,
			PostedAt:  c.PostedAt,
		})
	}

	var sh []storedHousekeeping
	if err := json.Unmarshal([]byte(housekeepingJSON), &sh); err != nil {
		return nil, fmt.Errorf("failed to decode housekeeping for room %s: %w", room.ID, err)
	}
	for _, h := range sh {
		room.Housekeeping = append(room.Housekeeping, hotel.HousekeepingRequest{
			ID:          hotel.RequestID(h.ID),
			Tasks:       h.Tasks,
			Note:        h.Note,
			Status:      hotel.HousekeepingStatus(h.Status),
			CreatedAt:   h.CreatedAt,
			CompletedAt: h.CompletedAt,
		})
	}

	return &room, nil
}

func scanBooking(row rowScanner) (hotel.Booking, error) {
	var b hotel.Booking
	var checkIn, checkOut, rate, createdAt string
	var completedAt sql.NullString

	err := row.Scan(&b.ID, &b.RoomID, &b.RoomNumber, &b.GuestName, &checkIn, &checkOut,
		&b.RoomType, &rate, &b.Status, &b.CreatedBy, &createdAt, &completedAt)
	if err != nil {
		return hotel.Booking{}, err
	}

	b.CheckIn, _ = time.Parse(time.RFC3339, checkIn)
	b.CheckOut, _ = time.Parse(time.RFC3339, checkOut)
	b.RatePerNight = hotel.MustParseMoney(rate)
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		b.CompletedAt = &t
	}
	return b, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
