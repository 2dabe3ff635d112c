package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mervekc/flight-booking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	UpsertSelection(ctx context.Context, bookingID int64, sel domain.AncillarySelection) error
	UpdateStatus(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (*domain.Booking, error)
	RecalcTotal(ctx context.Context, bookingID int64) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, flight_id, fare_type_id, status, total_cents, created_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, fare_type_id, status, total_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		booking.UserID, booking.FlightID, booking.FareTypeID, booking.Status, booking.TotalCents).
		Scan(&booking.ID, &booking.CreatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.FareTypeID, &b.Status, &b.TotalCents, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, kind, option_id, price_cents, seat_number
		FROM booking_selections WHERE booking_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.AncillarySelection
		if err := rows.Scan(&s.ID, &s.BookingID, &s.Kind, &s.OptionID, &s.PriceCents, &s.SeatNumber); err != nil {
			return nil, err
		}
		b.SetSelection(&s)
	}
	return &b, rows.Err()
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	byID := make(map[int64]*domain.Booking)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.FareTypeID, &b.Status, &b.TotalCents, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(bookings))
	for i := range bookings {
		byID[bookings[i].ID] = &bookings[i]
		ids = append(ids, bookings[i].ID)
	}
	if len(ids) == 0 {
		return bookings, nil
	}

	selRows, err := r.db.Query(ctx, `SELECT id, booking_id, kind, option_id, price_cents, seat_number
		FROM booking_selections WHERE booking_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer selRows.Close()
	for selRows.Next() {
		var s domain.AncillarySelection
		if err := selRows.Scan(&s.ID, &s.BookingID, &s.Kind, &s.OptionID, &s.PriceCents, &s.SeatNumber); err != nil {
			return nil, err
		}
		if b, ok := byID[s.BookingID]; ok {
			b.SetSelection(&s)
		}
	}
	return bookings, selRows.Err()
}

// UpsertSelection replaces the booking's selection of sel.Kind in place and
// recomputes the total, all inside one transaction that holds a row lock on
// the booking. Concurrent calls for the same booking serialize on that lock,
// and a booking confirmed by a racing payment is re-checked after the lock
// is taken.
func (r *PGBookingRepository) UpsertSelection(ctx context.Context, bookingID int64, sel domain.AncillarySelection) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status domain.BookingStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1 FOR UPDATE`, bookingID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status == domain.BookingStatusConfirmed {
		return domain.ErrBookingLocked
	}

	if _, err := tx.Exec(ctx, `INSERT INTO booking_selections (booking_id, kind, option_id, price_cents, seat_number)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (booking_id, kind)
		DO UPDATE SET option_id = EXCLUDED.option_id, price_cents = EXCLUDED.price_cents, seat_number = EXCLUDED.seat_number`,
		bookingID, sel.Kind, sel.OptionID, sel.PriceCents, sel.SeatNumber); err != nil {
		return err
	}

	if _, err := recalcTotalTx(ctx, tx, bookingID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateStatus flips the booking to the given status only while it still has
// the expected current status; the WHERE guard makes a racing transition
// lose rather than overwrite.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1 WHERE id=$2 AND status=$3 RETURNING `+bookingColumns, to, bookingID, from)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.FareTypeID, &b.Status, &b.TotalCents, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) RecalcTotal(ctx context.Context, bookingID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT 1 FROM bookings WHERE id=$1 FOR UPDATE`, bookingID); err != nil {
		return 0, err
	}
	total, err := recalcTotalTx(ctx, tx, bookingID)
	if err != nil {
		return 0, err
	}
	return total, tx.Commit(ctx)
}

// recalcTotalTx recomputes the authoritative total from scratch inside the
// caller's transaction and persists it.
func recalcTotalTx(ctx context.Context, tx pgx.Tx, bookingID int64) (int64, error) {
	var total int64
	err := tx.QueryRow(ctx, `SELECT f.base_price_cents + ft.extra_price_cents + COALESCE(SUM(s.price_cents), 0)
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		JOIN fare_types ft ON ft.id = b.fare_type_id
		LEFT JOIN booking_selections s ON s.booking_id = b.id
		WHERE b.id = $1
		GROUP BY f.base_price_cents, ft.extra_price_cents`, bookingID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if _, err := tx.Exec(ctx, `UPDATE bookings SET total_cents=$1 WHERE id=$2`, total, bookingID); err != nil {
		return 0, err
	}
	return total, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
