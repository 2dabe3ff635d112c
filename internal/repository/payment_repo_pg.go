package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mervekc/flight-booking/internal/domain"
)

type PaymentRepository interface {
	Settle(ctx context.Context, bookingID int64) (*domain.Payment, *domain.Booking, error)
	GetByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

// Settle records the payment and flips the booking to CONFIRMED in a single
// transaction. The booking row is locked first, so a racing SelectAncillary
// or a second Pay waits and then rereads the final state. The payments table
// also carries UNIQUE (booking_id), so even unexpected interleavings cannot
// produce two payment rows for one booking.
func (r *PGPaymentRepository) Settle(ctx context.Context, bookingID int64) (*domain.Payment, *domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, bookingID)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.FareTypeID, &b.Status, &b.TotalCents, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	if b.Status != domain.BookingStatusPending {
		return nil, nil, domain.ErrInvalidTransition
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id=$1)`, bookingID).Scan(&exists); err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, domain.ErrAlreadyPaid
	}

	payment := domain.Payment{
		BookingID:     b.ID,
		AmountCents:   b.TotalCents,
		Status:        domain.PaymentStatusSuccess,
		TransactionID: uuid.NewString(),
	}
	if err := tx.QueryRow(ctx, `INSERT INTO payments (booking_id, amount_cents, status, transaction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, paid_at`,
		payment.BookingID, payment.AmountCents, payment.Status, payment.TransactionID).
		Scan(&payment.ID, &payment.PaidAt); err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1 WHERE id=$2`, domain.BookingStatusConfirmed, b.ID); err != nil {
		return nil, nil, err
	}
	b.Status = domain.BookingStatusConfirmed

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &payment, &b, nil
}

func (r *PGPaymentRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, amount_cents, status, transaction_id, paid_at FROM payments WHERE booking_id=$1`, bookingID)
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Status, &p.TransactionID, &p.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
