package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mervekc/flight-booking/internal/domain"
)

// CatalogRepository is the read-only pricing catalog: flights, fare types
// and the three ancillary option tables.
type CatalogRepository interface {
	FlightByID(ctx context.Context, id int64) (*domain.Flight, error)
	SearchFlights(ctx context.Context, from, to string, day time.Time) ([]domain.Flight, error)
	FareTypeByID(ctx context.Context, id int64) (*domain.FareType, error)
	ListFareTypesByAirline(ctx context.Context, airlineID int64) ([]domain.FareType, error)
	OptionByID(ctx context.Context, kind domain.AncillaryKind, id int64) (*domain.AncillaryOption, error)
	ListBaggageOptions(ctx context.Context) ([]domain.BaggageOption, error)
	ListMealOptions(ctx context.Context) ([]domain.MealOption, error)
	ListSeatOptions(ctx context.Context) ([]domain.SeatOption, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const flightColumns = `f.id, f.flight_number, f.airline_id, a.code, a.name, dep.code, arr.code, f.departure_time, f.arrival_time, f.base_price_cents`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.AirlineID, &f.AirlineCode, &f.AirlineName,
		&f.FromAirport, &f.ToAirport, &f.DepartureTime, &f.ArrivalTime, &f.BasePriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGCatalogRepository) FlightByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+`
		FROM flights f
		JOIN airlines a ON a.id = f.airline_id
		JOIN airports dep ON dep.id = f.departure_airport_id
		JOIN airports arr ON arr.id = f.arrival_airport_id
		WHERE f.id=$1`, id)
	return scanFlight(row)
}

// SearchFlights returns flights between two airport codes departing within
// the given calendar day.
func (r *PGCatalogRepository) SearchFlights(ctx context.Context, from, to string, day time.Time) ([]domain.Flight, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := r.sb.
		Select("f.id", "f.flight_number", "f.airline_id", "a.code", "a.name",
			"dep.code", "arr.code", "f.departure_time", "f.arrival_time", "f.base_price_cents").
		From("flights f").
		Join("airlines a ON a.id = f.airline_id").
		Join("airports dep ON dep.id = f.departure_airport_id").
		Join("airports arr ON arr.id = f.arrival_airport_id").
		Where(sq.Eq{"dep.code": from, "arr.code": to}).
		Where(sq.GtOrEq{"f.departure_time": dayStart}).
		Where(sq.Lt{"f.departure_time": dayEnd}).
		OrderBy("f.departure_time")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build flight search sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGCatalogRepository) FareTypeByID(ctx context.Context, id int64) (*domain.FareType, error) {
	row := r.db.QueryRow(ctx, `SELECT id, airline_id, name, extra_price_cents, included_baggage_kg FROM fare_types WHERE id=$1`, id)
	var ft domain.FareType
	if err := row.Scan(&ft.ID, &ft.AirlineID, &ft.Name, &ft.ExtraPriceCents, &ft.IncludedBaggageKg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ft, nil
}

func (r *PGCatalogRepository) ListFareTypesByAirline(ctx context.Context, airlineID int64) ([]domain.FareType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, airline_id, name, extra_price_cents, included_baggage_kg FROM fare_types WHERE airline_id=$1 ORDER BY name`, airlineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fares := make([]domain.FareType, 0)
	for rows.Next() {
		var ft domain.FareType
		if err := rows.Scan(&ft.ID, &ft.AirlineID, &ft.Name, &ft.ExtraPriceCents, &ft.IncludedBaggageKg); err != nil {
			return nil, err
		}
		fares = append(fares, ft)
	}
	return fares, rows.Err()
}

// OptionByID looks up an ancillary option in the table matching the kind and
// reduces it to the id+price view the booking engine snapshots from.
func (r *PGCatalogRepository) OptionByID(ctx context.Context, kind domain.AncillaryKind, id int64) (*domain.AncillaryOption, error) {
	var table string
	switch kind {
	case domain.AncillaryBaggage:
		table = "baggage_options"
	case domain.AncillaryMeal:
		table = "meal_options"
	case domain.AncillarySeat:
		table = "seat_options"
	default:
		return nil, fmt.Errorf("unknown ancillary kind %q", kind)
	}

	opt := domain.AncillaryOption{Kind: kind}
	err := r.db.QueryRow(ctx, `SELECT id, price_cents FROM `+table+` WHERE id=$1`, id).
		Scan(&opt.ID, &opt.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &opt, nil
}

func (r *PGCatalogRepository) ListBaggageOptions(ctx context.Context) ([]domain.BaggageOption, error) {
	rows, err := r.db.Query(ctx, `SELECT id, weight_kg, price_cents FROM baggage_options ORDER BY weight_kg`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opts := make([]domain.BaggageOption, 0)
	for rows.Next() {
		var o domain.BaggageOption
		if err := rows.Scan(&o.ID, &o.WeightKg, &o.PriceCents); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *PGCatalogRepository) ListMealOptions(ctx context.Context) ([]domain.MealOption, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price_cents FROM meal_options ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opts := make([]domain.MealOption, 0)
	for rows.Next() {
		var o domain.MealOption
		if err := rows.Scan(&o.ID, &o.Name, &o.PriceCents); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *PGCatalogRepository) ListSeatOptions(ctx context.Context) ([]domain.SeatOption, error) {
	rows, err := r.db.Query(ctx, `SELECT id, seat_type, price_cents FROM seat_options ORDER BY price_cents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opts := make([]domain.SeatOption, 0)
	for rows.Next() {
		var o domain.SeatOption
		if err := rows.Scan(&o.ID, &o.SeatType, &o.PriceCents); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}

func (r *PGCatalogRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, city, country FROM airports ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
