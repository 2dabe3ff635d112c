package domain

import "time"

// Catalog entities are read-only reference data: the booking engine loads
// them by id and snapshots their prices, it never mutates them.

type Airline struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type Airport struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Flight struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	AirlineID      int64     `json:"airline_id"`
	AirlineCode    string    `json:"airline_code"`
	AirlineName    string    `json:"airline_name"`
	FromAirport    string    `json:"from"`
	ToAirport      string    `json:"to"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	BasePriceCents int64     `json:"base_price_cents"`
}

// FareType is an airline fare product layered on top of a flight's base
// price (LIGHT, ECO, PLUS).
type FareType struct {
	ID                int64  `json:"id"`
	AirlineID         int64  `json:"airline_id"`
	Name              string `json:"name"`
	ExtraPriceCents   int64  `json:"extra_price_cents"`
	IncludedBaggageKg int    `json:"included_baggage_kg"`
}

type BaggageOption struct {
	ID         int64 `json:"id"`
	WeightKg   int   `json:"weight_kg"`
	PriceCents int64 `json:"price_cents"`
}

type MealOption struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type SeatOption struct {
	ID         int64  `json:"id"`
	SeatType   string `json:"seat_type"`
	PriceCents int64  `json:"price_cents"`
}

// AncillaryOption is the kind-agnostic view the booking engine works with:
// any of the three option tables reduced to identity and price.
type AncillaryOption struct {
	ID         int64
	Kind       AncillaryKind
	PriceCents int64
}
