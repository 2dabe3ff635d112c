package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type AncillaryKind string

const (
	AncillaryBaggage AncillaryKind = "BAGGAGE"
	AncillaryMeal    AncillaryKind = "MEAL"
	AncillarySeat    AncillaryKind = "SEAT"
)

// AncillarySelection is one of the at-most-three extras attached to a
// booking. PriceCents is a snapshot of the catalog option's price at the
// moment of selection; later catalog price changes do not touch it.
type AncillarySelection struct {
	ID         int64
	BookingID  int64
	Kind       AncillaryKind
	OptionID   int64
	PriceCents int64
	SeatNumber *string // SEAT kind only, optional
}

// Booking is the aggregate root. TotalCents is derived and always
// server-recomputed: flight base price + fare type extra + present selections.
type Booking struct {
	ID         int64
	UserID     int64
	FlightID   int64
	FareTypeID int64
	Status     BookingStatus
	TotalCents int64
	CreatedAt  time.Time

	Baggage *AncillarySelection
	Meal    *AncillarySelection
	Seat    *AncillarySelection
}

// Selection returns the selection of the given kind, or nil.
func (b *Booking) Selection(kind AncillaryKind) *AncillarySelection {
	switch kind {
	case AncillaryBaggage:
		return b.Baggage
	case AncillaryMeal:
		return b.Meal
	case AncillarySeat:
		return b.Seat
	}
	return nil
}

// SetSelection fills the selection slot matching sel.Kind.
func (b *Booking) SetSelection(sel *AncillarySelection) {
	switch sel.Kind {
	case AncillaryBaggage:
		b.Baggage = sel
	case AncillaryMeal:
		b.Meal = sel
	case AncillarySeat:
		b.Seat = sel
	}
}

// Selections returns the present selections in baggage, meal, seat order.
func (b *Booking) Selections() []*AncillarySelection {
	var out []*AncillarySelection
	for _, s := range []*AncillarySelection{b.Baggage, b.Meal, b.Seat} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
