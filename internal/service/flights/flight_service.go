package flights

import (
	"context"
	"strings"
	"time"

	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/mervekc/flight-booking/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, query SearchQuery) (*RoundTripResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	FareOptions(ctx context.Context, flightID int64) ([]FareOption, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	ListBaggageOptions(ctx context.Context) ([]domain.BaggageOption, error)
	ListMealOptions(ctx context.Context) ([]domain.MealOption, error)
	ListSeatOptions(ctx context.Context) ([]domain.SeatOption, error)
}

// Cache keeps flight search results warm between identical searches.
type Cache interface {
	GetFlightSearch(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlightSearch(ctx context.Context, key string, flights []domain.Flight) error
}

type SearchQuery struct {
	From          string
	To            string
	DepartureDate time.Time
	ReturnDate    *time.Time
}

type RoundTripResult struct {
	OutboundFlights []domain.Flight `json:"outbound_flights"`
	ReturnFlights   []domain.Flight `json:"return_flights"`
}

// FareOption is a fare type priced against a concrete flight.
type FareOption struct {
	FareTypeID        int64  `json:"fare_type_id"`
	Name              string `json:"name"`
	IncludedBaggageKg int    `json:"included_baggage_kg"`
	ExtraPriceCents   int64  `json:"extra_price_cents"`
	TotalPriceCents   int64  `json:"total_price_cents"`
}

type FlightService struct {
	catalog repository.CatalogRepository
	cache   Cache
}

func NewFlightService(catalog repository.CatalogRepository, cache Cache) *FlightService {
	return &FlightService{catalog: catalog, cache: cache}
}

// Search looks up outbound flights and, when a return date is given, inbound
// flights on the reversed leg. Airport codes are case-insensitive.
func (s *FlightService) Search(ctx context.Context, query SearchQuery) (*RoundTripResult, error) {
	from := strings.ToUpper(query.From)
	to := strings.ToUpper(query.To)

	outbound, err := s.searchLeg(ctx, from, to, query.DepartureDate)
	if err != nil {
		return nil, err
	}

	inbound := make([]domain.Flight, 0)
	if query.ReturnDate != nil {
		inbound, err = s.searchLeg(ctx, to, from, *query.ReturnDate)
		if err != nil {
			return nil, err
		}
	}

	return &RoundTripResult{OutboundFlights: outbound, ReturnFlights: inbound}, nil
}

func (s *FlightService) searchLeg(ctx context.Context, from, to string, day time.Time) ([]domain.Flight, error) {
	key := searchKey(from, to, day)
	if s.cache != nil {
		if cached, err := s.cache.GetFlightSearch(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.catalog.SearchFlights(ctx, from, to, day)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlightSearch(ctx, key, flights)
	}
	return flights, nil
}

func searchKey(from, to string, day time.Time) string {
	return from + ":" + to + ":" + day.Format("2006-01-02")
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.catalog.FlightByID(ctx, id)
}

// FareOptions lists the fare types of the flight's airline, each priced as
// base + extra against this flight.
func (s *FlightService) FareOptions(ctx context.Context, flightID int64) ([]FareOption, error) {
	flight, err := s.catalog.FlightByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	fareTypes, err := s.catalog.ListFareTypesByAirline(ctx, flight.AirlineID)
	if err != nil {
		return nil, err
	}

	options := make([]FareOption, 0, len(fareTypes))
	for _, ft := range fareTypes {
		options = append(options, FareOption{
			FareTypeID:        ft.ID,
			Name:              ft.Name,
			IncludedBaggageKg: ft.IncludedBaggageKg,
			ExtraPriceCents:   ft.ExtraPriceCents,
			TotalPriceCents:   flight.BasePriceCents + ft.ExtraPriceCents,
		})
	}
	return options, nil
}

func (s *FlightService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.catalog.ListAirports(ctx)
}

func (s *FlightService) ListBaggageOptions(ctx context.Context) ([]domain.BaggageOption, error) {
	return s.catalog.ListBaggageOptions(ctx)
}

func (s *FlightService) ListMealOptions(ctx context.Context) ([]domain.MealOption, error) {
	return s.catalog.ListMealOptions(ctx)
}

func (s *FlightService) ListSeatOptions(ctx context.Context) ([]domain.SeatOption, error) {
	return s.catalog.ListSeatOptions(ctx)
}

var _ FlightUseCase = (*FlightService)(nil)
