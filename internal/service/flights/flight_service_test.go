package flights

import (
	"context"
	"testing"
	"time"

	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FlightByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockCatalogRepository) SearchFlights(ctx context.Context, from, to string, day time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, from, to, day)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCatalogRepository) FareTypeByID(ctx context.Context, id int64) (*domain.FareType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FareType), args.Error(1)
}

func (m *MockCatalogRepository) ListFareTypesByAirline(ctx context.Context, airlineID int64) ([]domain.FareType, error) {
	args := m.Called(ctx, airlineID)
	return args.Get(0).([]domain.FareType), args.Error(1)
}

func (m *MockCatalogRepository) OptionByID(ctx context.Context, kind domain.AncillaryKind, id int64) (*domain.AncillaryOption, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AncillaryOption), args.Error(1)
}

func (m *MockCatalogRepository) ListBaggageOptions(ctx context.Context) ([]domain.BaggageOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BaggageOption), args.Error(1)
}

func (m *MockCatalogRepository) ListMealOptions(ctx context.Context) ([]domain.MealOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MealOption), args.Error(1)
}

func (m *MockCatalogRepository) ListSeatOptions(ctx context.Context) ([]domain.SeatOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SeatOption), args.Error(1)
}

func (m *MockCatalogRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlightSearch(ctx context.Context, key string) ([]domain.Flight, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlightSearch(ctx context.Context, key string, flights []domain.Flight) error {
	args := m.Called(ctx, key, flights)
	return args.Error(0)
}

func TestFlightService_Search_RoundTrip(t *testing.T) {
	mockCatalog := &MockCatalogRepository{}
	service := NewFlightService(mockCatalog, nil)

	ctx := context.Background()
	departure := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC)

	outbound := []domain.Flight{{ID: 1, FromAirport: "IST", ToAirport: "AMS"}}
	inbound := []domain.Flight{{ID: 2, FromAirport: "AMS", ToAirport: "IST"}}

	// Codes are upper-cased before they hit the repository.
	mockCatalog.On("SearchFlights", ctx, "IST", "AMS", departure).Return(outbound, nil).Once()
	mockCatalog.On("SearchFlights", ctx, "AMS", "IST", ret).Return(inbound, nil).Once()

	result, err := service.Search(ctx, SearchQuery{From: "ist", To: "ams", DepartureDate: departure, ReturnDate: &ret})
	require.NoError(t, err)
	assert.Equal(t, outbound, result.OutboundFlights)
	assert.Equal(t, inbound, result.ReturnFlights)
	mockCatalog.AssertExpectations(t)
}

func TestFlightService_Search_OneWayLeavesReturnEmpty(t *testing.T) {
	mockCatalog := &MockCatalogRepository{}
	service := NewFlightService(mockCatalog, nil)

	ctx := context.Background()
	departure := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	mockCatalog.On("SearchFlights", ctx, "IST", "AMS", departure).
		Return([]domain.Flight{{ID: 1}}, nil).Once()

	result, err := service.Search(ctx, SearchQuery{From: "IST", To: "AMS", DepartureDate: departure})
	require.NoError(t, err)
	assert.Len(t, result.OutboundFlights, 1)
	assert.Empty(t, result.ReturnFlights)
	mockCatalog.AssertNumberOfCalls(t, "SearchFlights", 1)
}

func TestFlightService_Search_CacheHitSkipsRepository(t *testing.T) {
	mockCatalog := &MockCatalogRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockCatalog, mockCache)

	ctx := context.Background()
	departure := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	cached := []domain.Flight{{ID: 1}}

	mockCache.On("GetFlightSearch", ctx, "IST:AMS:2026-09-10").Return(cached, nil).Once()

	result, err := service.Search(ctx, SearchQuery{From: "IST", To: "AMS", DepartureDate: departure})
	require.NoError(t, err)
	assert.Equal(t, cached, result.OutboundFlights)
	mockCatalog.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_Search_CacheMissPopulatesCache(t *testing.T) {
	mockCatalog := &MockCatalogRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockCatalog, mockCache)

	ctx := context.Background()
	departure := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	flights := []domain.Flight{{ID: 1}}

	mockCache.On("GetFlightSearch", ctx, "IST:AMS:2026-09-10").Return(nil, nil).Once()
	mockCatalog.On("SearchFlights", ctx, "IST", "AMS", departure).Return(flights, nil).Once()
	mockCache.On("SetFlightSearch", ctx, "IST:AMS:2026-09-10", flights).Return(nil).Once()

	result, err := service.Search(ctx, SearchQuery{From: "IST", To: "AMS", DepartureDate: departure})
	require.NoError(t, err)
	assert.Equal(t, flights, result.OutboundFlights)
	mockCache.AssertExpectations(t)
}

func TestFlightService_FareOptions(t *testing.T) {
	mockCatalog := &MockCatalogRepository{}
	service := NewFlightService(mockCatalog, nil)

	ctx := context.Background()
	mockCatalog.On("FlightByID", ctx, int64(4)).
		Return(&domain.Flight{ID: 4, AirlineID: 2, BasePriceCents: 300000}, nil).Once()
	mockCatalog.On("ListFareTypesByAirline", ctx, int64(2)).Return([]domain.FareType{
		{ID: 1, Name: "ECO", ExtraPriceCents: 20000, IncludedBaggageKg: 20},
		{ID: 2, Name: "LIGHT", ExtraPriceCents: 0, IncludedBaggageKg: 8},
	}, nil).Once()

	options, err := service.FareOptions(ctx, 4)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, int64(320000), options[0].TotalPriceCents)
	assert.Equal(t, int64(300000), options[1].TotalPriceCents)
}

func TestFlightService_FareOptions_UnknownFlight(t *testing.T) {
	mockCatalog := &MockCatalogRepository{}
	service := NewFlightService(mockCatalog, nil)

	ctx := context.Background()
	mockCatalog.On("FlightByID", ctx, int64(404)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.FareOptions(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
