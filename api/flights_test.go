package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/mervekc/flight-booking/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, query flights.SearchQuery) (*flights.RoundTripResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.RoundTripResult), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) FareOptions(ctx context.Context, flightID int64) ([]flights.FareOption, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flights.FareOption), args.Error(1)
}

func (m *MockFlightUseCase) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockFlightUseCase) ListBaggageOptions(ctx context.Context) ([]domain.BaggageOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BaggageOption), args.Error(1)
}

func (m *MockFlightUseCase) ListMealOptions(ctx context.Context) ([]domain.MealOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MealOption), args.Error(1)
}

func (m *MockFlightUseCase) ListSeatOptions(ctx context.Context) ([]domain.SeatOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SeatOption), args.Error(1)
}

func newFlightTestRouter(service flights.FlightUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightHandler(service).Register(router.Group("/api"))
	return router
}

func TestFlightHandler_search(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightTestRouter(mockService)

	departure := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	expected := flights.SearchQuery{From: "IST", To: "AMS", DepartureDate: departure}
	mockService.On("Search", mock.Anything, expected).
		Return(&flights.RoundTripResult{
			OutboundFlights: []domain.Flight{{ID: 1, FromAirport: "IST", ToAirport: "AMS"}},
			ReturnFlights:   []domain.Flight{},
		}, nil).Once()

	req := httptest.NewRequest("GET", "/api/flights/search?from=IST&to=AMS&departure_date=2026-09-10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp flights.RoundTripResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.OutboundFlights, 1)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_search_Validation(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{name: "missing from", url: "/api/flights/search?to=AMS&departure_date=2026-09-10"},
		{name: "missing to", url: "/api/flights/search?from=IST&departure_date=2026-09-10"},
		{name: "bad departure date", url: "/api/flights/search?from=IST&to=AMS&departure_date=10.09.2026"},
		{name: "bad return date", url: "/api/flights/search?from=IST&to=AMS&departure_date=2026-09-10&return_date=nope"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newFlightTestRouter(&MockFlightUseCase{})

			req := httptest.NewRequest("GET", tc.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestFlightHandler_fares(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightTestRouter(mockService)

	mockService.On("FareOptions", mock.Anything, int64(4)).Return([]flights.FareOption{
		{FareTypeID: 1, Name: "ECO", ExtraPriceCents: 20000, TotalPriceCents: 320000},
	}, nil).Once()

	req := httptest.NewRequest("GET", "/api/flights/4/fares", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFlightHandler_get_NotFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := newFlightTestRouter(mockService)

	mockService.On("GetByID", mock.Anything, int64(404)).Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest("GET", "/api/flights/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
