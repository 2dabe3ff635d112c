package booking

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/mervekc/flight-booking/internal/kafka"
	"github.com/mervekc/flight-booking/internal/repository"
)

// BookingUseCase is the booking lifecycle and pricing engine. Caller
// identity is always an explicit parameter, resolved at the request boundary
// and passed in; the engine never reads it from ambient state.
type BookingUseCase interface {
	CreateBooking(ctx context.Context, callerEmail string, input CreateBookingInput) (*domain.Booking, error)
	SelectAncillary(ctx context.Context, bookingID int64, kind domain.AncillaryKind, optionID int64, seatNumber string) error
	RecalculateTotal(ctx context.Context, bookingID int64) error
	CancelBooking(ctx context.Context, callerEmail string, bookingID int64) error
	GetBookingDetail(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, callerEmail string) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	catalog            repository.CatalogRepository
	users              repository.UserRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type CreateBookingInput struct {
	FlightID   int64 `json:"flight_id"`
	FareTypeID int64 `json:"fare_type_id"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	catalog repository.CatalogRepository,
	users repository.UserRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		catalog:      catalog,
		users:        users,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the catalog references, computes the initial total
// (base price + fare extra) and persists a PENDING booking with no
// selections. Whether the fare type belongs to the flight's airline is not
// checked here; fare types are offered per airline by the search flow.
func (s *BookingService) CreateBooking(ctx context.Context, callerEmail string, input CreateBookingInput) (*domain.Booking, error) {
	user, err := s.resolveUser(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	flight, err := s.catalog.FlightByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	fareType, err := s.catalog.FareTypeByID(ctx, input.FareTypeID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		UserID:     user.ID,
		FlightID:   flight.ID,
		FareTypeID: fareType.ID,
		TotalCents: flight.BasePriceCents + fareType.ExtraPriceCents,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking, user.Email)
	return booking, nil
}

// SelectAncillary is the single flow behind baggage, meal and seat
// selection: one selection per kind per booking, replaced in place on
// re-selection, price snapshotted from the option, total recomputed in the
// same transaction. Only CONFIRMED blocks mutation; a CANCELLED booking is
// still mutable.
func (s *BookingService) SelectAncillary(ctx context.Context, bookingID int64, kind domain.AncillaryKind, optionID int64, seatNumber string) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == domain.BookingStatusConfirmed {
		return domain.ErrBookingLocked
	}

	option, err := s.catalog.OptionByID(ctx, kind, optionID)
	if err != nil {
		return err
	}

	sel := domain.AncillarySelection{
		BookingID:  bookingID,
		Kind:       kind,
		OptionID:   option.ID,
		PriceCents: option.PriceCents,
	}
	if kind == domain.AncillarySeat {
		if trimmed := strings.TrimSpace(seatNumber); trimmed != "" {
			sel.SeatNumber = &trimmed
		}
	}

	return s.bookings.UpsertSelection(ctx, bookingID, sel)
}

// RecalculateTotal recomputes the stored total from scratch. Besides
// CreateBooking's initial value this is the only writer of the total.
func (s *BookingService) RecalculateTotal(ctx context.Context, bookingID int64) error {
	_, err := s.bookings.RecalcTotal(ctx, bookingID)
	return err
}

// CancelBooking moves the booking to CANCELLED. Only the owner may cancel,
// and a CONFIRMED booking cannot be cancelled. Cancelling an already
// CANCELLED booking passes validation and re-sets the same status.
func (s *BookingService) CancelBooking(ctx context.Context, callerEmail string, bookingID int64) error {
	user, err := s.resolveUser(ctx, callerEmail)
	if err != nil {
		return err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != user.ID {
		return domain.ErrForbidden
	}
	if booking.Status == domain.BookingStatusConfirmed {
		return domain.ErrInvalidTransition
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, domain.BookingStatusCancelled)
	if err != nil {
		return err
	}

	s.publish(ctx, "booking_cancelled", updated, user.Email)
	return nil
}

func (s *BookingService) GetBookingDetail(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

// ListMyBookings returns the caller's bookings newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, callerEmail string) ([]domain.Booking, error) {
	user, err := s.resolveUser(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByUser(ctx, user.ID)
}

func (s *BookingService) resolveUser(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrNotAuthenticated
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, email string) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserEmail:  email,
		FlightID:   booking.FlightID,
		TotalCents: booking.TotalCents,
		Status:     string(booking.Status),
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %d: %v", eventType, booking.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for booking %d: %v", eventType, booking.ID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
