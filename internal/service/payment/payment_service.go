package payment

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/mervekc/flight-booking/internal/kafka"
	"github.com/mervekc/flight-booking/internal/repository"
)

type PaymentUseCase interface {
	Pay(ctx context.Context, bookingID int64) (*PaymentResult, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentResult struct {
	PaymentID     int64                `json:"payment_id"`
	TransactionID string               `json:"transaction_id"`
	AmountCents   int64                `json:"amount_cents"`
	Status        domain.PaymentStatus `json:"status"`
	PaidAt        time.Time            `json:"paid_at"`
	BookingID     int64                `json:"booking_id"`
	BookingStatus domain.BookingStatus `json:"booking_status"`
}

type PaymentService struct {
	payments           repository.PaymentRepository
	users              repository.UserRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type PaymentServiceOption func(*PaymentService)

func WithNotificationsTopic(topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.notificationsTopic = topic
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	producer Producer,
	bookingTopic string,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments:     payments,
		users:        users,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Pay settles a PENDING booking: one payment row for the booking's current
// total and the flip to CONFIRMED, both inside the repository's single
// transaction. The amount is frozen at this instant; once CONFIRMED, the
// booking rejects every further ancillary mutation.
func (s *PaymentService) Pay(ctx context.Context, bookingID int64) (*PaymentResult, error) {
	payment, booking, err := s.payments.Settle(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.publishConfirmed(ctx, booking)

	return &PaymentResult{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		AmountCents:   payment.AmountCents,
		Status:        payment.Status,
		PaidAt:        payment.PaidAt,
		BookingID:     booking.ID,
		BookingStatus: booking.Status,
	}, nil
}

func (s *PaymentService) publishConfirmed(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	email := ""
	if s.users != nil {
		if user, err := s.users.GetByID(ctx, booking.UserID); err == nil {
			email = user.Email
		}
	}

	event := kafka.BookingEvent{
		Type:       "booking_confirmed",
		BookingID:  booking.ID,
		UserEmail:  email,
		FlightID:   booking.FlightID,
		TotalCents: booking.TotalCents,
		Status:     string(booking.Status),
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		log.Printf("WARNING: failed to publish booking_confirmed event for booking %d: %v", booking.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			log.Printf("WARNING: failed to publish booking_confirmed notification for booking %d: %v", booking.ID, err)
		}
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
