package email

import (
	"context"
	"fmt"

	"github.com/mervekc/flight-booking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for booking %d (flight %d, total %d cents)\n",
		event.UserEmail, event.Type, event.BookingID, event.FlightID, event.TotalCents)
	return nil
}
