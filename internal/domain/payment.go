package domain

import "time"

type PaymentStatus string

// The gateway is simulated: every settlement that passes validation
// succeeds, so SUCCESS is the only status ever written.
const PaymentStatusSuccess PaymentStatus = "SUCCESS"

type Payment struct {
	ID            int64
	BookingID     int64
	AmountCents   int64
	Status        PaymentStatus
	TransactionID string
	PaidAt        time.Time
}
