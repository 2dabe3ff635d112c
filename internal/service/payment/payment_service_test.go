package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mervekc/flight-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Settle(ctx context.Context, bookingID int64) (*domain.Payment, *domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Get(1).(*domain.Booking), args.Error(2)
}

func (m *MockPaymentRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestPaymentService_Pay_Success(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}

	service := &PaymentService{
		payments:     mockPayments,
		users:        mockUsers,
		producer:     mockProducer,
		bookingTopic: "booking_events",
	}

	ctx := context.Background()
	payment := &domain.Payment{
		ID:            5,
		BookingID:     1,
		AmountCents:   343000,
		Status:        domain.PaymentStatusSuccess,
		TransactionID: "tx-1",
	}
	booking := &domain.Booking{ID: 1, UserID: 7, TotalCents: 343000, Status: domain.BookingStatusConfirmed}

	mockPayments.On("Settle", ctx, int64(1)).Return(payment, booking, nil).Once()
	mockUsers.On("GetByID", ctx, int64(7)).
		Return(&domain.User{ID: 7, Email: "traveler@example.com"}, nil).Once()
	mockProducer.On("Publish", ctx, "booking_events", "1", mock.Anything).Return(nil).Once()

	result, err := service.Pay(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.PaymentID)
	assert.Equal(t, int64(343000), result.AmountCents)
	assert.Equal(t, domain.PaymentStatusSuccess, result.Status)
	assert.Equal(t, int64(1), result.BookingID)
	assert.Equal(t, domain.BookingStatusConfirmed, result.BookingStatus)

	mockPayments.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestPaymentService_Pay_ErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		settleErr   error
		expectedErr error
	}{
		{name: "unknown booking", settleErr: domain.ErrNotFound, expectedErr: domain.ErrNotFound},
		{name: "cancelled booking", settleErr: domain.ErrInvalidTransition, expectedErr: domain.ErrInvalidTransition},
		{name: "already settled", settleErr: domain.ErrAlreadyPaid, expectedErr: domain.ErrAlreadyPaid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockPayments := &MockPaymentRepository{}
			mockProducer := &MockProducer{}
			service := &PaymentService{payments: mockPayments, producer: mockProducer, bookingTopic: "booking_events"}

			mockPayments.On("Settle", ctx, int64(1)).Return(nil, nil, tc.settleErr).Once()

			_, err := service.Pay(ctx, 1)
			assert.ErrorIs(t, err, tc.expectedErr)
			mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// fakeSettleRepo reproduces the storage contract: the first settlement of a
// PENDING booking wins, every later attempt sees AlreadyPaid, and exactly
// one payment row exists afterwards.
type fakeSettleRepo struct {
	mu       sync.Mutex
	booking  domain.Booking
	payments []domain.Payment
}

func (f *fakeSettleRepo) Settle(_ context.Context, bookingID int64) (*domain.Payment, *domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.booking.ID != bookingID {
		return nil, nil, domain.ErrNotFound
	}
	if f.booking.Status != domain.BookingStatusPending {
		return nil, nil, domain.ErrInvalidTransition
	}
	if len(f.payments) > 0 {
		return nil, nil, domain.ErrAlreadyPaid
	}

	payment := domain.Payment{
		ID:          int64(len(f.payments) + 1),
		BookingID:   bookingID,
		AmountCents: f.booking.TotalCents,
		Status:      domain.PaymentStatusSuccess,
	}
	f.payments = append(f.payments, payment)
	f.booking.Status = domain.BookingStatusConfirmed

	booking := f.booking
	return &payment, &booking, nil
}

func (f *fakeSettleRepo) GetByBooking(_ context.Context, bookingID int64) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.payments {
		if f.payments[i].BookingID == bookingID {
			return &f.payments[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestPaymentService_Pay_ConcurrentSettlement(t *testing.T) {
	repo := &fakeSettleRepo{
		booking: domain.Booking{ID: 1, TotalCents: 343000, Status: domain.BookingStatusPending},
	}
	service := &PaymentService{payments: repo}

	ctx := context.Background()
	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Pay(ctx, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			isDuplicate := errors.Is(err, domain.ErrAlreadyPaid) || errors.Is(err, domain.ErrInvalidTransition)
			assert.True(t, isDuplicate, "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, domain.BookingStatusConfirmed, repo.booking.Status)
	assert.Len(t, repo.payments, 1)
}
