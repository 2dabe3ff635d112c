package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mervekc/flight-booking/api"
	"github.com/mervekc/flight-booking/config"
	"github.com/mervekc/flight-booking/internal/service/auth"
	"github.com/mervekc/flight-booking/internal/service/booking"
	"github.com/mervekc/flight-booking/internal/service/flights"
	"github.com/mervekc/flight-booking/internal/service/payment"
)

// Run assembles the gin router, starts the HTTP server and blocks until the
// context is canceled or the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	authSvc auth.AuthUseCase,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	paymentSvc payment.PaymentUseCase,
) error {
	router := gin.Default()

	apiGroup := router.Group("/api")
	api.NewAuthHandler(authSvc).Register(apiGroup.Group("/auth"))
	api.NewFlightHandler(flightSvc).Register(apiGroup)

	bookingsGroup := apiGroup.Group("/bookings")
	bookingsGroup.Use(api.AuthRequired(cfg.Auth.JWTSecret))
	api.NewBookingHandler(bookingSvc, paymentSvc).Register(bookingsGroup)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
