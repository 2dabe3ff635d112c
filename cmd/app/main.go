package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mervekc/flight-booking/config"
	"github.com/mervekc/flight-booking/internal/bootstrap"
	"github.com/mervekc/flight-booking/internal/cache"
	"github.com/mervekc/flight-booking/internal/kafka"
	"github.com/mervekc/flight-booking/internal/repository"
	"github.com/mervekc/flight-booking/internal/service/auth"
	"github.com/mervekc/flight-booking/internal/service/booking"
	"github.com/mervekc/flight-booking/internal/service/flights"
	"github.com/mervekc/flight-booking/internal/service/payment"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.FlightSearchTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	authService := auth.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	flightService := flights.NewFlightService(catalogRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		catalogRepo,
		userRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	paymentService := payment.NewPaymentService(
		paymentRepo,
		userRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		payment.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, authService, flightService, bookingService, paymentService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
