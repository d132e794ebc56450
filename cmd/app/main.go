package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/shahair/config"
	"github.com/Domenick1991/shahair/internal/bootstrap"
	"github.com/Domenick1991/shahair/internal/cache"
	"github.com/Domenick1991/shahair/internal/kafka"
	"github.com/Domenick1991/shahair/internal/payment"
	"github.com/Domenick1991/shahair/internal/repository"
	bookingsvc "github.com/Domenick1991/shahair/internal/service/booking"
	"github.com/Domenick1991/shahair/internal/service/directory"
	paymentsvc "github.com/Domenick1991/shahair/internal/service/payment"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
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

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.AirportsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.SearchCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	airportRepo := repository.NewAirportRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	providerRepo := repository.NewProviderRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	directoryService := directory.NewDirectoryService(airportRepo, flightRepo, bookingRepo, redisCache)
	bookingService := bookingsvc.NewBookingService(
		bookingRepo,
		flightRepo,
		providerRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		bookingsvc.Window{MinYear: cfg.Booking.BirthYearMin, MaxYear: cfg.Booking.BirthYearMax},
		bookingsvc.Window{MinYear: cfg.Booking.DepartureYearMin, MaxYear: cfg.Booking.DepartureYearMax},
		logger,
		bookingsvc.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	providerClient := payment.NewClient(cfg.Payment.APIKey, time.Duration(cfg.Payment.TimeoutSeconds)*time.Second)
	paymentService := paymentsvc.NewPaymentService(
		bookingRepo,
		flightRepo,
		providerRepo,
		passengerRepo,
		providerClient,
		producer,
		cfg.Kafka.BookingEventsTopic,
		logger,
		paymentsvc.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, directoryService, bookingService, paymentService, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
