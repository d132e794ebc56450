package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/shahair/config"
	"github.com/Domenick1991/shahair/internal/email"
	"github.com/Domenick1991/shahair/internal/kafka"
	"github.com/Domenick1991/shahair/internal/payment"
	"github.com/Domenick1991/shahair/internal/repository"
	paymentsvc "github.com/Domenick1991/shahair/internal/service/payment"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	providerRepo := repository.NewProviderRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	reconcileTicker := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer reconcileTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reconcileTicker.C:
			confirmed, err := paymentService.ReconcileUnpaid(ctx, cfg.Worker.ReconcileBatchSize)
			if err != nil {
				logger.Warn("reconcile sweep failed", zap.Error(err))
				continue
			}
			if confirmed > 0 {
				logger.Info("reconcile sweep", zap.Int("confirmed", confirmed))
			}
		case s := <-sig:
			logger.Info("received signal, shutting down", zap.String("signal", s.String()))
			return
		}
	}
}
