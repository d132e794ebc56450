package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/shahair/api"
	"github.com/Domenick1991/shahair/config"
	"github.com/Domenick1991/shahair/internal/service/booking"
	"github.com/Domenick1991/shahair/internal/service/directory"
	"github.com/Domenick1991/shahair/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, directorySvc directory.DirectoryUseCase, bookingSvc booking.BookingUseCase, paymentSvc payment.PaymentUseCase, log *zap.Logger) error {
	router := newRouter(directorySvc, bookingSvc, paymentSvc, log)

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

func newRouter(directorySvc directory.DirectoryUseCase, bookingSvc booking.BookingUseCase, paymentSvc payment.PaymentUseCase, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(log))

	root := router.Group("/")
	api.NewAirportHandler(directorySvc).Register(root)
	api.NewFlightHandler(directorySvc).Register(root)
	api.NewBookingHandler(bookingSvc).Register(root)
	api.NewPaymentHandler(paymentSvc).Register(root)

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.Writer.Header().Get(requestIDHeader)),
		)
	}
}
