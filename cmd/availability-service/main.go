package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/courtside/internal/availability"
	"github.com/md-rashed-zaman/courtside/internal/cache"
	"github.com/md-rashed-zaman/courtside/internal/consumer"
	"github.com/md-rashed-zaman/courtside/internal/handlers"
	"github.com/md-rashed-zaman/courtside/internal/inbox"
	"github.com/md-rashed-zaman/courtside/internal/storage"
	"github.com/md-rashed-zaman/courtside/libs/config"
	"github.com/md-rashed-zaman/courtside/libs/db"
	"github.com/md-rashed-zaman/courtside/libs/httpx"
	"github.com/md-rashed-zaman/courtside/libs/kafkax"
	otelx "github.com/md-rashed-zaman/courtside/libs/otel"
	"github.com/md-rashed-zaman/courtside/libs/runtime"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	repo := storage.NewCourtRepository(pool)
	svc := availability.NewService(repo)

	var (
		rdb        *redis.Client
		availCache *cache.AvailabilityCache
	)
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		availCache = cache.New(rdb, config.Duration("AVAILABILITY_CACHE_TTL", 30*time.Second))
		logger.Info("availability cache enabled", "redis_addr", addr)
	}

	brokers := config.String("KAFKA_BROKERS", "")
	if strings.TrimSpace(brokers) != "" && availCache != nil {
		var topics []string
		for _, t := range []string{
			config.String("KAFKA_CONSUME_TOPIC", "booking.court.booked.v1"),
			config.String("KAFKA_CONSUME_TOPIC_2", "booking.court.cancelled.v1"),
		} {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
		if len(topics) > 0 {
			eventConsumer := consumer.New(logger, inbox.NewRepository(pool), consumer.Config{
				Brokers: brokers,
				GroupID: config.String("KAFKA_GROUP_ID", "availability-service"),
				Topics:  topics,
			}, invalidateOnBookingEvent(availCache, logger))
			go eventConsumer.Run(ctx)
		}
	}

	availabilityHandler := handlers.NewAvailabilityHandler(svc, availCache, logger)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if rdb != nil {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	if strings.TrimSpace(brokers) != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/api/v1/public/availability", availabilityHandler.Day)
	mux.HandleFunc("/api/v1/public/quote", availabilityHandler.Quote)

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1 << 20),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT", 15*time.Second)),
	}
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if rdb != nil {
		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		middlewares = append(middlewares, rl.Middleware(logger, true))
	} else {
		middlewares = append(middlewares, httpx.NewRateLimiter(limitPerMinute, time.Minute).Middleware())
	}

	httpHandler := httpx.Chain(mux, middlewares...)
	httpHandler = otelhttp.NewHandler(httpHandler, "availability")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

// invalidateOnBookingEvent drops cached availability for the court/date a
// booking event touches. Both booked and cancelled events change the slot
// picture, so both invalidate.
func invalidateOnBookingEvent(availCache *cache.AvailabilityCache, logger *slog.Logger) consumer.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload struct {
			CourtID     string `json:"court_id"`
			BookingDate string `json:"booking_date"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid event payload", "err", err, "topic", msg.Topic)
			return nil
		}
		if payload.CourtID == "" || payload.BookingDate == "" {
			logger.Error("missing required event fields", "topic", msg.Topic)
			return nil
		}
		return availCache.Invalidate(ctx, payload.CourtID, payload.BookingDate)
	}
}
