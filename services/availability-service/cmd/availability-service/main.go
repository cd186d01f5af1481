package main

import (
	"context"
	"net/http"
	"time"

	"github.com/speakoai/availability/libs/config"
	"github.com/speakoai/availability/libs/db"
	"github.com/speakoai/availability/libs/httpx"
	"github.com/speakoai/availability/libs/kafkax"
	otelx "github.com/speakoai/availability/libs/otel"
	"github.com/speakoai/availability/libs/runtime"
	"github.com/speakoai/availability/services/availability-service/internal/cache"
	"github.com/speakoai/availability/services/availability-service/internal/consumer"
	"github.com/speakoai/availability/services/availability-service/internal/dispatch"
	"github.com/speakoai/availability/services/availability-service/internal/handlers"
	"github.com/speakoai/availability/services/availability-service/internal/horizon"
	"github.com/speakoai/availability/services/availability-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8090")
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
	pool, err := db.Open(ctx, dbURL, db.Options{
		MaxConns:        int32(mustInt("DB_MAX_CONNS", 10)),
		ApplicationName: service,
		ReadOnly:        true,
	})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	rdb, err := cache.Open(ctx, config.String("REDIS_URL", ""), config.String("REDIS_ADDR", ""))
	if err != nil {
		logger.Error("redis connection failed", "err", err)
		panic(err)
	}
	defer rdb.Close()

	workers := mustInt("WORKER_COUNT", 4)
	queueSize := mustInt("QUEUE_SIZE", 256)
	inboxTTL := mustDuration("INBOX_TTL", 24*time.Hour)
	runTTL := mustDuration("RUN_TTL", 24*time.Hour)

	store := cache.NewStore(rdb)
	runs := cache.NewRuns(rdb, runTTL)
	locations := storage.NewLocationRepository(pool)

	driver := horizon.NewDriver(locations, horizon.NewPublisher(store, logger), logger, horizon.DriverConfig{},
		horizon.StaffKind(storage.NewStaffRepository(pool)),
		horizon.VenueKind(storage.NewVenueRepository(pool)),
	)
	runPool := dispatch.NewPool(driver, logger, dispatch.PoolConfig{
		Workers:   workers,
		QueueSize: queueSize,
		Runs:      runs,
	})
	go runPool.Run(ctx)

	if config.Bool("NIGHTLY_ENABLED", true) {
		var roster dispatch.Roster = dispatch.NewDBRoster(locations)
		if path := config.String("ROSTER_FILE", ""); path != "" {
			fileRoster, err := dispatch.LoadRosterFile(path)
			if err != nil {
				logger.Error("roster file invalid", "err", err, "path", path)
				panic(err)
			}
			roster = fileRoster
		}
		nightly, err := dispatch.NewNightly(roster, runPool, logger, dispatch.NightlyConfig{
			Schedule: config.String("NIGHTLY_CRON", "0 * * * *"),
		})
		if err != nil {
			panic(err)
		}
		go nightly.Run(ctx)
	}

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
		{Name: "redis", Check: cache.ReadyCheck(rdb)},
	}
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		eventConsumer := consumer.New(logger, cache.NewInbox(rdb, inboxTTL), consumer.Config{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", service),
			Topic:   config.String("KAFKA_CONSUME_TOPIC", "booking.changed.v1"),
		}, consumer.BookingChangedHandler(runPool, logger))
		go eventConsumer.Run(ctx)
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	} else {
		logger.Warn("KAFKA_BROKERS not set, booking change consumer disabled")
	}

	availabilityHandler := handlers.NewAvailabilityHandler(runPool, store, runs, logger)
	protect := []httpx.Middleware{
		httpx.WithAllowedOrigins(config.List("ALLOWED_ORIGINS")),
		httpx.WithAPIKey(config.String("API_SECRET_KEY", "")),
		httpx.NewRedisRateLimiter(rdb, mustInt("RATE_LIMIT_PER_MINUTE", 120), time.Minute, "availability:rl").
			Middleware(logger, true),
		httpx.WithBodyLimit(64 << 10),
	}

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.Handle("/v1/availability/generate", httpx.Chain(http.HandlerFunc(availabilityHandler.Generate), protect...))
	mux.Handle("/v1/availability/generate-venue", httpx.Chain(http.HandlerFunc(availabilityHandler.GenerateVenue), protect...))
	mux.Handle("/v1/availability/chunk", httpx.Chain(http.HandlerFunc(availabilityHandler.Chunk), protect...))
	mux.Handle("/v1/availability/runs", httpx.Chain(http.HandlerFunc(availabilityHandler.Run), protect...))

	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithTimeout(15*time.Second),
	)
	handler = otelhttp.NewHandler(handler, "availability")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "workers", workers, "queue_size", queueSize)
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

func mustInt(key string, fallback int) int {
	n, err := config.Int(key, fallback)
	if err != nil {
		panic(err)
	}
	return n
}

func mustDuration(key string, fallback time.Duration) time.Duration {
	d, err := config.Duration(key, fallback)
	if err != nil {
		panic(err)
	}
	return d
}
