package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowslot/internal/api"
	"glowslot/internal/availability"
	"glowslot/internal/booking"
	"glowslot/internal/cache"
	"glowslot/internal/config"
	"glowslot/internal/database"
	"glowslot/internal/events"
	"glowslot/internal/export"
	"glowslot/internal/metrics"
	"glowslot/internal/notify"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("GLOWSLOT_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	var availCache *cache.Availability
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		availCache = cache.New(rdb, cfg.CacheTTL(), logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	resolver := availability.New(db, db, db, logger)

	var invalidator booking.Invalidator
	if availCache != nil {
		invalidator = availCache
	}
	svc := booking.New(db, bus, invalidator, cfg.Location(), booking.Rules{MaxAdvance: cfg.MaxAdvance()}, logger)

	customer, admin := buildChannels(cfg, logger)
	if customer != nil || admin != nil {
		dispatcher := notify.NewDispatcher(customer, admin, logger)
		bus.Subscribe(dispatcher.HandleBookingCreated)
		go dispatcher.Run(ctx)
	}

	if cfg.Reminders.Enabled && customer != nil {
		reminder := notify.NewReminder(db, customer, cfg.Location(), cfg.Reminders.Hour, logger)
		go reminder.Run(ctx)
	}

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup.StoragePath, cfg.Backup.RetentionDays, logger)
		go backup.Start(ctx)
	}

	if cfg.Sheets.CredentialsFile != "" && cfg.Sheets.SpreadsheetID != "" {
		go runSheetsSync(ctx, cfg, db, logger)
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	server := api.NewHTTPServer(fmt.Sprintf(":%d", cfg.Server.Port), db, svc, resolver, availCache, logger)
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	}()

	logger.Info().Msg("glowslot started")
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("glowslot stopped")
}

// buildChannels wires whichever chat channels are configured. Either
// may come back nil.
func buildChannels(cfg *config.Config, logger zerolog.Logger) (notify.TextSender, notify.Alerter) {
	var customer notify.TextSender
	if cfg.Line.ChannelToken != "" {
		customer = notify.NewLineClient(cfg.Line.APIBase, cfg.Line.ChannelToken)
	}

	var admin notify.Alerter
	if cfg.Telegram.BotToken != "" && len(cfg.Telegram.AdminChatIDs) > 0 {
		alerter, err := notify.NewTelegramAlerter(cfg.Telegram.BotToken, cfg.Telegram.AdminChatIDs)
		if err != nil {
			logger.Error().Err(err).Msg("telegram alerter disabled")
		} else {
			admin = alerter
		}
	}
	return customer, admin
}

// runSheetsSync mirrors upcoming bookings to the configured spreadsheet
// on an interval. Sync failures are logged and retried next tick.
func runSheetsSync(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) {
	svc, err := export.NewSheetsService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
	if err != nil {
		logger.Error().Err(err).Msg("sheets sync disabled")
		return
	}

	interval := time.Duration(cfg.Sheets.SyncIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sync := func() {
		now := time.Now().In(cfg.Location())
		from := now.Format("2006-01-02")
		to := now.AddDate(0, 0, cfg.Business.MaxAdvanceDays).Format("2006-01-02")

		bookings, err := db.ListBookingsBetween(ctx, from, to)
		if err != nil {
			logger.Error().Err(err).Msg("sheets sync: failed to load bookings")
			return
		}
		if err := svc.SyncBookings(ctx, bookings); err != nil {
			logger.Error().Err(err).Msg("sheets sync failed")
			return
		}
		logger.Info().Int("bookings", len(bookings)).Msg("sheets sync completed")
	}

	sync()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sync()
		}
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
