package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"salon-booking-api/internal/app"
	"salon-booking-api/internal/booking"
	"salon-booking-api/internal/config"
	"salon-booking-api/internal/handler"
	"salon-booking-api/internal/mail"
	"salon-booking-api/internal/metrics"
	"salon-booking-api/internal/middleware"
	"salon-booking-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := app.NewLogger(cfg.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	logger.Info("connected to postgres")

	// migrations
	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}
	migrator.Close()
	logger.Info("migrations applied")

	st := store.New(pool)

	var mailer mail.Sender
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	} else {
		mailer = mail.NewLog(logger)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	bookings := booking.NewManager(st, mailer, m, logger, cfg.PublicBaseURL, cfg.RetentionWindow)

	sweeper := booking.NewSweeper(bookings, cfg.PurgeInterval, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	h := handler.New(bookings, st, st, mailer, logger, handler.Config{
		JWTSecret:       cfg.JWTSecret,
		PublicBaseURL:   cfg.PublicBaseURL,
		FrontendBaseURL: cfg.FrontendBaseURL,
		AdminEmail:      cfg.AdminEmail,
	})
	rl := middleware.NewRateLimiter(5, 10)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Router(rl),
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
