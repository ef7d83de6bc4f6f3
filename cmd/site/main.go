package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"joyful_time/internal/config"
	"joyful_time/internal/http_server/handlers/contact"
	"joyful_time/internal/http_server/site"
	sl "joyful_time/internal/lib/logger"
	mailer "joyful_time/internal/mail-sender"
	rateLimit "joyful_time/internal/middleware/ratelimit"
	"joyful_time/internal/rabbitmq"
	"joyful_time/internal/relay"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting site", slog.String("env", cfg.Env), slog.String("transport", cfg.Mail.Transport))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender, closeSender, err := newSender(cfg)
	if err != nil {
		log.Error("failed to init mail transport", sl.Err(err))
		os.Exit(1)
	}
	defer closeSender()

	contactRelay := relay.New(log, sender, cfg.Mail)

	router := setupRouter(log, contactRelay, cfg.RateLimit)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", sl.Err(err))
	} else {
		log.Info("Server stopped gracefully")
	}
}

// newSender picks the mail transport. Only the broker connects at startup;
// SMTP and Resend settings are checked when a message is sent.
func newSender(cfg *config.Config) (relay.Sender, func(), error) {
	switch cfg.Mail.Transport {
	case config.TransportSMTP, "":
		return mailer.NewSMTP(cfg.Mail), func() {}, nil
	case config.TransportResend:
		return mailer.NewResend(cfg.Mail.ResendAPIKey), func() {}, nil
	case config.TransportAMQP:
		client, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			return nil, nil, err
		}

		return client, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}

func setupRouter(
	log *slog.Logger,
	contactRelay contact.Relay,
	limits config.RateLimit,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(rateLimit.Contact(limits.Requests, limits.Window)).Post("/api/contact",
		contact.New(log, contact.NewValidator(), contactRelay),
	)

	r.Handle("/*", site.Handler())

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default: // envProd
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
