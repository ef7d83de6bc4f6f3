package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"joyful_time/internal/config"
	sl "joyful_time/internal/lib/logger"
	mailer "joyful_time/internal/mail-sender"
	"joyful_time/internal/models"
	"joyful_time/internal/rabbitmq"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("Starting mail_sender", slog.String("env", cfg.Env), slog.String("queue", cfg.RabbitMQ.QueueName))

	startConsumer(ctx, cfg, log)
}

func startConsumer(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	r, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to init rabbitmq", sl.Err(err))
		return
	}
	defer r.Close()

	m := mailer.NewSMTP(cfg.Mail)

	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := r.StartReading(ctx, log, deliver(log, m)); err != nil {
			log.Error("consumer stopped", sl.Err(err))
		}
	}()

	log.Info("consumer successfully started")

	select {
	case <-ctx.Done():
		log.Info("shutting down consumer...")
		<-done
	case <-done:
		log.Info("consumer finished the work")
	}

	log.Info("service gracefully stopped")
}

func deliver(log *slog.Logger, sender mailer.Sender) func(ctx context.Context, msg models.Message) error {
	return func(ctx context.Context, msg models.Message) error {
		if err := sender.Send(ctx, msg.Email); err != nil {
			return err
		}

		log.Info("message sent successfully", slog.String("subject", msg.Email.Subject))

		return nil
	}
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
