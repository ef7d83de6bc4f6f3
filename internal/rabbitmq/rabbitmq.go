package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sl "joyful_time/internal/lib/logger"
	"joyful_time/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func New(urlForConn string, queueName string) (*RabbitMQClient, error) {
	const op = "rabbitmq.New"

	conn, err := amqp.Dial(urlForConn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ch.QueueDeclare(
		queueName, true, false, false, false, nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: ch,
		queue:   q,
	}, nil
}

// Send hands the email to the queue; mail_sender performs the SMTP delivery.
func (r *RabbitMQClient) Send(ctx context.Context, email models.Email) error {
	const op = "rabbitmq.Send"

	publishing, err := NewPublishing(email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.channel.PublishWithContext(ctx, "", r.queue.Name, false, false, publishing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func NewPublishing(email models.Email) (amqp.Publishing, error) {
	body, err := json.Marshal(models.Message{Email: email})
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}, nil
}

// StartReading consumes the queue until ctx is done or the channel closes.
// Each delivery is acked when handle succeeds and dropped otherwise.
func (r *RabbitMQClient) StartReading(ctx context.Context, log *slog.Logger, handle func(ctx context.Context, msg models.Message) error) error {
	const op = "rabbitmq.StartReading"

	deliveries, err := r.channel.ConsumeWithContext(ctx, r.queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}

				return fmt.Errorf("%s: delivery channel closed", op)
			}

			if err := HandleDelivery(ctx, log, d, handle); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}
}

// HandleDelivery decodes one delivery and settles it. Only ack/nack
// failures are returned; handler errors are settled with a nack.
func HandleDelivery(
	ctx context.Context,
	log *slog.Logger,
	d amqp.Delivery,
	handle func(ctx context.Context, msg models.Message) error,
) error {
	var msg models.Message

	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error("failed to unmarshal message", sl.Err(err))

		return d.Nack(false, false)
	}

	if err := handle(ctx, msg); err != nil {
		log.Error("failed to handle message", sl.Err(err))

		return d.Nack(false, false)
	}

	return d.Ack(false)
}

func (r *RabbitMQClient) Close() {
	_ = r.channel.Close()
	_ = r.conn.Close()
}
