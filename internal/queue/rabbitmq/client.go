// Package rabbitmq - очередь файлов, которые не удалось удалить из хранилища.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"atelier/internal/config"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/metrics"
	cleanup "atelier/internal/services/cleanup"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Client struct {
	log        *slog.Logger
	conn       *amqp.Connection
	channel    *amqp.Channel
	pub        publisher
	queue      string
	retryQueue string
	retryDelay time.Duration
}

// NewClient подключается к RabbitMQ и объявляет две durable-очереди:
// рабочую и <queue>.retry без потребителей. Сообщения из retry по истечении
// TTL возвращаются в рабочую через dead-letter.
func NewClient(cfg config.RabbitMQConfig, log *slog.Logger) (*Client, error) {
	const op = "rabbitmq.NewClient"

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: open channel: %w", op, err)
	}

	q, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: declare queue: %w", op, err)
	}

	retry, err := ch.QueueDeclare(
		q.Name+".retry",
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": q.Name,
		},
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: declare retry queue: %w", op, err)
	}

	log.Info("rabbitmq queues declared",
		slog.String("queue", q.Name),
		slog.Int("messages", q.Messages),
		slog.String("retry_queue", retry.Name),
		slog.Duration("retry_delay", cfg.RetryDelay),
	)

	return &Client{
		log:        log,
		conn:       conn,
		channel:    ch,
		pub:        ch,
		queue:      q.Name,
		retryQueue: retry.Name,
		retryDelay: cfg.RetryDelay,
	}, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.log.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.log.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
}

// Publish кладёт задание на удаление в рабочую очередь.
func (c *Client) Publish(ctx context.Context, job cleanup.Job) error {
	const op = "rabbitmq.Client.Publish"

	if err := c.publish(ctx, c.queue, job, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.OrphanedBlobsPublished.WithLabelValues("rabbitmq").Inc()
	return nil
}

// retry откладывает задание: оно лежит в retry-очереди retryDelay
// и затем возвращается в рабочую.
func (c *Client) retry(ctx context.Context, job cleanup.Job) error {
	const op = "rabbitmq.Client.retry"

	// одинаковый TTL у всех сообщений: истекают строго по порядку
	expiration := strconv.FormatInt(c.retryDelay.Milliseconds(), 10)
	if err := c.publish(ctx, c.retryQueue, job, expiration); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) publish(ctx context.Context, queue string, job cleanup.Job, expiration string) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.pub.PublishWithContext(publishCtx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Expiration:   expiration,
		Body:         body,
	})
}

// Consume обрабатывает задания, пока не отменён ctx.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, cleanup.Job) error) error {
	const op = "rabbitmq.Client.Consume"

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: register consumer: %w", op, err)
	}

	c.log.Info("consuming cleanup jobs", slog.String("queue", c.queue))

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}
			c.handle(ctx, msg, handler)
		case <-ctx.Done():
			return nil
		}
	}
}

// handle подтверждает сообщение при успехе или исчерпании попыток.
// Неудачное задание с увеличенным счётчиком попыток уходит в retry-очередь,
// битое сообщение отбрасывается.
func (c *Client) handle(ctx context.Context, msg amqp.Delivery, handler func(context.Context, cleanup.Job) error) {
	var job cleanup.Job
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		c.log.Error("malformed cleanup job", sl.Err(err), slog.String("body", string(msg.Body)))
		if err := msg.Nack(false, false); err != nil {
			c.log.Error("failed to nack message", sl.Err(err))
		}
		return
	}

	err := handler(ctx, job)
	if err != nil && !errors.Is(err, cleanup.ErrGiveUp) {
		job.Attempt++
		if perr := c.retry(ctx, job); perr != nil {
			c.log.Error("failed to requeue cleanup job", sl.Err(perr))
			if err := msg.Nack(false, true); err != nil {
				c.log.Error("failed to nack message", sl.Err(err))
			}
			return
		}
	}

	if err := msg.Ack(false); err != nil {
		c.log.Error("failed to ack message", sl.Err(err))
	}
}
