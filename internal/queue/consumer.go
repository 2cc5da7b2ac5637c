package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditLogName is the file, inside the consumer's log directory, that
// receives one line per consumed event.
const AuditLogName = "booking.log"

// Consumer drains the event queues and appends a single human readable
// line per message to <dir>/booking.log.
type Consumer struct {
	url string
	dir string
	log logrus.FieldLogger
}

// NewConsumer returns a consumer for the broker at url writing to dir.
func NewConsumer(url, dir string, log logrus.FieldLogger) *Consumer {
	if url == "" {
		url = DefaultURL
	}
	if dir == "" {
		dir = "logs"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Consumer{url: url, dir: dir, log: log.WithField("component", "booking-consumer")}
}

// Run connects to the broker and consumes until ctx is cancelled.  Broken
// connections are retried with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("set QoS failed")
	}

	deliveries := make(map[string]<-chan amqp.Delivery)
	for _, q := range []string{BookingCreatedQueue, PaymentProcessedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		deliveries[q] = msgs
	}

	bookings, payments := deliveries[BookingCreatedQueue], deliveries[PaymentProcessedQueue]
	for {
		var (
			d  amqp.Delivery
			ok bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-bookings:
		case d, ok = <-payments:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.handleMessage(d.RoutingKey, d.Body); err != nil {
			c.log.WithError(err).WithField("queue", d.RoutingKey).Error("handle message failed")
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

// handleMessage renders the event on queue and appends it to the audit log.
func (c *Consumer) handleMessage(queue string, body []byte) error {
	line, err := formatEvent(queue, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, AuditLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatEvent(queue string, body []byte) (string, error) {
	switch queue {
	case BookingCreatedQueue:
		var ev BookingCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Booking created | booking_id=%d | guest_id=%d | property_id=%d | host_id=%d | payment_id=%d | check_in=%s | check_out=%s | nights=%d | total=%.2f | message_id=%s\n",
			ev.CreatedAt, ev.BookingID, ev.GuestID, ev.PropertyID, ev.HostID, ev.PaymentID,
			ev.CheckIn, ev.CheckOut, ev.Nights, ev.TotalPrice, ev.MessageID), nil
	case PaymentProcessedQueue:
		var ev PaymentProcessedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Payment processed | payment_id=%d | booking_id=%d | amount=%.2f | message_id=%s\n",
			ev.ProcessedAt, ev.PaymentID, ev.BookingID, ev.Amount, ev.MessageID), nil
	default:
		return "", fmt.Errorf("unexpected queue %q", queue)
	}
}
