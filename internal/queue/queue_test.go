package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/iliyamo/rental-booking/internal/model"
)

func sampleBooking() (model.Booking, model.Property) {
	in := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b := model.Booking{
		ID: 3, GuestID: 2, PropertyID: 5, PaymentID: 4,
		CheckInDate: in, CheckOutDate: in.AddDate(0, 0, 2), TotalPrice: 200,
	}
	return b, model.Property{ID: 5, HostID: 9}
}

func TestNewBookingCreated(t *testing.T) {
	b, p := sampleBooking()
	ev := NewBookingCreated(b, p, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))

	if ev.MessageID == "" {
		t.Error("MessageID is empty")
	}
	if ev.HostID != 9 || ev.Nights != 2 || ev.TotalPrice != 200 {
		t.Errorf("event = %+v", ev)
	}
	if ev.CheckIn != "2025-06-01T00:00:00Z" || ev.CreatedAt != "2025-05-01T12:00:00Z" {
		t.Errorf("timestamps = %s, %s", ev.CheckIn, ev.CreatedAt)
	}
	if other := NewBookingCreated(b, p, time.Now()); other.MessageID == ev.MessageID {
		t.Error("message ids should be unique per event")
	}
}

func TestPublisherSendsToEventQueue(t *testing.T) {
	p := NewPublisher("", nil)
	var gotQueue string
	var gotBody []byte
	p.send = func(ctx context.Context, queue string, body []byte) error {
		gotQueue, gotBody = queue, body
		return nil
	}

	ev := NewPaymentProcessed(model.Payment{ID: 4, Amount: 200, Processed: true}, 3, time.Now())
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if gotQueue != PaymentProcessedQueue {
		t.Errorf("queue = %q, want %q", gotQueue, PaymentProcessedQueue)
	}
	var decoded PaymentProcessedEvent
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.PaymentID != 4 || decoded.BookingID != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestPublisherBreakerOpens(t *testing.T) {
	p := NewPublisher("", nil)
	calls := 0
	p.send = func(ctx context.Context, queue string, body []byte) error {
		calls++
		return errors.New("broker down")
	}

	b, prop := sampleBooking()
	ev := NewBookingCreated(b, prop, time.Now())
	for i := 0; i < 3; i++ {
		if err := p.Publish(context.Background(), ev); err == nil {
			t.Fatal("Publish() succeeded against a failing broker")
		}
	}
	err := p.Publish(context.Background(), ev)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("fourth Publish() error = %v, want open breaker", err)
	}
	if calls != 3 {
		t.Errorf("send called %d times, want 3", calls)
	}
}

func TestConsumerHandleMessage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	c := NewConsumer("", dir, nil)

	b, p := sampleBooking()
	booking, _ := json.Marshal(NewBookingCreated(b, p, time.Now()))
	payment, _ := json.Marshal(NewPaymentProcessed(model.Payment{ID: 4, Amount: 200}, 3, time.Now()))

	if err := c.handleMessage(BookingCreatedQueue, booking); err != nil {
		t.Fatalf("handleMessage(booking) error = %v", err)
	}
	if err := c.handleMessage(PaymentProcessedQueue, payment); err != nil {
		t.Fatalf("handleMessage(payment) error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, AuditLogName))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("audit log has %d lines, want 2:\n%s", len(lines), raw)
	}
	if !strings.Contains(lines[0], "Booking created | booking_id=3") || !strings.Contains(lines[0], "total=200.00") {
		t.Errorf("booking line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Payment processed | payment_id=4 | booking_id=3") {
		t.Errorf("payment line = %q", lines[1])
	}
}

func TestConsumerRejectsBadMessages(t *testing.T) {
	c := NewConsumer("", t.TempDir(), nil)
	if err := c.handleMessage(BookingCreatedQueue, []byte("{")); err == nil {
		t.Error("malformed body accepted")
	}
	if err := c.handleMessage("unknown.queue", []byte("{}")); err == nil {
		t.Error("unknown queue accepted")
	}
}
