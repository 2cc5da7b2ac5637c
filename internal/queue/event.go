// Package queue defines the domain events exchanged over the message
// broker, the publisher used by the booking service and the background
// consumer that keeps an audit trail of them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-booking/internal/model"
)

// Queue names.  Each event type travels on its own durable queue.
const (
	BookingCreatedQueue   = "booking.created"
	PaymentProcessedQueue = "payment.processed"
)

// Event is implemented by every message the publisher accepts.
type Event interface {
	// Queue is the routing key (and queue name) of the event.
	Queue() string
}

// BookingCreatedEvent is published after a booking and its payment have
// been stored.  It carries enough information for downstream consumers
// to log or notify without querying the primary store.
type BookingCreatedEvent struct {
	MessageID  string  `json:"message_id"`
	BookingID  int     `json:"booking_id"`
	GuestID    int     `json:"guest_id"`
	PropertyID int     `json:"property_id"`
	HostID     int     `json:"host_id"`
	PaymentID  int     `json:"payment_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Nights     int64   `json:"nights"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at"`
}

func (BookingCreatedEvent) Queue() string { return BookingCreatedQueue }

// NewBookingCreated builds the event for b booked on property p.
func NewBookingCreated(b model.Booking, p model.Property, at time.Time) BookingCreatedEvent {
	return BookingCreatedEvent{
		MessageID:  uuid.NewString(),
		BookingID:  b.ID,
		GuestID:    b.GuestID,
		PropertyID: b.PropertyID,
		HostID:     p.HostID,
		PaymentID:  b.PaymentID,
		CheckIn:    b.CheckInDate.UTC().Format(time.RFC3339),
		CheckOut:   b.CheckOutDate.UTC().Format(time.RFC3339),
		Nights:     b.Nights(),
		TotalPrice: b.TotalPrice,
		CreatedAt:  at.UTC().Format(time.RFC3339),
	}
}

// PaymentProcessedEvent is published when a payment moves to processed.
// BookingID is zero when the payment was processed directly by id.
type PaymentProcessedEvent struct {
	MessageID   string  `json:"message_id"`
	PaymentID   int     `json:"payment_id"`
	BookingID   int     `json:"booking_id,omitempty"`
	Amount      float64 `json:"amount"`
	ProcessedAt string  `json:"processed_at"`
}

func (PaymentProcessedEvent) Queue() string { return PaymentProcessedQueue }

// NewPaymentProcessed builds the event for payment p.
func NewPaymentProcessed(p model.Payment, bookingID int, at time.Time) PaymentProcessedEvent {
	return PaymentProcessedEvent{
		MessageID:   uuid.NewString(),
		PaymentID:   p.ID,
		BookingID:   bookingID,
		Amount:      p.Amount,
		ProcessedAt: at.UTC().Format(time.RFC3339),
	}
}
