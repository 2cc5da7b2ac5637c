// Package service implements the booking engine: reference-data
// deduplication, availability checks, booking with payment creation,
// payment processing, and the read-side queries and aggregates used by
// the HTTP API.
//
// The service owns no state of its own beyond per-key locks; every
// entity lives in the storage.Store handed to New, so the same service
// runs unchanged on top of the memory, file and relational backends.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/storage"
)

// Publisher delivers domain events.  *queue.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Service coordinates the entity stores.
type Service struct {
	stores *storage.Stores

	publisher Publisher
	log       logrus.FieldLogger
	now       func() time.Time

	// refMu serializes find-or-create of locations and cancellation
	// policies so concurrent listings cannot insert the same one twice.
	refMu         sync.Mutex
	propertyLocks *keyedMutex
	paymentLocks  *keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher enables event publishing.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the logger.  The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a service over stores.
func New(stores *storage.Stores, opts ...Option) *Service {
	s := &Service{
		stores:        stores,
		log:           logrus.StandardLogger(),
		now:           time.Now,
		propertyLocks: newKeyedMutex(),
		paymentLocks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "booking-service")
	return s
}

// stamp is the current time as stored: UTC, microsecond precision, which
// every backend keeps exactly.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// publish is best effort: failures are logged and never surface to the
// caller, whose change is already committed.
func (s *Service) publish(ctx context.Context, ev queue.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("queue", ev.Queue()).Warn("event publish failed")
	}
}

// readByID loads id from store and upgrades an absent record to
// ErrNotFound.
func readByID[T any](ctx context.Context, store storage.Store[T], op string, id int) (T, error) {
	v, found, err := store.Read(ctx, id)
	if err != nil {
		return v, storageError(op, err)
	}
	if !found {
		return v, newError(op, ErrNotFound, nil)
	}
	return v, nil
}

// filter returns the records of store matching keep, in storage order.
// The result is never nil.
func filter[T any](ctx context.Context, store storage.Store[T], op string, keep func(T) bool) ([]T, error) {
	all, err := store.GetAll(ctx)
	if err != nil {
		return nil, storageError(op, err)
	}
	out := make([]T, 0, len(all))
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// list returns every record of store; the result is never nil.
func list[T any](ctx context.Context, store storage.Store[T], op string) ([]T, error) {
	return filter(ctx, store, op, func(T) bool { return true })
}
