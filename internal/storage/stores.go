package storage

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/model"
)

// Kind names a storage backend.
type Kind string

const (
	KindMemory     Kind = "memory"
	KindFile       Kind = "file"
	KindRelational Kind = "relational"
)

// ParseKind validates a backend name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMemory, KindFile, KindRelational:
		return k, nil
	default:
		return "", fmt.Errorf("unknown storage kind %q (want memory, file or relational)", s)
	}
}

// Stores bundles one store per entity type.  All of them come from the
// same backend.
type Stores struct {
	Hosts      Store[model.Host]
	Guests     Store[model.Guest]
	Locations  Store[model.Location]
	Amenities  Store[model.Amenity]
	Policies   Store[model.CancellationPolicy]
	Properties Store[model.Property]
	Bookings   Store[model.Booking]
	Payments   Store[model.Payment]
	Reviews    Store[model.Review]

	closer func() error
}

// NewStores is used by backends living outside this package to assemble
// a bundle.  closer may be nil.
func NewStores(s Stores, closer func() error) *Stores {
	s.closer = closer
	return &s
}

// Close releases backend resources (database handles).  It is safe to
// call on memory and file bundles.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// NewMemory returns a bundle of in-memory stores, each with its own id
// sequence.
func NewMemory() *Stores {
	return &Stores{
		Hosts:      NewMemoryStore[model.Host](NewSequence(1)),
		Guests:     NewMemoryStore[model.Guest](NewSequence(1)),
		Locations:  NewMemoryStore[model.Location](NewSequence(1)),
		Amenities:  NewMemoryStore[model.Amenity](NewSequence(1)),
		Policies:   NewMemoryStore[model.CancellationPolicy](NewSequence(1)),
		Properties: NewMemoryStore[model.Property](NewSequence(1)),
		Bookings:   NewMemoryStore[model.Booking](NewSequence(1)),
		Payments:   NewMemoryStore[model.Payment](NewSequence(1)),
		Reviews:    NewMemoryStore[model.Review](NewSequence(1)),
	}
}

// NewFile returns a bundle of file stores, one JSON document per entity
// type under dir.
func NewFile(dir string, log logrus.FieldLogger) (*Stores, error) {
	var (
		s   Stores
		err error
	)
	if s.Hosts, err = NewFileStore[model.Host](dir, "hosts", log); err != nil {
		return nil, err
	}
	if s.Guests, err = NewFileStore[model.Guest](dir, "guests", log); err != nil {
		return nil, err
	}
	if s.Locations, err = NewFileStore[model.Location](dir, "locations", log); err != nil {
		return nil, err
	}
	if s.Amenities, err = NewFileStore[model.Amenity](dir, "amenities", log); err != nil {
		return nil, err
	}
	if s.Policies, err = NewFileStore[model.CancellationPolicy](dir, "cancellation_policies", log); err != nil {
		return nil, err
	}
	if s.Properties, err = NewFileStore[model.Property](dir, "properties", log); err != nil {
		return nil, err
	}
	if s.Bookings, err = NewFileStore[model.Booking](dir, "bookings", log); err != nil {
		return nil, err
	}
	if s.Payments, err = NewFileStore[model.Payment](dir, "payments", log); err != nil {
		return nil, err
	}
	if s.Reviews, err = NewFileStore[model.Review](dir, "reviews", log); err != nil {
		return nil, err
	}
	return &s, nil
}
