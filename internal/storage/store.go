// Package storage defines the persistence contract shared by every
// backend of the booking engine, plus the in-memory and file-backed
// implementations.  The relational implementation lives in package
// repository and reports failures with the sentinels declared here, so
// callers can tell backends apart only through configuration, never
// through the errors they return.
package storage

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by Update on backends that treat a missing
	// id as an error (the in-memory store).
	ErrNotFound = errors.New("storage: record not found")
	// ErrConstraint signals a uniqueness or referential-integrity
	// violation reported by the backend.
	ErrConstraint = errors.New("storage: constraint violation")
	// ErrIO wraps any other backend failure: unreadable files, broken
	// connections, failed commits.
	ErrIO = errors.New("storage: i/o failure")
)

// Store is the CRUD contract for one entity type.
//
// Read reports an absent id with found == false and a nil error.  Delete
// of an absent id is not an error.  GetAll returns copies, so callers may
// mutate the result freely.  Create assigns the id of the stored record
// back into entity.
type Store[T any] interface {
	Create(ctx context.Context, entity *T) error
	Read(ctx context.Context, id int) (T, bool, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]T, error)
}

// Sequence hands out increasing integer ids starting at 1.  Each memory
// or file store owns exactly one.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// NewSequence returns a sequence whose first id is next (or 1 when next
// is not positive).
func NewSequence(next int) *Sequence {
	if next < 1 {
		next = 1
	}
	return &Sequence{next: next}
}

// Next returns a fresh id.
func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

// Peek returns the id the next call to Next will hand out.
func (s *Sequence) Peek() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Observe moves the sequence past id so an explicitly chosen id is never
// handed out again.
func (s *Sequence) Observe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id >= s.next {
		s.next = id + 1
	}
}
