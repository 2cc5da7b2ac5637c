package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/rental-booking/internal/model"
)

// MemoryStore keeps records in a map guarded by a RWMutex and remembers
// insertion order for GetAll.  Values are copied on the way in and on the
// way out, so the stored state can only change through the Store methods.
type MemoryStore[T any, P model.Identifiable[T]] struct {
	mu      sync.RWMutex
	seq     *Sequence
	records map[int]T
	order   []int
}

// NewMemoryStore returns an empty store drawing ids from seq.  A nil seq
// gets a private sequence starting at 1.
func NewMemoryStore[T any, P model.Identifiable[T]](seq *Sequence) *MemoryStore[T, P] {
	if seq == nil {
		seq = NewSequence(1)
	}
	return &MemoryStore[T, P]{seq: seq, records: make(map[int]T)}
}

// Create always assigns a fresh id, whatever id entity carries.
func (s *MemoryStore[T, P]) Create(ctx context.Context, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.seq.Next()
	P(entity).SetID(id)
	s.records[id] = model.Copy(*entity)
	s.order = append(s.order, id)
	return nil
}

func (s *MemoryStore[T, P]) Read(ctx context.Context, id int) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return model.Copy(v), true, nil
}

// Update replaces the record with the same id.  A missing id is reported
// as ErrNotFound.
func (s *MemoryStore[T, P]) Update(ctx context.Context, entity T) error {
	id := P(&entity).GetID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("update id %d: %w", id, ErrNotFound)
	}
	s.records[id] = model.Copy(entity)
	return nil
}

func (s *MemoryStore[T, P]) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore[T, P]) GetAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, model.Copy(s.records[id]))
	}
	return out, nil
}
