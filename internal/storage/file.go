package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/model"
)

// fileDocument is the on-disk layout of one entity file.  Records keep
// insertion order.
type fileDocument[T any] struct {
	NextID  int `json:"next_id"`
	Records []T `json:"records"`
}

// FileStore persists one entity type as a JSON document at
// <dir>/<name>.json.  Every mutation reads the whole document, applies
// the change and rewrites it through a temporary file and a rename; every
// read deserializes the whole document.  The mutex only serializes
// access from this process.
type FileStore[T any, P model.Identifiable[T]] struct {
	mu   sync.Mutex
	path string
	seq  *Sequence
	log  logrus.FieldLogger
}

// NewFileStore opens (or prepares) the document for name under dir.  The
// id sequence resumes from the next_id recorded in an existing document.
func NewFileStore[T any, P model.Identifiable[T]](dir, name string, log logrus.FieldLogger) (*FileStore[T, P], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w: %w", dir, ErrIO, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &FileStore[T, P]{
		path: filepath.Join(dir, name+".json"),
		log:  log.WithField("store", name),
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	s.seq = NewSequence(doc.NextID)
	for _, r := range doc.Records {
		s.seq.Observe(P(&r).GetID())
	}
	return s, nil
}

// Path returns the location of the backing document.
func (s *FileStore[T, P]) Path() string { return s.path }

// Create assigns the next id when entity carries id 0.  An entity that
// already carries an id present in the document is silently ignored.
func (s *FileStore[T, P]) Create(ctx context.Context, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	p := P(entity)
	if id := p.GetID(); id != 0 {
		if indexOf[T, P](doc.Records, id) >= 0 {
			s.log.WithField("id", id).Debug("create skipped: id already stored")
			return nil
		}
		s.seq.Observe(id)
	} else {
		p.SetID(s.seq.Next())
	}

	doc.Records = append(doc.Records, model.Copy(*entity))
	return s.save(doc)
}

func (s *FileStore[T, P]) Read(ctx context.Context, id int) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	doc, err := s.load()
	if err != nil {
		return zero, false, err
	}
	if i := indexOf[T, P](doc.Records, id); i >= 0 {
		return doc.Records[i], true, nil
	}
	return zero, false, nil
}

// Update replaces the record with the same id.  A missing id leaves the
// document untouched.
func (s *FileStore[T, P]) Update(ctx context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	id := P(&entity).GetID()
	i := indexOf[T, P](doc.Records, id)
	if i < 0 {
		s.log.WithField("id", id).Debug("update skipped: id not stored")
		return nil
	}
	doc.Records[i] = model.Copy(entity)
	return s.save(doc)
}

func (s *FileStore[T, P]) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf[T, P](doc.Records, id)
	if i < 0 {
		return nil
	}
	doc.Records = append(doc.Records[:i], doc.Records[i+1:]...)
	return s.save(doc)
}

func (s *FileStore[T, P]) GetAll(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// load reads the whole document.  A missing file is an empty document.
func (s *FileStore[T, P]) load() (fileDocument[T], error) {
	doc := fileDocument[T]{NextID: 1, Records: []T{}}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w: %w", s.path, ErrIO, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w: %w", s.path, ErrIO, err)
	}
	if doc.Records == nil {
		doc.Records = []T{}
	}
	return doc, nil
}

// save rewrites the document atomically: tmp then rename.
func (s *FileStore[T, P]) save(doc fileDocument[T]) error {
	doc.NextID = s.seq.Peek()
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", s.path, ErrIO, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w: %w", tmp, ErrIO, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w: %w", s.path, ErrIO, err)
	}
	return nil
}

func indexOf[T any, P model.Identifiable[T]](records []T, id int) int {
	for i := range records {
		if P(&records[i]).GetID() == id {
			return i
		}
	}
	return -1
}
