// Package gallery persists saved creations for one profile as a single
// versioned record in a database.DatabaseService.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jo-hoe/pixscribe/internal/backend/database"
	"github.com/samber/lo"
)

// DefaultKey is the record name the creations list is stored under.
const DefaultKey = "pixscribe_creations"

var (
	ErrSaveFailed   = errors.New("failed to save creation")
	ErrDeleteFailed = errors.New("failed to delete creation")
	ErrClearFailed  = errors.New("failed to clear creations")
)

type Store struct {
	mu       sync.Mutex
	database database.DatabaseService
	key      string
	now      func() time.Time
}

func NewStore(db database.DatabaseService, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		database: db,
		key:      key,
		now:      time.Now,
	}
}

// List returns all creations, newest first. Unreadable or corrupt data is
// logged and reported as an empty gallery.
func (s *Store) List(ctx context.Context) []Creation {
	s.mu.Lock()
	defer s.mu.Unlock()

	creations, err := s.read(ctx)
	if err != nil {
		slog.Error("failed to read creations", "key", s.key, "error", err)
		return []Creation{}
	}
	return creations
}

// Get returns the creation with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Creation, bool) {
	creation, ok := lo.Find(s.List(ctx), func(c Creation) bool { return c.ID == id })
	if !ok {
		return nil, false
	}
	return &creation, true
}

// Save prepends a new creation and writes the whole list back. On failure
// the previously stored list is left as it was.
func (s *Store) Save(ctx context.Context, prompt, imageData string) (*Creation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creations, err := s.readForWrite(ctx)
	if err != nil {
		slog.Error("failed to read creations before write", "key", s.key, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	id, err := generateID(creations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	creation := Creation{
		ID:        id,
		Timestamp: s.now().UTC(),
		Prompt:    prompt,
		ImageURL:  imageData,
	}

	updated := append([]Creation{creation}, creations...)
	if err := s.write(ctx, updated); err != nil {
		slog.Error("failed to save creation", "key", s.key, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	slog.Info("creation saved", "id", creation.ID, "count", len(updated))
	return &creation, nil
}

// Delete removes the creation with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creations, err := s.readForWrite(ctx)
	if err != nil {
		slog.Error("failed to read creations before write", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	remaining := lo.Filter(creations, func(c Creation, _ int) bool { return c.ID != id })
	if err := s.write(ctx, remaining); err != nil {
		slog.Error("failed to delete creation", "key", s.key, "id", id, "error", err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

// ClearAll removes the whole creations record.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.database.Delete(ctx, s.key); err != nil {
		slog.Error("failed to clear creations", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context) ([]Creation, error) {
	data, err := s.database.Get(ctx, s.key)
	if errors.Is(err, database.ErrNotFound) {
		return []Creation{}, nil
	}
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.Creations == nil {
		return []Creation{}, nil
	}
	return doc.Creations, nil
}

// readForWrite is read for callers about to replace the record. Corrupt data
// is dropped, matching List. A record written by a newer version or one that
// could not be fetched is returned as an error so it is never overwritten.
func (s *Store) readForWrite(ctx context.Context) ([]Creation, error) {
	creations, err := s.read(ctx)
	if errors.Is(err, errCorruptRecord) {
		slog.Warn("discarding unreadable creations", "key", s.key, "error", err)
		return []Creation{}, nil
	}
	return creations, err
}

func (s *Store) write(ctx context.Context, creations []Creation) error {
	data, err := encodeDocument(creations)
	if err != nil {
		return err
	}
	return s.database.Put(ctx, s.key, data)
}
