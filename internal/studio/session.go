// Package studio holds the state of one creation view: the prompt policy,
// the image currently on display and the gallery it saves to.
package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jo-hoe/pixscribe/internal/client"
	"github.com/jo-hoe/pixscribe/internal/gallery"
)

const (
	MinPromptLength = 3
	MaxPromptLength = 500
)

var (
	// ErrGenerationInFlight is returned when Generate is called while an
	// earlier request of the same session has not finished.
	ErrGenerationInFlight = errors.New("a generation is already in progress")
	ErrNoImage            = errors.New("no image has been generated yet")
)

// ImageClient is the part of client.Client a Session needs.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (*client.Handle, error)
	DownloadImage(handle *client.Handle, filename string) (string, error)
	ToDurableEncoding(handle *client.Handle) (string, error)
	Release(handle *client.Handle) bool
}

type Session struct {
	client  ImageClient
	gallery *gallery.Store

	mu      sync.Mutex
	pending bool
	current *client.Handle
}

func NewSession(imageClient ImageClient, store *gallery.Store) *Session {
	return &Session{client: imageClient, gallery: store}
}

// ValidatePrompt applies the prompt length policy of the creation view.
func ValidatePrompt(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	switch length := utf8.RuneCountInString(trimmed); {
	case length == 0:
		return client.NewValidationError("Please enter a prompt")
	case length < MinPromptLength:
		return client.NewValidationError(fmt.Sprintf("Prompt must be at least %d characters long", MinPromptLength))
	case length > MaxPromptLength:
		return client.NewValidationError(fmt.Sprintf("Prompt must be at most %d characters long", MaxPromptLength))
	}
	return nil
}

// Generate requests a new image. Only one request may be outstanding per
// session; on success the previously displayed image is released.
func (s *Session) Generate(ctx context.Context, prompt string) (*client.Handle, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	s.pending = true
	s.mu.Unlock()

	handle, err := s.client.GenerateImage(ctx, strings.TrimSpace(prompt))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		return nil, err
	}
	if s.current != nil {
		s.client.Release(s.current)
	}
	s.current = handle
	return handle, nil
}

// Current returns the image on display, or nil.
func (s *Session) Current() *client.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Download saves the current image to filename.
func (s *Session) Download(filename string) (string, error) {
	handle := s.Current()
	if handle == nil {
		return "", ErrNoImage
	}
	return s.client.DownloadImage(handle, filename)
}

// SaveCurrent stores the current image in the gallery. A failed save leaves
// the current image untouched.
func (s *Session) SaveCurrent(ctx context.Context) (*gallery.Creation, error) {
	handle := s.Current()
	if handle == nil {
		return nil, ErrNoImage
	}
	encoded, err := s.client.ToDurableEncoding(handle)
	if err != nil {
		return nil, err
	}
	return s.gallery.Save(ctx, handle.Prompt, encoded)
}

func (s *Session) Creations(ctx context.Context) []gallery.Creation {
	return s.gallery.List(ctx)
}

func (s *Session) DeleteCreation(ctx context.Context, id string) error {
	return s.gallery.Delete(ctx, id)
}

func (s *Session) ClearCreations(ctx context.Context) error {
	return s.gallery.ClearAll(ctx)
}

// Close releases the image on display.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.client.Release(s.current)
		s.current = nil
	}
}
