package client

import (
	"bytes"
	"errors"
	"sync"

	"github.com/google/uuid"
)

const handleScheme = "blob:pixscribe/"

var errHandleReleased = errors.New("image handle is no longer valid")

// Handle is a transient reference to generated image bytes. It is only
// valid inside the process that created it and until it is released; it
// must never be persisted. Use ToDurableEncoding for storage.
type Handle struct {
	URL    string
	Prompt string
	Size   int
}

// handleRegistry owns the bytes behind every live Handle.
type handleRegistry struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func newHandleRegistry() *handleRegistry {
	return &handleRegistry{blobs: make(map[string][]byte)}
}

func (r *handleRegistry) create(data []byte, prompt string) *Handle {
	url := handleScheme + uuid.NewString()
	r.mu.Lock()
	r.blobs[url] = data
	r.mu.Unlock()
	return &Handle{URL: url, Prompt: prompt, Size: len(data)}
}

func (r *handleRegistry) bytes(h *Handle) ([]byte, error) {
	if h == nil {
		return nil, errHandleReleased
	}
	r.mu.RLock()
	data, ok := r.blobs[h.URL]
	r.mu.RUnlock()
	if !ok {
		return nil, errHandleReleased
	}
	return bytes.Clone(data), nil
}

func (r *handleRegistry) release(h *Handle) bool {
	if h == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[h.URL]; !ok {
		return false
	}
	delete(r.blobs, h.URL)
	return true
}

func (r *handleRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}
