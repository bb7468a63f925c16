// Package upstream reaches the third-party image generation provider.
package upstream

import (
	"context"
	"fmt"
	"io"
)

// Image is a successful upstream response. Body must be closed by the caller.
type Image struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when unknown
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}

type Request struct {
	Prompt string
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}
