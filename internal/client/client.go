// Package client talks to the PixScribe proxy and turns its responses into
// transient image handles or classified errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDownloadName is used by DownloadImage when no filename is given.
const DefaultDownloadName = "pixscribe-creation.png"

type Client struct {
	httpClient  *http.Client
	proxyURL    string
	token       string
	downloadDir string
	handles     *handleRegistry
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client used to reach the proxy. A nil
// client is ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds each proxy round trip. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			clone := *c.httpClient
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

func New(config *Config, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		proxyURL:    config.ProxyURL,
		token:       config.Token,
		downloadDir: config.DownloadDir,
		handles:     newHandleRegistry(),
	}
	if c.proxyURL == "" {
		c.proxyURL = DefaultProxyURL
	}
	for _, opt := range opts {
		opt(c)
	}
	WithTimeout(config.Timeout)(c)
	return c
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// GenerateImage asks the proxy for one image and returns a transient handle
// to its bytes. Empty prompts and a missing credential are rejected before
// any request is made.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Handle, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, NewValidationError("Prompt cannot be empty")
	}
	if !IsTokenConfigured(c.token) {
		return nil, configurationError()
	}

	log := slog.With("prompt", prompt, "proxy", c.proxyURL)
	log.Info("starting image generation")

	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "Network error: invalid proxy address.", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("proxy request failed", "error", err)
		return nil, &Error{
			Kind:    KindTransport,
			Message: "Network error: Unable to connect to proxy server. Make sure the proxy server is running.",
			Err:     err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readErrorDetail(resp)
		log.Error("proxy returned an error", "status", resp.StatusCode, "detail", detail)
		return nil, classifyStatus(resp.StatusCode, detail)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: "Network error: the image download was interrupted.",
			Err:     err,
		}
	}

	handle := c.handles.create(data, prompt)
	log.Info("image generated", "handle", handle.URL, "bytes", len(data))
	return handle, nil
}

// readErrorDetail extracts the error text of a failed proxy response.
func readErrorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "Unknown error"
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body errorResponse
		if err := json.Unmarshal(raw, &body); err != nil {
			return "Unknown error"
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// DownloadImage writes the bytes behind handle to filename and returns the
// path written. Relative names are placed in the configured download
// directory. The handle stays valid.
func (c *Client) DownloadImage(handle *Handle, filename string) (string, error) {
	data, err := c.handles.bytes(handle)
	if err != nil {
		return "", &Error{Kind: KindConversion, Message: "Failed to download image", Err: err}
	}
	if filename == "" {
		filename = DefaultDownloadName
	}
	path := filename
	if !filepath.IsAbs(path) && c.downloadDir != "" {
		path = filepath.Join(c.downloadDir, filename)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create download directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	return path, nil
}

// ToDurableEncoding converts the bytes behind a live handle into a data URI
// suitable for storage.
func (c *Client) ToDurableEncoding(handle *Handle) (string, error) {
	data, err := c.handles.bytes(handle)
	if err != nil {
		return "", &Error{Kind: KindConversion, Message: "Failed to convert image", Err: err}
	}
	return EncodeDataURI(data), nil
}

// Bytes returns a copy of the image bytes behind handle.
func (c *Client) Bytes(handle *Handle) ([]byte, error) {
	data, err := c.handles.bytes(handle)
	if err != nil {
		return nil, &Error{Kind: KindConversion, Message: "Image is no longer available", Err: err}
	}
	return data, nil
}

// Release frees the bytes behind handle. It reports whether the handle was
// still live.
func (c *Client) Release(handle *Handle) bool {
	return c.handles.release(handle)
}

// LiveHandles reports how many handles have not been released.
func (c *Client) LiveHandles() int {
	return c.handles.len()
}
