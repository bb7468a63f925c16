package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://image.pollinations.ai"
	DefaultWidth   = 1024
	DefaultHeight  = 1024

	maxErrorBody = 4 * 1024
)

type PollinationsGenerator struct {
	client  *http.Client
	baseURL string
	width   int
	height  int
	noLogo  bool
	token   string
}

func NewPollinationsGenerator(client *http.Client, baseURL string, width, height int, noLogo bool) *PollinationsGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &PollinationsGenerator{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		width:   width,
		height:  height,
		noLogo:  noLogo,
	}
}

// WithToken sets the provider API key sent as a bearer token. Credentials of
// the proxy's own callers are never forwarded.
func (g *PollinationsGenerator) WithToken(token string) *PollinationsGenerator {
	g.token = token
	return g
}

// RequestURL builds the upstream URL for prompt. The prompt is escaped as a
// single path segment.
func (g *PollinationsGenerator) RequestURL(prompt string) string {
	params := url.Values{}
	params.Set("width", strconv.Itoa(g.width))
	params.Set("height", strconv.Itoa(g.height))
	if g.noLogo {
		params.Set("nologo", "true")
	}
	return fmt.Sprintf("%s/prompt/%s?%s", g.baseURL, url.PathEscape(prompt), params.Encode())
}

func (g *PollinationsGenerator) Generate(ctx context.Context, req Request) (*Image, error) {
	endpoint := g.RequestURL(req.Prompt)
	slog.Debug("requesting image from upstream", "url", endpoint)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if g.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach image provider: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() {
			_ = resp.Body.Close()
		}()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &Image{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}
