package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestURL(t *testing.T) {
	g := NewPollinationsGenerator(nil, "https://example.test/", 1024, 768, true)

	tests := []struct {
		prompt string
		want   string
	}{
		{"a red cube", "https://example.test/prompt/a%20red%20cube?height=768&nologo=true&width=1024"},
		{"cats/dogs?", "https://example.test/prompt/cats%2Fdogs%3F?height=768&nologo=true&width=1024"},
		{"50% #1", "https://example.test/prompt/50%25%20%231?height=768&nologo=true&width=1024"},
	}
	for _, tt := range tests {
		if got := g.RequestURL(tt.prompt); got != tt.want {
			t.Errorf("RequestURL(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}

	withLogo := NewPollinationsGenerator(nil, "", 512, 512, false)
	if got, want := withLogo.RequestURL("x"), DefaultBaseURL+"/prompt/x?height=512&width=512"; got != want {
		t.Errorf("RequestURL = %q, want %q", got, want)
	}
}

func TestGenerate_Success(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	g := NewPollinationsGenerator(server.Client(), server.URL, 1024, 1024, true)
	img, err := g.Generate(context.Background(), Request{Prompt: "a red cube"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	defer func() { _ = img.Body.Close() }()

	body, err := io.ReadAll(img.Body)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if string(body) != "image-bytes" {
		t.Errorf("unexpected body %q", body)
	}
	if img.ContentType != "image/jpeg" {
		t.Errorf("unexpected content type %q", img.ContentType)
	}
	if gotPath != "/prompt/a%20red%20cube" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotQuery != "height=1024&nologo=true&width=1024" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if gotAuth != "" {
		t.Errorf("expected no authorization without a token, got %q", gotAuth)
	}
}

func TestGenerate_SendsProviderToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	g := NewPollinationsGenerator(server.Client(), server.URL, 1024, 1024, true).WithToken("sk_provider")
	img, err := g.Generate(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	_ = img.Body.Close()

	if gotAuth != "Bearer sk_provider" {
		t.Errorf("expected provider token, got %q", gotAuth)
	}
}

func TestGenerate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewPollinationsGenerator(server.Client(), server.URL, 1024, 1024, true)
	_, err := g.Generate(context.Background(), Request{Prompt: "x"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "slow down\n" {
		t.Errorf("unexpected body %q", statusErr.Body)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	g := NewPollinationsGenerator(nil, url, 1024, 1024, true)
	_, err := g.Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("transport failure must not be a StatusError")
	}
}
