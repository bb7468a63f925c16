package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jo-hoe/pixscribe/internal/gallery"
)

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func listCreations(t *testing.T, env *testEnv) []gallery.Creation {
	t.Helper()
	resp := doRequest(t, http.MethodGet, env.proxy.URL+CreationsPath, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var creations []gallery.Creation
	if err := json.NewDecoder(resp.Body).Decode(&creations); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return creations
}

func TestCreationRoutes(t *testing.T) {
	env := newTestEnv(t, http.NotFound)

	if got := listCreations(t, env); len(got) != 0 {
		t.Fatalf("expected empty gallery, got %d", len(got))
	}

	var saved []gallery.Creation
	for _, prompt := range []string{"first", "second"} {
		resp := doRequest(t, http.MethodPost, env.proxy.URL+CreationsPath,
			`{"prompt":"`+prompt+`","imageUrl":"data:image/jpeg;base64,/9j/"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		var creation gallery.Creation
		if err := json.NewDecoder(resp.Body).Decode(&creation); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		saved = append(saved, creation)
	}

	list := listCreations(t, env)
	if len(list) != 2 || list[0].ID != saved[1].ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	image := doRequest(t, http.MethodGet, env.proxy.URL+CreationsPath+"/"+saved[0].ID+"/image", "")
	if image.StatusCode != http.StatusOK || image.Header.Get("Content-Type") != "image/jpeg" {
		t.Errorf("unexpected image response %d %q", image.StatusCode, image.Header.Get("Content-Type"))
	}

	missing := doRequest(t, http.MethodGet, env.proxy.URL+CreationsPath+"/nope/image", "")
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing creation, got %d", missing.StatusCode)
	}

	del := doRequest(t, http.MethodDelete, env.proxy.URL+CreationsPath+"/"+saved[0].ID, "")
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.StatusCode)
	}
	if got := listCreations(t, env); len(got) != 1 || got[0].ID != saved[1].ID {
		t.Fatalf("expected only %s to remain, got %+v", saved[1].ID, got)
	}

	delMissing := doRequest(t, http.MethodDelete, env.proxy.URL+CreationsPath+"/nope", "")
	if delMissing.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 for unknown id, got %d", delMissing.StatusCode)
	}

	cleared := doRequest(t, http.MethodDelete, env.proxy.URL+CreationsPath, "")
	if cleared.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", cleared.StatusCode)
	}
	if got := listCreations(t, env); len(got) != 0 {
		t.Fatalf("expected empty gallery after clear, got %d", len(got))
	}
}

func TestSaveCreation_Validation(t *testing.T) {
	env := newTestEnv(t, http.NotFound)

	for _, body := range []string{
		`{"prompt":"","imageUrl":"data:image/jpeg;base64,AA=="}`,
		`{"prompt":"x"}`,
		`{"prompt":"x","imageUrl":"blob:pixscribe/123"}`,
	} {
		resp := doRequest(t, http.MethodPost, env.proxy.URL+CreationsPath, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
	if got := listCreations(t, env); len(got) != 0 {
		t.Errorf("expected nothing saved, got %d", len(got))
	}
}

func TestCreationsFeed(t *testing.T) {
	env := newTestEnv(t, http.NotFound)
	creation, err := env.gallery.Save(t.Context(), "a lighthouse at dusk", "data:image/jpeg;base64,AA==")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	resp := doRequest(t, http.MethodGet, env.proxy.URL+CreationsPath+"/feed", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/atom+xml") {
		t.Errorf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"a lighthouse at dusk", creation.ID + "/image"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("feed missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("unexpected %q", got)
	}
}

func TestBuildFeed_EnclosureDescribesStoredImage(t *testing.T) {
	creations := []gallery.Creation{
		{ID: "png", Prompt: "a png", ImageURL: "data:image/png;base64,iVBORw0KGgo="},
		{ID: "broken", Prompt: "broken", ImageURL: "not a data uri"},
	}
	feed := buildFeed("http://pixscribe.test", creations)

	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
	enclosure := feed.Items[0].Enclosure
	if enclosure == nil {
		t.Fatal("expected enclosure for decodable image")
	}
	if enclosure.Type != "image/png" || enclosure.Length != "8" {
		t.Errorf("unexpected enclosure %+v", enclosure)
	}
	if enclosure.Url != "http://pixscribe.test"+CreationsPath+"/png/image" {
		t.Errorf("unexpected enclosure url %q", enclosure.Url)
	}
	if feed.Items[1].Enclosure != nil {
		t.Errorf("expected no enclosure for undecodable image, got %+v", feed.Items[1].Enclosure)
	}
}
