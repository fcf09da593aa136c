package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/feedwire/newsdesk/internal/config"
	"github.com/feedwire/newsdesk/internal/curation"
	"github.com/feedwire/newsdesk/internal/logger"
	"github.com/feedwire/newsdesk/internal/middleware"
	"github.com/feedwire/newsdesk/internal/models"
	"github.com/feedwire/newsdesk/internal/sources"
	"github.com/gofiber/fiber/v2"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.Config{Level: "disabled", Output: "stderr"})
	os.Exit(m.Run())
}

type stubSummarizer struct {
	response string
}

func (s *stubSummarizer) Name() string { return "stub" }

func (s *stubSummarizer) Summarize(ctx context.Context, articles []models.Article) (string, error) {
	return s.response, nil
}

func testApp(t *testing.T, publishURL, stubResponse string) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		FetchTimeout: 2 * time.Second,
		MinPageSize:  5,
		MaxPageSize:  50,
		HTTPTimeout:  2 * time.Second,
		PublishURL:   publishURL,
	}

	manager := curation.NewManager(
		curation.NewRestPublisher(cfg.PublishURL, "", cfg.HTTPTimeout),
		&stubSummarizer{response: stubResponse},
	)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, cfg, sources.NewMemoryRepository(), manager)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestGetArticlesWithCustomAPI(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"title":"Alpha","url":"https://e.com/a","publishedAt":"2024-01-02T00:00:00Z"},
			{"title":"Beta","url":"https://e.com/b","publishedAt":"2024-01-01T00:00:00Z"}
		]}`)
	}))
	defer upstream.Close()

	app := testApp(t, "", "")
	resp, body := doJSON(t, app, "GET",
		"/api/v1/articles?includeDefault=false&customApi="+upstream.URL+"&sort=newest&seq=7", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body["total"].(float64) != 2 {
		t.Errorf("Expected total 2, got %v", body["total"])
	}
	if body["seq"].(float64) != 7 {
		t.Errorf("Expected seq echoed, got %v", body["seq"])
	}

	articles := body["articles"].([]any)
	first := articles[0].(map[string]any)
	if first["title"] != "Alpha" {
		t.Errorf("Expected newest-first order, got %v", first["title"])
	}

	facets := body["availableSources"].([]any)
	if len(facets) != 1 || facets[0] != "Custom API" {
		t.Errorf("Unexpected facets: %v", facets)
	}
}

func TestGetArticlesRejectsInvalidCustomAPI(t *testing.T) {
	app := testApp(t, "", "")
	resp, _ := doJSON(t, app, "GET", "/api/v1/articles?includeDefault=false&customApi=notaurl", "")

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for an invalid custom API URL, got %d", resp.StatusCode)
	}
}

func TestSourcesCRUD(t *testing.T) {
	app := testApp(t, "", "")

	resp, _ := doJSON(t, app, "POST", "/api/v1/sources", `{"url":"https://feed.example.com/api"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/v1/sources", `{"url":"not-a-url"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for invalid URL, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "PUT", "/api/v1/sources/active", `{"url":"https://feed.example.com/api"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body["active"] != "https://feed.example.com/api" {
		t.Errorf("Expected active source set, got %v", body["active"])
	}

	resp, body = doJSON(t, app, "GET", "/api/v1/sources", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Expected 200 listing sources")
	}
	if list := body["sources"].([]any); len(list) != 1 {
		t.Errorf("Expected 1 source, got %v", list)
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/v1/sources", `{"url":"https://feed.example.com/api"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/v1/sources", `{"url":"https://feed.example.com/api"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 removing twice, got %d", resp.StatusCode)
	}
}

func selectBody(i int) string {
	return fmt.Sprintf(`{"title":"Story %d","url":"https://e.com/%d","sourceName":"E"}`, i, i)
}

func TestCurationFlow(t *testing.T) {
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"resourceUrl":"https://social.example.com/status/1"}`)
	}))
	defer sink.Close()

	app := testApp(t, sink.URL, "1. One.\n2. Two.")

	for i := 1; i <= 2; i++ {
		resp, _ := doJSON(t, app, "POST", "/api/v1/curation/desk1/select", selectBody(i))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Select %d: expected 201, got %d", i, resp.StatusCode)
		}
	}

	// Duplicate URL is rejected without growing the selection.
	resp, _ := doJSON(t, app, "POST", "/api/v1/curation/desk1/select", selectBody(1))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for duplicate, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/curation/desk1/summarize", `{"backend":"stub"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 summarize, got %d", resp.StatusCode)
	}
	if summaries := body["summaries"].([]any); len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	resp, body = doJSON(t, app, "POST", "/api/v1/curation/desk1/summaries/0/approve", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 approve, got %d", resp.StatusCode)
	}
	if body["status"] != "approved" {
		t.Errorf("Expected approved, got %v", body["status"])
	}
	if body["postUrl"] != "https://social.example.com/status/1" {
		t.Errorf("Expected resource handle, got %v", body["postUrl"])
	}

	resp, _ = doJSON(t, app, "POST", "/api/v1/curation/desk1/summaries/1/reject", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 reject, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, app, "GET", "/api/v1/curation/desk1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatal("Expected 200 session state")
	}
	if summaries := body["summaries"].([]any); len(summaries) != 1 {
		t.Errorf("Expected the rejected summary discarded, got %d", len(summaries))
	}
}

func TestSelectionCapacityOverHTTP(t *testing.T) {
	app := testApp(t, "", "")

	for i := 1; i <= 5; i++ {
		resp, _ := doJSON(t, app, "POST", "/api/v1/curation/desk2/select", selectBody(i))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Select %d: got %d", i, resp.StatusCode)
		}
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/curation/desk2/select", selectBody(6))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for the 6th selection, got %d", resp.StatusCode)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "5") {
		t.Errorf("Expected a capacity message, got %q", msg)
	}

	// The set is unchanged.
	_, state := doJSON(t, app, "GET", "/api/v1/curation/desk2", "")
	if selection := state["selection"].([]any); len(selection) != 5 {
		t.Errorf("Expected 5 selected, got %d", len(selection))
	}
}

func TestSummarizeUnknownBackend(t *testing.T) {
	app := testApp(t, "", "")

	doJSON(t, app, "POST", "/api/v1/curation/desk3/select", selectBody(1))
	resp, _ := doJSON(t, app, "POST", "/api/v1/curation/desk3/summarize", `{"backend":"nope"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown backend, got %d", resp.StatusCode)
	}
}

func TestSummarizeUnusableBackendResponse(t *testing.T) {
	app := testApp(t, "", "cannot comply")

	doJSON(t, app, "POST", "/api/v1/curation/desk4/select", selectBody(1))
	resp, body := doJSON(t, app, "POST", "/api/v1/curation/desk4/summarize", `{"backend":"stub"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", resp.StatusCode)
	}
	if retry, _ := body["retry"].(bool); !retry {
		t.Errorf("Expected a retry prompt, got %v", body)
	}
}

func TestAdminKeyGuardsSourceRoutes(t *testing.T) {
	cfg := &config.Config{
		FetchTimeout: time.Second,
		MinPageSize:  5,
		MaxPageSize:  50,
		AdminAPIKey:  "secret",
	}
	manager := curation.NewManager(curation.NewRestPublisher("", "", time.Second))
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, cfg, sources.NewMemoryRepository(), manager)

	req := httptest.NewRequest("GET", "/api/v1/sources", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without API key, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/sources", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with API key, got %d", resp.StatusCode)
	}
}
