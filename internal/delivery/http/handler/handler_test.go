package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/extractor"
	"github.com/user/property-scraper/internal/repository"
	"github.com/user/property-scraper/internal/usecase"
	"github.com/user/property-scraper/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

type stubExtractor struct {
	links []string
}

func (s *stubExtractor) Category() entity.Category { return entity.CategoryForSale }
func (s *stubExtractor) ListingURL() string        { return "https://example.com/properties" }
func (s *stubExtractor) CardSelector() string      { return "div.card a" }
func (s *stubExtractor) ScrollFirst() bool         { return false }

func (s *stubExtractor) PaginationSelector(page int) string {
	return fmt.Sprintf("page-%d", page)
}

func (s *stubExtractor) ExtractLinks(string) ([]string, error) {
	return s.links, nil
}

func (s *stubExtractor) ExtractDetail(_, url string) (*entity.PropertyRecord, error) {
	return entity.NewPropertyRecord(url, entity.CategoryForSale, "Test Co"), nil
}

type stubSession struct{}

func (s *stubSession) Navigate(context.Context, string) error     { return nil }
func (s *stubSession) WaitVisible(context.Context, string) error  { return nil }
func (s *stubSession) PageSource(context.Context) (string, error) { return "page", nil }
func (s *stubSession) ScrollToBottom(context.Context) error       { return nil }
func (s *stubSession) Click(context.Context, string) error        { return errors.New("no more pages") }
func (s *stubSession) Close() error                               { return nil }

type stubFactory struct {
	err error
}

func (f *stubFactory) NewSession(context.Context) (repository.BrowserSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stubSession{}, nil
}

func newTestHandler(factoryErr error) *Handler {
	registry := extractor.NewRegistry(&stubExtractor{links: []string{
		"https://example.com/p/1",
		"https://example.com/p/2",
	}})
	orchestrator := usecase.NewScrapeOrchestrator(
		&stubFactory{err: factoryErr},
		registry,
		usecase.NewURLCollector(registry, 0),
		usecase.NewSheetWriter(nil),
		nil,
		nil,
		nil,
		usecase.OrchestratorConfig{MaxRetries: 1, CompetitorName: "Test Co", SheetName: "S"},
	)
	return NewHandler(orchestrator, 50, 0)
}

func TestHandleHealthCheck(t *testing.T) {
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	h.HandleHealthCheck(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body: got %v", body)
	}
}

func TestHandleCompetitors(t *testing.T) {
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	h.HandleCompetitors(rr, httptest.NewRequest(http.MethodGet, "/api/competitors", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var body struct {
		Competitor string   `json:"competitor"`
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Competitor != "Test Co" {
		t.Errorf("competitor: got %q", body.Competitor)
	}
	if len(body.Categories) != 1 || body.Categories[0] != "for-sale" {
		t.Errorf("categories: got %v", body.Categories)
	}
}

func TestHandleScrapeRejectsUnknownCategory(t *testing.T) {
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{"categories":["for-purchase"]}`))
	h.HandleScrape(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body["error"], "for-sale") {
		t.Errorf("error should list valid categories, got %q", body["error"])
	}
}

func TestHandleScrapeRejectsBadBody(t *testing.T) {
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{not json`))
	h.HandleScrape(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestHandleScrapeSessionUnavailable(t *testing.T) {
	h := newTestHandler(errors.New("chrome not found"))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{}`))
	h.HandleScrape(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", rr.Code)
	}
}

func TestHandleScrapeReportsRun(t *testing.T) {
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{"max_properties":2}`))
	h.HandleScrape(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Status      string `json:"status"`
		State       string `json:"state"`
		Performance struct {
			TotalAttempted int    `json:"total_attempted"`
			Succeeded      int    `json:"succeeded"`
			SuccessRate    string `json:"success_rate"`
		} `json:"performance"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" || body.State != "done" {
		t.Errorf("status/state: got %q/%q", body.Status, body.State)
	}
	if body.Performance.TotalAttempted != 2 || body.Performance.Succeeded != 2 {
		t.Errorf("performance: got %+v", body.Performance)
	}
	if body.Performance.SuccessRate != "100.0%" {
		t.Errorf("success rate: got %q", body.Performance.SuccessRate)
	}
}

func TestHandleCollectURLs(t *testing.T) {
	h := newTestHandler(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(`{"categories":["for-sale"]}`))
	h.HandleCollectURLs(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Status string              `json:"status"`
		URLs   map[string][]string `json:"urls"`
		Total  int                 `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("total: got %d, want 2", body.Total)
	}
	if len(body.URLs["for-sale"]) != 2 {
		t.Errorf("urls: got %v", body.URLs)
	}
}
