package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/user/property-scraper/internal/delivery/http/request"
	"github.com/user/property-scraper/internal/delivery/http/response"
	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/repository"
	"github.com/user/property-scraper/internal/usecase"
)

type Handler struct {
	orchestrator         *usecase.ScrapeOrchestrator
	maxPropertiesDefault int
	maxPagesDefault      int
}

func NewHandler(orchestrator *usecase.ScrapeOrchestrator, maxPropertiesDefault, maxPagesDefault int) *Handler {
	return &Handler{
		orchestrator:         orchestrator,
		maxPropertiesDefault: maxPropertiesDefault,
		maxPagesDefault:      maxPagesDefault,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleCompetitors(w http.ResponseWriter, r *http.Request) {
	categories := make([]string, 0, 2)
	for _, c := range h.orchestrator.Categories() {
		categories = append(categories, string(c))
	}
	h.writeJSON(w, http.StatusOK, response.CompetitorsResponse{
		Competitor: h.orchestrator.CompetitorName(),
		Categories: categories,
	})
}

// HandleCollectURLs runs the URL-collection stage only and returns the
// discovered detail-page URLs per category.
func (h *Handler) HandleCollectURLs(w http.ResponseWriter, r *http.Request) {
	var req request.CollectURLsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	categories, err := h.resolveCategories(req.Categories)
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = h.maxPagesDefault
	}
	urls, err := h.orchestrator.CollectURLs(r.Context(), categories, maxPages)
	if err != nil {
		slog.Error("URL collection failed", "error", err)
		h.writeJSONError(w, "URL collection failed", http.StatusInternalServerError)
		return
	}

	resp := response.URLsResponse{Status: "success", URLs: map[string][]string{}}
	for category, list := range urls {
		resp.URLs[string(category)] = list
		resp.Total += len(list)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleScrape runs collection plus detail extraction; persistence only when
// the request asks for it.
func (h *Handler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.decodeRunOptions(w, r)
	if !ok {
		return
	}
	h.runAndRespond(w, r, opts)
}

// HandleFullWorkflow is HandleScrape with persistence forced on.
func (h *Handler) HandleFullWorkflow(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.decodeRunOptions(w, r)
	if !ok {
		return
	}
	opts.Persist = true
	h.runAndRespond(w, r, opts)
}

func (h *Handler) runAndRespond(w http.ResponseWriter, r *http.Request, opts usecase.RunOptions) {
	run, err := h.orchestrator.Run(r.Context(), opts)
	if err != nil {
		if errors.Is(err, repository.ErrSessionStart) {
			slog.Error("browser session unavailable", "error", err)
			resp := response.FromRun(run, "error")
			resp.Error = "could not start browser session"
			h.writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		// Scraping finished but persistence was rejected; return the partial
		// run so callers keep the extracted records.
		slog.Error("run finished with persistence failure", "error", err)
		resp := response.FromRun(run, "error")
		resp.Error = err.Error()
		h.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	h.writeJSON(w, http.StatusOK, response.FromRun(run, "success"))
}

func (h *Handler) decodeRunOptions(w http.ResponseWriter, r *http.Request) (usecase.RunOptions, bool) {
	var req request.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return usecase.RunOptions{}, false
	}

	categories, err := h.resolveCategories(req.Categories)
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return usecase.RunOptions{}, false
	}

	maxProperties := req.MaxProperties
	if maxProperties <= 0 {
		maxProperties = h.maxPropertiesDefault
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = h.maxPagesDefault
	}

	return usecase.RunOptions{
		Categories:    categories,
		MaxProperties: maxProperties,
		MaxPages:      maxPages,
		Persist:       req.Persist,
		Force:         req.Force,
		Unlimited:     req.Unlimited,
		SheetName:     req.SheetName,
	}, true
}

// resolveCategories validates requested category names; an empty request
// means every registered category.
func (h *Handler) resolveCategories(names []string) ([]entity.Category, error) {
	registered := h.orchestrator.Categories()
	if len(names) == 0 {
		return registered, nil
	}

	valid := make([]string, 0, len(registered))
	for _, c := range registered {
		valid = append(valid, string(c))
	}

	categories := make([]entity.Category, 0, len(names))
	for _, name := range names {
		category, ok := entity.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q, valid categories: %s", name, strings.Join(valid, ", "))
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
