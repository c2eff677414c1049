package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/property-scraper/internal/delivery/http/handler"
	"github.com/user/property-scraper/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("GET /api/competitors", h.HandleCompetitors)
	mux.HandleFunc("POST /api/urls", h.HandleCollectURLs)
	mux.HandleFunc("POST /api/scrape", h.HandleScrape)
	mux.HandleFunc("POST /api/full-workflow", h.HandleFullWorkflow)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
