// Package api exposes the scraper over HTTP
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"siteintel/cache"
	"siteintel/scraper"

	"github.com/charmbracelet/log"
	"gopkg.in/go-playground/validator.v9"
)

// WebsiteScraper is the pipeline the handlers call
type WebsiteScraper interface {
	ScrapeWebsite(ctx context.Context, rawURL string) scraper.ScrapedData
}

// ScrapeRequest is the body of POST /scrape
type ScrapeRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// ErrorResponse describes a rejected request
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field string `json:"field"`
	Hint  string `json:"hint"`
}

// Handler serves scrape requests
type Handler struct {
	scraper  WebsiteScraper
	cache    *cache.Cache
	cacheTTL time.Duration
	validate *validator.Validate
	logger   *log.Logger
}

// NewHandler creates a Handler. A nil cache disables result caching.
func NewHandler(s WebsiteScraper, c *cache.Cache, cacheTTL time.Duration, logger *log.Logger) *Handler {
	return &Handler{
		scraper:  s,
		cache:    c,
		cacheTTL: cacheTTL,
		validate: validator.New(),
		logger:   logger,
	}
}

// ScrapeHandler handles POST /scrape with a JSON body
func (h *Handler) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}
	h.scrape(w, r, req)
}

// ScrapeQueryHandler handles GET /scrape?url=...
func (h *Handler) ScrapeQueryHandler(w http.ResponseWriter, r *http.Request) {
	h.scrape(w, r, ScrapeRequest{URL: r.URL.Query().Get("url")})
}

func (h *Handler) scrape(w http.ResponseWriter, r *http.Request, req ScrapeRequest) {
	if errs := h.validateRequest(req); errs != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Fields: errs})
		return
	}

	ctx := r.Context()
	data, err := cache.MemoizeIf(ctx, h.cache, "scrape:"+req.URL, h.cacheTTL,
		func() (scraper.ScrapedData, error) {
			return h.scraper.ScrapeWebsite(ctx, req.URL), nil
		},
		func(d scraper.ScrapedData) bool { return !d.Degraded() },
	)
	if err != nil {
		h.logger.Error("scrape request failed", "url", req.URL, "request_id", RequestID(ctx), "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Error scraping URL"})
		return
	}

	h.logger.Info("scraped", "url", req.URL, "request_id", RequestID(ctx),
		"emails", len(data.Emails), "social_profiles", len(data.SocialProfiles), "degraded", data.Degraded())
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) validateRequest(req ScrapeRequest) []FieldError {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "url", Hint: err.Error()}}
	}
	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		hint := "invalid value"
		switch fe.Tag() {
		case "required":
			hint = "this field is required"
		case "url":
			hint = "must be an absolute URL"
		}
		fields = append(fields, FieldError{Field: "url", Hint: hint})
	}
	return fields
}

// HealthHandler reports liveness
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
