package api

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type ctxKey struct{}

const requestIDHeader = "X-Request-ID"

// RequestID returns the request ID stored by the router middleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// NewRouter wires the routes and middleware. Access logs go to accessLog.
func NewRouter(h *Handler, accessLog io.Writer) http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)

	router.HandleFunc("/scrape", h.ScrapeHandler).Methods(http.MethodPost)
	router.HandleFunc("/scrape", h.ScrapeQueryHandler).Methods(http.MethodGet)
	router.HandleFunc("/healthz", HealthHandler).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
	)(handler)
	handler = handlers.RecoveryHandler()(handler)
	handler = handlers.CombinedLoggingHandler(accessLog, handler)
	return handler
}
