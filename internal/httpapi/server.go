// Package httpapi is the router for HTTP transport mode: the MCP endpoint
// plus health and metrics.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roandegraaf/ha-mcp/internal/observe"
)

func New(mcpHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", observe.Handler())
	r.Mount("/mcp", mcpHandler)
	return r
}
