// Package router sets up all HTTP routes and middleware chains for the
// VaaS server. It organizes the JSON API under /api with a rate-limited
// middleware stack and serves the embedded front end at the root.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vaas/internal/handlers"
	"vaas/internal/middleware"
	"vaas/web"
)

// apiRateLimit caps each client IP to this many API requests per minute.
// Every API call fans out to a paid model, so the window is deliberately
// tight.
const apiRateLimit = 30

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, allowedOrigin string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no rate limit.
	r.Get("/health", healthHandler)

	// JSON API — rate-limited and CORS-enabled.
	r.Route("/api", func(r chi.Router) {
		limiter := middleware.NewRateLimiter(apiRateLimit, time.Minute)
		r.Use(limiter.Middleware)
		r.Use(middleware.CORS(allowedOrigin))

		r.Post("/mood", api.Mood)
		r.Post("/transform", api.Transform)
		r.Post("/transform-url", api.TransformURL)
		r.Get("/aesthetics", api.ListAesthetics)
		r.Get("/aesthetic/{name}", api.GetAesthetic)
	})

	// Embedded front end at the root.
	r.Handle("/*", http.FileServer(http.FS(staticRoot())))

	return r
}

// staticRoot strips the static/ prefix from the embedded tree so that
// index.html is served at /.
func staticRoot() fs.FS {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		// The subtree is embedded at build time; a failure here means a
		// broken binary.
		panic(err)
	}
	return sub
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
