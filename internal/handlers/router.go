package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/sharmalakshay/listky/internal/middleware"
)

// RouterConfig carries the handler wiring for NewRouter.
type RouterConfig struct {
	Auth  *AuthHandler
	Lists *ListHandler

	// Auth endpoint throttling, requests per second per IP
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter assembles the HTTP surface. Usernames are top-level path
// segments (listky.top/{username}/{slug}), so the fixed routes are
// registered first and the profile/list routes catch the rest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "running"})
	})

	r.Get("/trending", cfg.Lists.Trending)

	// Signup and login get per-IP throttling on top of the per-account
	// lockout.
	authLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/signup", cfg.Auth.Signup)
		r.Post("/login", cfg.Auth.Login)
	})
	r.Post("/logout", cfg.Auth.Logout)

	r.Route("/{username}", func(r chi.Router) {
		r.Get("/", cfg.Lists.Profile)
		r.Get("/manage", cfg.Lists.Manage)
		r.Post("/lists", cfg.Lists.Create)
		r.Get("/{slug}", cfg.Lists.View)
		r.Put("/{slug}", cfg.Lists.Update)
		r.Delete("/{slug}", cfg.Lists.Delete)
	})

	return r
}
