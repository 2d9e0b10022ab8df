package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// LoginRatePerMinute caps register and login attempts per client IP.
	// Zero disables the limit.
	LoginRatePerMinute int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins:     []string{"*"},
		LoginRatePerMinute: 10,
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// Reads are public; anything that changes a posting needs a session.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()
	limitLogin := RateLimitMiddleware(cfg.LoginRatePerMinute)

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /index", h.Index)

	mux.HandleFunc("GET /candidates", h.ListCandidates)
	mux.HandleFunc("POST /candidates", RequireSession(h.CreateCandidate))
	mux.HandleFunc("GET /candidates/{id}", h.GetCandidate)
	mux.HandleFunc("PUT /candidates/{id}", RequireSession(h.UpdateCandidate))
	mux.HandleFunc("DELETE /candidates/{id}", RequireSession(h.DeleteCandidate))

	mux.HandleFunc("GET /vacancies", h.ListVacancies)
	mux.HandleFunc("POST /vacancies", RequireSession(h.CreateVacancy))
	mux.HandleFunc("GET /vacancies/{id}", h.GetVacancy)
	mux.HandleFunc("PUT /vacancies/{id}", RequireSession(h.UpdateVacancy))
	mux.HandleFunc("DELETE /vacancies/{id}", RequireSession(h.DeleteVacancy))

	mux.HandleFunc("GET /cities", h.ListCities)
	mux.HandleFunc("GET /cities/{id}", h.GetCity)

	mux.HandleFunc("GET /files/{id}", h.GetFile)

	mux.HandleFunc("POST /users/register", limitLogin(h.Register))
	mux.HandleFunc("POST /users/login", limitLogin(h.Login))
	mux.HandleFunc("POST /users/logout", h.Logout)
	mux.HandleFunc("GET /users/me", RequireSession(h.Me))

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
		h.SessionMiddleware,
	)

	return chain(mux)
}
