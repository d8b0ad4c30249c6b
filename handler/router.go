package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kartiklala/prodevans-support/pkg/auth"
)

// Config is the environment surface for the HTTP layer. FrontendURL is
// where the callback sends the browser after a completed login;
// DefaultEmail is the identity recorded when the provider returns none.
type Config struct {
	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:8501"`
	DefaultEmail string `env:"DEFAULT_EMAIL" envDefault:"jack@gmail.com"`
}

// AuthService is the slice of the auth core the HTTP layer needs.
type AuthService interface {
	Decide(ctx context.Context, email string) (auth.Decision, error)
	CompleteAuth(ctx context.Context, code string) (string, error)
}

type handlers struct {
	svc    AuthService
	cfg    Config
	health func(context.Context) error
	logger *slog.Logger
}

// New builds the service router: the login and callback endpoints, the
// liveness root, and the store health probe.
func New(svc AuthService, cfg Config, health func(context.Context) error, log *slog.Logger) http.Handler {
	h := &handlers{svc: svc, cfg: cfg, health: health, logger: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(allowAllCORS)
	r.Use(requestLogger(log))

	r.Get("/", h.root)
	r.Get("/healthz", h.healthz)
	r.Get("/auth/zoho/login", h.login)
	r.Get("/auth/zoho/callback", h.callback)

	return r
}

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Backend Running"})
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
