package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/kartiklala/prodevans-support/pkg/auth"
	"github.com/kartiklala/prodevans-support/pkg/logger"
)

type loginResponse struct {
	Status  string `json:"status"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// login is the silent-login check. With a known, still-valid (or
// refreshable) identity it answers 200 without touching the browser;
// otherwise it redirects to the provider consent screen.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	decision, err := h.svc.Decide(r.Context(), email)
	if err != nil {
		h.logger.Error("silent login check failed", logger.Email(email), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "login check failed")
		return
	}

	if decision.Authenticated {
		writeJSON(w, http.StatusOK, loginResponse{
			Status:  "ok",
			Email:   email,
			Message: "Already logged in",
		})
		return
	}

	http.Redirect(w, r, decision.ConsentURL, http.StatusTemporaryRedirect)
}

// callback finishes the consent flow: code exchange, profile enrichment,
// persistence, then a redirect back to the front-end with the identity
// appended so it can drive subsequent silent logins.
func (h *handlers) callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	email, err := h.svc.CompleteAuth(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback failed", logger.Error(err))
		if errors.Is(err, auth.ErrProvider) {
			writeError(w, http.StatusBadGateway, "identity provider rejected the request")
			return
		}
		writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	target := h.cfg.FrontendURL + "?email=" + url.QueryEscape(email)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
