package api

import (
	"context"
	"log"
	"net/http"

	"github.com/momo-assistant/backend/internal/auth"
)

// AuthHandler exposes the Google OAuth flow: auth-URL generation and the
// redirect callback. Once the code exchange succeeds, onConnected wires up
// the authenticated Gmail and Calendar services.
type AuthHandler struct {
	manager     *auth.Manager
	onConnected func(ctx context.Context) error
}

// NewAuthHandler creates a new AuthHandler instance. manager may be nil when
// no credentials file is configured.
func NewAuthHandler(manager *auth.Manager, onConnected func(ctx context.Context) error) *AuthHandler {
	return &AuthHandler{manager: manager, onConnected: onConnected}
}

// GetAuthURL returns the consent-screen URL to start the OAuth flow.
func (h *AuthHandler) GetAuthURL(w http.ResponseWriter, _ *http.Request) {
	if h.manager == nil {
		http.Error(w, "Google credentials are not configured", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"auth_url": h.manager.AuthURL()})
}

// HandleCallback exchanges the authorization code and connects the Google
// services.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil {
		http.Error(w, "Google credentials are not configured", http.StatusServiceUnavailable)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := h.manager.Exchange(ctx, code); err != nil {
		log.Printf("AuthHandler: code exchange failed: %v", err)
		http.Error(w, "Authentication failed", http.StatusBadGateway)
		return
	}

	if h.onConnected != nil {
		if err := h.onConnected(ctx); err != nil {
			log.Printf("AuthHandler: failed to connect Google services: %v", err)
			http.Error(w, "Failed to connect Google services", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte("<html><body><h2>Connected.</h2><p>You can close this window and return to Momo.</p></body></html>"))
}
