package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	gmailapi "google.golang.org/api/gmail/v1"
)

// ErrNotAuthenticated is returned when no stored OAuth token exists yet.
var ErrNotAuthenticated = errors.New("not authenticated with Google")

// Manager handles the Google OAuth flow: auth-URL generation, authorization
// code exchange, and token persistence on disk.
type Manager struct {
	oauthConfig *oauth2.Config
	tokenFile   string
}

// NewManager reads the OAuth client secret file and prepares the flow for
// the Gmail read-only and Calendar scopes.
func NewManager(credentialsFile, tokenFile, redirectURL string) (*Manager, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope, calendarapi.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	if redirectURL != "" {
		oauthConfig.RedirectURL = redirectURL
	}
	return &Manager{oauthConfig: oauthConfig, tokenFile: tokenFile}, nil
}

// AuthURL returns the consent-screen URL to start the flow.
func (m *Manager) AuthURL() string {
	return m.oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	tok, err := m.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return m.saveToken(tok)
}

// HasToken reports whether a stored token exists.
func (m *Manager) HasToken() bool {
	_, err := m.tokenFromFile()
	return err == nil
}

// Client returns an authenticated HTTP client, refreshing the token as
// needed. ErrNotAuthenticated is returned when no token is stored.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	tok, err := m.tokenFromFile()
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return m.oauthConfig.Client(ctx, tok), nil
}

func (m *Manager) tokenFromFile() (*oauth2.Token, error) {
	f, err := os.Open(m.tokenFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (m *Manager) saveToken(token *oauth2.Token) error {
	f, err := os.OpenFile(m.tokenFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
