package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/momo-assistant/backend/internal/api"
	"github.com/momo-assistant/backend/internal/auth"
	"github.com/momo-assistant/backend/internal/calendar"
	"github.com/momo-assistant/backend/internal/config"
	"github.com/momo-assistant/backend/internal/gmail"
	"github.com/momo-assistant/backend/internal/inbox"
	"github.com/momo-assistant/backend/internal/store"
	"github.com/momo-assistant/backend/internal/summary"
	ws "github.com/momo-assistant/backend/internal/websocket"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	history, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	defer history.Close()

	hub := ws.NewHub(10)
	inboxService := inbox.NewService(history, hub)

	var generator summary.Generator
	if cfg.GeminiAPIKey != "" {
		generator = summary.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		log.Printf("Gemini client initialized for email summarization (model %s)", cfg.GeminiModel)
	} else {
		log.Println("GEMINI_API_KEY not set, using fallback summaries")
	}
	summarizer := summary.New(generator)
	summarizer.SetMinInterval(cfg.SummaryMinInterval)

	authManager, err := auth.NewManager(cfg.CredentialsFile, cfg.TokenFile, "http://localhost:"+cfg.Port+"/auth/callback")
	if err != nil {
		log.Printf("Warning: Google credentials unavailable, Gmail stays disconnected: %v", err)
		authManager = nil
	}

	calendarHandler := api.NewCalendarHandler(inboxService, history, cfg.Timezone)

	// connect builds the authenticated Google services and attaches them.
	// It runs at startup when a token is already stored, and again after
	// every successful OAuth callback.
	connect := func(ctx context.Context) error {
		httpClient, err := authManager.Client(ctx)
		if err != nil {
			return err
		}

		gmailClient, err := gmail.NewClient(ctx, httpClient)
		if err != nil {
			return err
		}
		fetcher := gmail.NewFetcher(gmailClient)
		fetcher.SetLimits(cfg.FetchMaxResults, cfg.FetchWindowDays, cfg.FetchFallbackMax, cfg.FetchProcessMax)
		inboxService.SetFetcher(fetcher)

		writer, err := calendar.NewWriter(ctx, httpClient)
		if err != nil {
			return err
		}
		calendarHandler.SetInserter(writer)

		// First fetch cycle in the background so the caller isn't blocked
		// on network calls.
		go func() {
			if err := inboxService.Refresh(context.Background()); err != nil {
				log.Printf("Initial fetch failed: %v", err)
			}
		}()
		return nil
	}

	if authManager != nil && authManager.HasToken() {
		if err := connect(context.Background()); err != nil {
			log.Printf("Warning: could not connect with stored token: %v", err)
		}
	}

	go inboxService.Run(context.Background(), cfg.RefreshInterval)

	server := NewServer(inboxService, summarizer, history, hub, authManager, calendarHandler, connect)

	address := ":" + cfg.Port
	log.Printf("Momo backend server starting on %s (environment: %s)", address, cfg.Environment)

	if err := http.ListenAndServe(address, server); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// NewServer creates and returns the HTTP handler for the Momo API server.
func NewServer(
	inboxService *inbox.Service,
	summarizer *summary.Summarizer,
	history *store.Store,
	hub *ws.Hub,
	authManager *auth.Manager,
	calendarHandler *api.CalendarHandler,
	onConnected func(ctx context.Context) error,
) http.Handler {
	statusHandler := api.NewStatusHandler(inboxService)
	authHandler := api.NewAuthHandler(authManager, onConnected)
	emailsHandler := api.NewEmailsHandler(inboxService, history)
	summaryHandler := api.NewSummaryHandler(inboxService, summarizer)
	wsHandler := api.NewWebSocketHandler(hub)

	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/health", statusHandler.GetHealth)
	mux.HandleFunc("/status", statusHandler.GetStatus)
	mux.HandleFunc("/auth/url", authHandler.GetAuthURL)
	mux.HandleFunc("/auth/callback", authHandler.HandleCallback)

	mux.HandleFunc("/emails", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			emailsHandler.GetEmails(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/emails/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		emailsHandler.RefreshEmails(w, r)
	})
	mux.HandleFunc("/emails/important", emailsHandler.GetImportantEmails)

	mux.HandleFunc("/email/summary/", summaryHandler.GetEmailSummary)
	mux.HandleFunc("/summary/overall", summaryHandler.GetOverallSummary)
	mux.HandleFunc("/clear-cache", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		summaryHandler.ClearCache(w, r)
	})

	mux.HandleFunc("/calendar/add/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		calendarHandler.AddToCalendar(w, r)
	})
	mux.HandleFunc("/meetings/suggest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		calendarHandler.SuggestMeetings(w, r)
	})

	mux.HandleFunc("/ws", wsHandler.Handle)

	return mux
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Momo API is running")
}
