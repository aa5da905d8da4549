// Package main provides a test server for E2E testing sales-assistant clients.
// It runs with in-memory SQLite and an in-memory calendar, so no Graph or
// Google credentials are needed. Fallback emails are logged, not sent.
//
// Usage:
//
//	go run cmd/testserver/main.go
//
// The server exposes additional test control endpoints:
//   - POST /api/test/reset - Clear the calendar, injected failures and request log
//   - POST /api/test/busy  - Block out {"start", "end"} on the calendar
//   - POST /api/test/fail  - Make calendar calls fail ({"schedule", "view", "create"} booleans)
//   - GET  /api/test/created - List events created so far
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/config"
	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/logger"
	"github.com/omriShneor/salesdesk/internal/notify"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/omriShneor/salesdesk/internal/server"
	"github.com/omriShneor/salesdesk/internal/timeutil"
)

var errInjected = errors.New("injected failure")

func main() {
	fmt.Println("Starting Salesdesk Test Server...")

	cfg := config.LoadFromEnv()

	log, err := logger.NewLogger("development")
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	loc, fallback := timeutil.ResolveLocation(cfg.Timezone)
	if fallback && cfg.Timezone != "" {
		fmt.Printf("Unknown timezone %q\n", cfg.Timezone)
		os.Exit(1)
	}

	db, err := database.New(":memory:", log)
	if err != nil {
		fmt.Printf("Failed to create database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	// every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)

	provider := calendar.NewMemoryProvider()
	notifyService := notify.NewService(&logNotifier{log: log}, "sales-desk@example.com", loc, log)

	sched := scheduler.New(provider, scheduler.Config{
		Location:          loc,
		BusinessStartHour: cfg.BusinessStartHour,
		BusinessEndHour:   cfg.BusinessEndHour,
		DefaultDuration:   cfg.MeetingDuration(),
		FailOpen:          cfg.FailOpen,
		RequestTimeout:    cfg.RequestTimeout(),
		Phrases:           scheduler.NewOpaquePhrases(),
		Logger:            log,
		Recorder:          db,
		Fallback:          notifyService,
	})

	srv := server.New(server.ServerConfig{
		DB:            db,
		Scheduler:     sched,
		NotifyService: notifyService,
		ProviderName:  provider.Name(),
		Logger:        log,
		Port:          cfg.HTTPPort,
		ExtraRoutes: func(mux *http.ServeMux) {
			registerTestRoutes(mux, db, provider, loc)
		},
	})

	go func() {
		fmt.Printf("\nTest Server running on http://localhost:%d\n", cfg.HTTPPort)
		fmt.Println("\nTest endpoints:")
		fmt.Println("  POST /api/test/reset   - Reset calendar and request log")
		fmt.Println("  POST /api/test/busy    - Block a calendar window")
		fmt.Println("  POST /api/test/fail    - Inject calendar failures")
		fmt.Println("  GET  /api/test/created - List created events")
		fmt.Println("\nPress Ctrl+C to stop")

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down test server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	_ = logger.Sync(log)
	fmt.Println("Test server stopped")
}

func registerTestRoutes(mux *http.ServeMux, db *database.DB, provider *calendar.MemoryProvider, loc *time.Location) {
	mux.HandleFunc("POST /api/test/reset", func(w http.ResponseWriter, r *http.Request) {
		fmt.Println("Resetting test state...")
		provider.Reset()
		if err := db.ClearSchedulingRequests(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("Failed to clear request log: %v", err), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	mux.HandleFunc("POST /api/test/busy", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Start string `json:"start"`
			End   string `json:"end"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		start, err := timeutil.ParseDateTime(req.Start, loc)
		if err != nil {
			http.Error(w, "Invalid start", http.StatusBadRequest)
			return
		}
		end, err := timeutil.ParseDateTime(req.End, loc)
		if err != nil || !end.After(start) {
			http.Error(w, "Invalid end", http.StatusBadRequest)
			return
		}
		provider.AddBusy(start, end)
		respondJSON(w, http.StatusCreated, map[string]time.Time{"start": start, "end": end})
	})

	mux.HandleFunc("POST /api/test/fail", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Schedule bool `json:"schedule"`
			View     bool `json:"view"`
			Create   bool `json:"create"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		provider.Fail(injected(req.Schedule), injected(req.View), injected(req.Create))
		respondJSON(w, http.StatusOK, req)
	})

	mux.HandleFunc("GET /api/test/created", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, provider.Created())
	})
}

func injected(on bool) error {
	if on {
		return errInjected
	}
	return nil
}

// logNotifier stands in for Resend so fallback emails show up in the log.
type logNotifier struct {
	log logger.Logger
}

func (n *logNotifier) Send(_ context.Context, email notify.Email) error {
	n.log.Info("fallback email", "to", email.To, "subject", email.Subject, "attachments", len(email.Attachments))
	return nil
}

func (n *logNotifier) Name() string       { return "log" }
func (n *logNotifier) IsConfigured() bool { return true }

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
