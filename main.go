package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/config"
	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/gcal"
	"github.com/omriShneor/salesdesk/internal/logger"
	"github.com/omriShneor/salesdesk/internal/msgraph"
	"github.com/omriShneor/salesdesk/internal/notify"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/omriShneor/salesdesk/internal/server"
	"github.com/omriShneor/salesdesk/internal/timeutil"
)

func main() {
	cfg := config.LoadFromEnv()

	log, err := logger.NewLogger(cfg.LogEnv)
	if err != nil {
		fatal("creating logger", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("configuration incomplete, calendar calls will fail", err)
	}

	loc, err := initLocation(cfg)
	if err != nil {
		fatal("resolving timezone", err)
	}

	// Phase 1: Core infrastructure
	db, err := initDatabase(cfg, log)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	provider, err := initCalendar(context.Background(), cfg)
	if err != nil {
		fatal("creating calendar provider", err)
	}
	log.Info("calendar provider configured", "provider", provider.Name(), "organizer", cfg.OrganizerEmail)

	notifyService := initNotifyService(cfg, loc, log)

	// Phase 2: Scheduling pipeline
	sched := scheduler.New(provider, scheduler.Config{
		Location:          loc,
		BusinessStartHour: cfg.BusinessStartHour,
		BusinessEndHour:   cfg.BusinessEndHour,
		DefaultDuration:   cfg.MeetingDuration(),
		FailOpen:          cfg.FailOpen,
		RequestTimeout:    cfg.RequestTimeout(),
		Phrases:           initPhrases(cfg),
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
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()
	log.Info("salesdesk listening", "port", cfg.HTTPPort, "timezone", loc.String())

	waitForShutdown(srv, log)
}

// initLocation resolves the organizer timezone. Only an empty setting
// falls back to UTC; an unknown name is an error.
func initLocation(cfg *config.Config) (*time.Location, error) {
	loc, fallback := timeutil.ResolveLocation(cfg.Timezone)
	if fallback && cfg.Timezone != "" {
		return nil, fmt.Errorf("unknown timezone %q", cfg.Timezone)
	}
	return loc, nil
}

func initDatabase(cfg *config.Config, log logger.Logger) (*database.DB, error) {
	return database.New(cfg.DBPath, log)
}

func initCalendar(ctx context.Context, cfg *config.Config) (calendar.Provider, error) {
	switch cfg.CalendarProvider {
	case config.ProviderGoogle:
		client, err := gcal.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, "primary")
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		tokens := msgraph.NewTokenCache(msgraph.Credentials{
			TenantID:     cfg.GraphTenantID,
			ClientID:     cfg.GraphClientID,
			ClientSecret: cfg.GraphClientSecret,
		})
		return msgraph.NewClient(msgraph.ClientConfig{
			BaseURL:   cfg.GraphBaseURL,
			Organizer: cfg.OrganizerEmail,
			Tokens:    tokens,
		}), nil
	}
}

func initNotifyService(cfg *config.Config, loc *time.Location, log logger.Logger) *notify.Service {
	var emailNotifier notify.Notifier
	if resend := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom); resend != nil {
		emailNotifier = resend
		log.Info("fallback email configured", "provider", resend.Name(), "recipient", cfg.FallbackEmail)
	} else {
		log.Info("RESEND_API_KEY not set, booking fallback disabled")
	}

	return notify.NewService(emailNotifier, cfg.FallbackEmail, loc, log)
}

func initPhrases(cfg *config.Config) scheduler.PhraseProvider {
	if cfg.OpaquePhrases {
		return scheduler.NewOpaquePhrases()
	}
	return scheduler.PlainPhrases{}
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server, log logger.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", err)
	}
	// stderr/stdout sinks report EINVAL on Sync on some platforms.
	_ = logger.Sync(log)
}
