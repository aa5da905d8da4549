package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/notify"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/omriShneor/salesdesk/internal/server"
	"github.com/stretchr/testify/require"
)

// FallbackRecipient receives booking-request emails in tests.
const FallbackRecipient = "sales@example.com"

// TestServer wraps a server for E2E testing
type TestServer struct {
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	DB         *database.DB
	HTTPServer *httptest.Server
	Calendar   *calendar.MemoryProvider
	Mailer     *RecordingNotifier
	Location   *time.Location
	t          *testing.T

	now      time.Time
	failOpen bool
}

// TestServerOption configures a test server
type TestServerOption func(*TestServer)

// WithNow fixes the scheduler clock.
func WithNow(now time.Time) TestServerOption {
	return func(ts *TestServer) {
		ts.now = now
		ts.Location = now.Location()
	}
}

// WithFailClosed treats unreadable calendars as busy.
func WithFailClosed() TestServerOption {
	return func(ts *TestServer) {
		ts.failOpen = false
	}
}

// NewTestServer creates a fully configured test server for E2E testing.
// The calendar and database are in memory; fallback emails land in Mailer.
func NewTestServer(t *testing.T, opts ...TestServerOption) *TestServer {
	t.Helper()

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	ts := &TestServer{
		Calendar: calendar.NewMemoryProvider(),
		Mailer:   NewRecordingNotifier(),
		Location: loc,
		t:        t,
		now:      time.Date(2026, time.October, 19, 9, 0, 0, 0, loc),
		failOpen: true,
	}

	for _, opt := range opts {
		opt(ts)
	}

	db, err := database.New(":memory:", nil)
	require.NoError(t, err, "failed to create test database")
	db.SetMaxOpenConns(1)
	ts.DB = db

	notifyService := notify.NewService(ts.Mailer, FallbackRecipient, ts.Location, nil)

	now := ts.now
	ts.Scheduler = scheduler.New(ts.Calendar, scheduler.Config{
		Location: ts.Location,
		FailOpen: ts.failOpen,
		Phrases:  scheduler.PlainPhrases{},
		Recorder: db,
		Fallback: notifyService,
		Now:      func() time.Time { return now },
	})

	ts.Server = server.New(server.ServerConfig{
		DB:            db,
		Scheduler:     ts.Scheduler,
		NotifyService: notifyService,
		ProviderName:  ts.Calendar.Name(),
	})

	ts.HTTPServer = httptest.NewServer(ts.Server.Handler())

	t.Cleanup(func() {
		ts.HTTPServer.Close()
		db.Close()
	})

	return ts
}

// BaseURL returns the test server base URL
func (ts *TestServer) BaseURL() string {
	return ts.HTTPServer.URL
}

// Client returns an HTTP client configured for the test server
func (ts *TestServer) Client() *http.Client {
	return ts.HTTPServer.Client()
}

// Day returns midnight of the given October 2026 day in the server's location.
func (ts *TestServer) Day(day int) time.Time {
	return time.Date(2026, time.October, day, 0, 0, 0, 0, ts.Location)
}
