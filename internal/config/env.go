package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

const (
	ProviderGraph  = "graph"
	ProviderGoogle = "google"
)

var ErrMissingCredentials = errors.New("calendar credentials not configured")

type Config struct {
	// Calendar provider
	CalendarProvider      string
	GraphTenantID         string
	GraphClientID         string
	GraphClientSecret     string
	GraphBaseURL          string
	GoogleCredentialsFile string
	GoogleTokenFile       string
	OrganizerEmail        string

	// Scheduling policy
	Timezone               string
	MeetingDurationMinutes int
	BusinessStartHour      int
	BusinessEndHour        int
	FailOpen               bool
	OpaquePhrases          bool
	RequestTimeoutSeconds  int

	// Fallback notification
	ResendAPIKey  string
	EmailFrom     string
	FallbackEmail string

	// Service
	DBPath   string
	HTTPPort int
	LogEnv   string
}

func LoadFromEnv() *Config {
	cfg := &Config{
		CalendarProvider:      strings.ToLower(getEnvOrDefault("SALESDESK_CALENDAR_PROVIDER", ProviderGraph)),
		GraphTenantID:         os.Getenv("GRAPH_TENANT_ID"),
		GraphClientID:         os.Getenv("GRAPH_CLIENT_ID"),
		GraphClientSecret:     os.Getenv("GRAPH_CLIENT_SECRET"),
		GraphBaseURL:          getEnvOrDefault("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		OrganizerEmail:        os.Getenv("SALESDESK_ORGANIZER_EMAIL"),

		Timezone:               getEnvOrDefault("SALESDESK_TIMEZONE", "Europe/London"),
		MeetingDurationMinutes: getEnvAsIntOrDefault("SALESDESK_MEETING_DURATION", 30),
		BusinessStartHour:      getEnvAsIntOrDefault("SALESDESK_BUSINESS_START", 9),
		BusinessEndHour:        getEnvAsIntOrDefault("SALESDESK_BUSINESS_END", 18),
		FailOpen:               getEnvAsBoolOrDefault("SALESDESK_FAIL_OPEN", true),
		OpaquePhrases:          getEnvAsBoolOrDefault("SALESDESK_OPAQUE_PHRASES", true),
		RequestTimeoutSeconds:  getEnvAsIntOrDefault("SALESDESK_REQUEST_TIMEOUT", 10),

		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		EmailFrom:     os.Getenv("SALESDESK_EMAIL_FROM"),
		FallbackEmail: os.Getenv("SALESDESK_FALLBACK_EMAIL"),

		DBPath:   getEnvOrDefault("SALESDESK_DB_PATH", "./salesdesk.db"),
		HTTPPort: getEnvAsIntOrDefault("SALESDESK_HTTP_PORT", 8080),
		LogEnv:   getEnvOrDefault("SALESDESK_LOG_ENV", "production"),
	}

	return cfg
}

// Validate reports whether the selected calendar provider has what it needs.
// Business-hour and duration values are sanity-checked too.
func (c *Config) Validate() error {
	switch c.CalendarProvider {
	case ProviderGraph:
		if c.GraphTenantID == "" || c.GraphClientID == "" || c.GraphClientSecret == "" {
			return fmt.Errorf("%w: GRAPH_TENANT_ID, GRAPH_CLIENT_ID and GRAPH_CLIENT_SECRET are required", ErrMissingCredentials)
		}
		if c.OrganizerEmail == "" {
			return fmt.Errorf("%w: SALESDESK_ORGANIZER_EMAIL is required", ErrMissingCredentials)
		}
	case ProviderGoogle:
		if c.GoogleCredentialsFile == "" {
			return fmt.Errorf("%w: GOOGLE_CREDENTIALS_FILE is required", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("unknown calendar provider %q", c.CalendarProvider)
	}

	if c.BusinessStartHour < 0 || c.BusinessEndHour > 24 || c.BusinessStartHour >= c.BusinessEndHour {
		return fmt.Errorf("invalid business hours %d-%d", c.BusinessStartHour, c.BusinessEndHour)
	}
	if c.MeetingDurationMinutes <= 0 {
		return fmt.Errorf("invalid meeting duration %d", c.MeetingDurationMinutes)
	}
	return nil
}

// MeetingDuration returns the default meeting length.
func (c *Config) MeetingDuration() time.Duration {
	return time.Duration(c.MeetingDurationMinutes) * time.Minute
}

// RequestTimeout returns the per-call timeout for outbound calendar requests.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
