package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"SALESDESK_CALENDAR_PROVIDER", "SALESDESK_TIMEZONE", "SALESDESK_MEETING_DURATION",
		"SALESDESK_BUSINESS_START", "SALESDESK_BUSINESS_END", "SALESDESK_FAIL_OPEN",
		"SALESDESK_OPAQUE_PHRASES", "SALESDESK_REQUEST_TIMEOUT", "SALESDESK_HTTP_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, ProviderGraph, cfg.CalendarProvider)
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, 30, cfg.MeetingDurationMinutes)
	assert.Equal(t, 9, cfg.BusinessStartHour)
	assert.Equal(t, 18, cfg.BusinessEndHour)
	assert.True(t, cfg.FailOpen)
	assert.True(t, cfg.OpaquePhrases)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.MeetingDuration())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SALESDESK_CALENDAR_PROVIDER", "Google")
	t.Setenv("SALESDESK_MEETING_DURATION", "45")
	t.Setenv("SALESDESK_FAIL_OPEN", "false")
	t.Setenv("SALESDESK_BUSINESS_START", "not-a-number")

	cfg := LoadFromEnv()

	assert.Equal(t, ProviderGoogle, cfg.CalendarProvider)
	assert.Equal(t, 45, cfg.MeetingDurationMinutes)
	assert.False(t, cfg.FailOpen)
	assert.Equal(t, 9, cfg.BusinessStartHour, "invalid values fall back to the default")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			CalendarProvider:       ProviderGraph,
			GraphTenantID:          "tenant",
			GraphClientID:          "client",
			GraphClientSecret:      "secret",
			OrganizerEmail:         "sales@example.com",
			BusinessStartHour:      9,
			BusinessEndHour:        18,
			MeetingDurationMinutes: 30,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name      string
		mutate    func(*Config)
		credError bool
	}{
		{"missing secret", func(c *Config) { c.GraphClientSecret = "" }, true},
		{"missing organizer", func(c *Config) { c.OrganizerEmail = "" }, true},
		{"google without credentials", func(c *Config) {
			c.CalendarProvider = ProviderGoogle
			c.GoogleCredentialsFile = ""
		}, true},
		{"unknown provider", func(c *Config) { c.CalendarProvider = "exchange" }, false},
		{"inverted hours", func(c *Config) { c.BusinessStartHour = 18; c.BusinessEndHour = 9 }, false},
		{"zero duration", func(c *Config) { c.MeetingDurationMinutes = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.credError, errors.Is(err, ErrMissingCredentials))
		})
	}
}
