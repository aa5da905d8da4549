package testutil

import (
	"testing"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusyBuilder(t *testing.T) {
	day := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)
	provider := calendar.NewMemoryProvider()

	periods := NewBusyBuilder(day).Block("12:00", "13:30").MustApply(provider)
	require.Len(t, periods, 1)
	assert.Equal(t, time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2026, time.October, 20, 13, 30, 0, 0, time.UTC), periods[0].End)

	_, err := NewBusyBuilder(day).Block("13:00", "12:00").Build()
	assert.Error(t, err)

	_, err = NewBusyBuilder(day).Block("noon", "13:00").Build()
	assert.Error(t, err)

	all, err := NewBusyBuilder(day).AllDay().Build()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, all[0].End.Sub(all[0].Start))
}
