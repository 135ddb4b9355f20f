package membership

import (
	"testing"

	"github.com/alaminmiah4274/iron-temple/internal/clock"

	"github.com/stretchr/testify/assert"
)

func TestDurationEndDate(t *testing.T) {
	start := clock.Date(2025, 1, 1)

	tests := []struct {
		duration Duration
		want     string
	}{
		{Weekly, "2025-01-08"},
		{Monthly, "2025-01-31"},
		{Yearly, "2026-01-01"},
		{Duration("QUARTERLY"), "2026-01-01"},
		{Duration(""), "2026-01-01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.duration.EndDate(start).Format(clock.DateLayout), string(tt.duration))
	}
}

func TestMonthlyIsThirtyDaysNotCalendarMonth(t *testing.T) {
	start := clock.Date(2025, 2, 1)
	assert.Equal(t, "2025-03-03", Monthly.EndDate(start).Format(clock.DateLayout))
}
