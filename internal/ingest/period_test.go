package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/dash-indaia/internal/models"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		name     string
		f        models.Filters
		from, to time.Time
	}{
		{"today", models.Filters{Period: models.PeriodToday}, d(2025, 3, 10), d(2025, 3, 10)},
		{"yesterday", models.Filters{Period: models.PeriodYesterday}, d(2025, 3, 9), d(2025, 3, 9)},
		{"7 days", models.Filters{Period: models.PeriodLast7Days}, d(2025, 3, 4), d(2025, 3, 10)},
		{"30 days", models.Filters{Period: models.PeriodLast30Days}, d(2025, 2, 9), d(2025, 3, 10)},
		{"default", models.Filters{}, d(2025, 2, 9), d(2025, 3, 10)},
		{"current month", models.Filters{Period: models.PeriodCurrentMonth}, d(2025, 3, 1), d(2025, 3, 10)},
		{"previous month", models.Filters{Period: models.PeriodPreviousMonth}, d(2025, 2, 1), d(2025, 2, 28)},
		{"explicit range wins", models.Filters{Period: models.PeriodToday, Start: "2025-01-01", End: "2025-01-31"}, d(2025, 1, 1), d(2025, 1, 31)},
		{"start only", models.Filters{Start: "2025-03-01"}, d(2025, 3, 1), d(2025, 3, 10)},
		{"end only", models.Filters{End: "2025-03-05"}, d(2025, 3, 5), d(2025, 3, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := ResolveRange(tc.f, now)
			require.NoError(t, err)
			assert.True(t, tc.from.Equal(from), "from=%s", from)
			assert.True(t, tc.to.Equal(to), "to=%s", to)
		})
	}
}

func TestResolveRangeErrors(t *testing.T) {
	now := time.Now()
	for _, f := range []models.Filters{
		{Period: "trimestre"},
		{Start: "01/03/2025"},
		{Start: "2025-03-10", End: "2025-03-01"},
	} {
		_, _, err := ResolveRange(f, now)
		assert.Error(t, err, "%+v", f)
	}
}
