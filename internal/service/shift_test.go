package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftWindows(t *testing.T) {
	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 2, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		build func() (Window, error)
		want  Window
	}{
		{
			name:  "daily",
			build: func() (Window, error) { return DailyWindow("2026-03-10") },
			want:  Window{Mode: ModeDaily, Start: at(2026, 3, 10), End: at(2026, 3, 11)},
		},
		{
			name:  "range end is inclusive",
			build: func() (Window, error) { return RangeWindow("2026-03-01", "2026-03-07") },
			want:  Window{Mode: ModeRange, Start: at(2026, 3, 1), End: at(2026, 3, 8)},
		},
		{
			name:  "single day range",
			build: func() (Window, error) { return RangeWindow("2026-03-01", "2026-03-01") },
			want:  Window{Mode: ModeRange, Start: at(2026, 3, 1), End: at(2026, 3, 2)},
		},
		{
			name:  "month",
			build: func() (Window, error) { return MonthWindow("2026-02") },
			want:  Window{Mode: ModeMonth, Start: at(2026, 2, 1), End: at(2026, 3, 1)},
		},
		{
			name:  "december rolls over the year",
			build: func() (Window, error) { return MonthWindow("2025-12") },
			want:  Window{Mode: ModeMonth, Start: at(2025, 12, 1), End: at(2026, 1, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, w)
		})
	}
}

func TestShiftWindows_Invalid(t *testing.T) {
	_, err := DailyWindow("10/03/2026")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = RangeWindow("2026-03-07", "2026-03-01")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = MonthWindow("2026-13")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestWindowClosed(t *testing.T) {
	w, err := DailyWindow("2026-03-10")
	require.NoError(t, err)

	assert.False(t, w.Closed(time.Date(2026, 3, 11, 1, 59, 0, 0, time.UTC)))
	assert.True(t, w.Closed(time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)))
}
