package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeScale_X(t *testing.T) {
	s := TimeScale{Start: ymd(2020, 1, 1), End: ymd(2021, 1, 1), Width: 1000}

	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"start", ymd(2020, 1, 1), 0},
		{"end", ymd(2021, 1, 1), 1000},
		{"middle", ymd(2020, 7, 2), 500},
		{"clamped before", ymd(2019, 1, 1), 0},
		{"clamped after", ymd(2030, 1, 1), 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.X(tt.at), 1)
		})
	}

	assert.Zero(t, TimeScale{Start: ymd(2020, 1, 1), End: ymd(2020, 1, 1), Width: 10}.X(ymd(2020, 1, 1)))
}

func TestTimeScale_Ticks(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		max       int
		wantFirst time.Time
		wantStep  int
		wantCount int
	}{
		{"one year monthly", ymd(2022, 1, 1), ymd(2022, 12, 31), 12, ymd(2022, 1, 1), 1, 12},
		{"one year capped at ten", ymd(2022, 1, 1), ymd(2023, 1, 1), 10, ymd(2022, 1, 1), 2, 7},
		{"three years", ymd(2022, 1, 1), ymd(2025, 1, 1), 10, ymd(2022, 1, 1), 6, 7},
		{"mid-month start rounds up", ymd(2022, 1, 15), ymd(2022, 6, 30), 10, ymd(2022, 2, 1), 1, 5},
		{"aligned to step", ymd(2022, 2, 1), ymd(2025, 2, 1), 10, ymd(2022, 7, 1), 6, 6},
		{"decade", ymd(2010, 1, 1), ymd(2020, 1, 1), 10, ymd(2010, 1, 1), 24, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks := TimeScale{Start: tt.start, End: tt.end, Width: 100}.Ticks(tt.max)
			require.Len(t, ticks, tt.wantCount)
			assert.Equal(t, tt.wantFirst, ticks[0])
			if len(ticks) > 1 {
				assert.Equal(t, ticks[0].AddDate(0, tt.wantStep, 0), ticks[1])
			}
			for _, tk := range ticks {
				assert.False(t, tk.Before(tt.start))
				assert.False(t, tk.After(tt.end))
			}
		})
	}
}

func TestBandScale(t *testing.T) {
	b := NewBandScale([]string{"Master", "Node 20", "Node 20", "Node 18", "Master"}, 440, 0.3)

	assert.Equal(t, []string{"Master", "Node 20", "Node 18"}, b.Names())

	// n=3, padding .3: step = 440 / 3.3, offset = (440 - step*2.7) / 2
	step := 440 / 3.3
	assert.InDelta(t, step*0.7, b.Bandwidth(), 1e-9)

	y0, ok := b.Y("Master")
	require.True(t, ok)
	assert.InDelta(t, (440-step*2.7)/2, y0, 1e-9)
	assert.InDelta(t, step*0.3, y0, 1e-9)

	y2, ok := b.Y("Node 18")
	require.True(t, ok)
	assert.InDelta(t, y0+2*step, y2, 1e-9)
	assert.InDelta(t, 440-step*0.3, y2+b.Bandwidth(), 1e-9)

	_, ok = b.Y("Node 16")
	assert.False(t, ok)
}

func TestBandScale_Empty(t *testing.T) {
	b := NewBandScale(nil, 100, 0.3)
	assert.Empty(t, b.Names())
	assert.Zero(t, b.Bandwidth())
}
