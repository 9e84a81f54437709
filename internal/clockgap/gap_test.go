package clockgap

import (
	"testing"
	"time"

	"github.com/pakalnivut/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 5, 10, h, m, s, 0, time.Local)
}

func TestComputeArrival(t *testing.T) {
	tests := []struct {
		name     string
		dispatch time.Time
		distance float64
		speed    float64
		extra    int
		want     string
	}{
		{"two hours", at(10, 0, 0), 5, 2.5, 0, "12:00"},
		{"extra minutes", at(10, 0, 0), 5, 2.5, 15, "12:15"},
		{"fractional hours", at(8, 30, 0), 1, 4, 0, "08:45"},
		{"seconds carry", at(10, 0, 50), 0.5, 60, 0, "10:01"},
		{"wraps midnight", at(23, 30, 0), 2.5, 2.5, 0, "00:30"},
		{"multi day aliases", at(12, 0, 0), 60, 2.5, 0, "12:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeArrival(tt.dispatch, tt.distance, tt.speed, tt.extra)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

// elapsed measures the arrival offset in minutes from a morning dispatch,
// small enough that no case crosses midnight.
func elapsed(distance, speed float64, extra int) int {
	a := ComputeArrival(at(6, 0, 0), distance, speed, extra)
	return int(a) - 6*60
}

func TestComputeArrival_Monotonic(t *testing.T) {
	distances := []float64{0.1, 0.5, 1, 2.3, 4, 7.5, 10}
	speeds := []float64{1, 2, 2.5, 3, 4.5, 6}
	extras := []int{0, 1, 5, 30, 90}

	for _, s := range speeds {
		for _, e := range extras {
			prev := -1
			for _, d := range distances {
				got := elapsed(d, s, e)
				assert.GreaterOrEqual(t, got, prev, "distance %.1f speed %.1f extra %d", d, s, e)
				prev = got
			}
		}
	}

	for _, d := range distances {
		for _, s := range speeds {
			prev := -1
			for _, e := range extras {
				got := elapsed(d, s, e)
				assert.GreaterOrEqual(t, got, prev, "extra %d distance %.1f speed %.1f", e, d, s)
				prev = got
			}
		}
	}

	for _, d := range distances {
		for _, e := range extras {
			prev := 1 << 30
			for _, s := range speeds {
				got := elapsed(d, s, e)
				assert.LessOrEqual(t, got, prev, "speed %.1f distance %.1f extra %d", s, d, e)
				prev = got
			}
		}
	}
}

func TestTimeGap(t *testing.T) {
	tests := []struct {
		current, arrival string
		display          string
		minutes          int
		overdue          bool
	}{
		{"10:00", "10:00", "0:00", 0, false},
		{"10:00", "10:05", "0:05", 5, false},
		{"10:00", "11:30", "1:30", 90, false},
		{"10:00", "09:55", "0:05-", -5, true},
		{"10:00", "09:00", "0:00-", -60, true},
		{"10:00", "08:55", "1:05-", -65, true},
		{"10:00", "07:30", "2:30-", -150, true},
		// no midnight wrap: arrival just after midnight reads as overdue
		{"23:50", "00:10", "23:40-", -1420, true},
	}
	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.arrival, func(t *testing.T) {
			g, err := TimeGapStrings(tt.current, tt.arrival)
			require.NoError(t, err)
			assert.Equal(t, tt.display, g.Display)
			assert.Equal(t, tt.minutes, g.Minutes)
			assert.Equal(t, tt.overdue, g.Overdue)
		})
	}
}

func TestTimeGapStrings_Invalid(t *testing.T) {
	_, err := TimeGapStrings("bad", "10:00")
	assert.Error(t, err)
	_, err = TimeGapStrings("10:00", "bad")
	assert.Error(t, err)
}

func TestGapSeverity(t *testing.T) {
	tests := []struct {
		display string
		want    models.Severity
	}{
		{"0:00", models.SeverityCritical},
		{"0:05", models.SeverityCritical},
		{"0:09", models.SeverityCritical},
		{"0:10", models.SeverityWarning},
		{"0:29", models.SeverityWarning},
		{"0:30", models.SeverityNormal},
		{"2:00", models.SeverityNormal},
		{"0:05-", models.SeverityInvalid},
		{"", models.SeverityInvalid},
		{"abc", models.SeverityInvalid},
		{"x:10", models.SeverityInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			assert.Equal(t, tt.want, GapSeverity(tt.display))
		})
	}
}

func TestGap_Severity(t *testing.T) {
	g := TimeGap(NewClockTime(10, 0), NewClockTime(10, 5))
	assert.Equal(t, "0:05", g.Display)
	assert.Equal(t, models.SeverityCritical, g.Severity())
}
