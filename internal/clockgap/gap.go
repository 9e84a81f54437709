package clockgap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pakalnivut/backend/internal/models"
)

// OverdueMarker is appended to the display of a gap whose arrival has passed.
const OverdueMarker = "-"

// Severity thresholds in minutes.
const (
	CriticalBelow = 10
	WarningBelow  = 30
)

// Gap is the live difference between the current time and an arrival.
type Gap struct {
	Minutes int    // arrival minus current, negative when overdue
	Overdue bool
	Display string // "H:MM", or "H:MM-" when overdue
}

// ComputeArrival returns the estimated arrival for a unit dispatched at
// dispatch, covering distanceKm at speedKmh plus extraMinutes of delay.
// Callers must reject non-positive distance and speed beforehand.
func ComputeArrival(dispatch time.Time, distanceKm, speedKmh float64, extraMinutes int) ClockTime {
	hoursNeeded := distanceKm / speedKmh
	travel := time.Duration(hoursNeeded * float64(time.Hour))
	arrival := dispatch.Add(travel + time.Duration(extraMinutes)*time.Minute)
	return FromTime(arrival)
}

// TimeGap computes the gap between current and arrival without wrapping
// around midnight.
//
// Overdue gaps use a different rounding than on-time gaps: hours are
// |floor(diff/60)+1| and minutes |diff rem 60|. At exactly -60 minutes this
// reads "0:00-". Existing clients depend on these strings.
func TimeGap(current, arrival ClockTime) Gap {
	diff := int(arrival) - int(current)
	if diff >= 0 {
		return Gap{
			Minutes: diff,
			Display: fmt.Sprintf("%d:%02d", diff/60, diff%60),
		}
	}
	hours := absInt(int(math.Floor(float64(diff)/60)) + 1)
	mins := absInt(diff % 60)
	return Gap{
		Minutes: diff,
		Overdue: true,
		Display: fmt.Sprintf("%d:%02d%s", hours, mins, OverdueMarker),
	}
}

// TimeGapStrings is TimeGap over "HH:MM" strings.
func TimeGapStrings(current, arrival string) (Gap, error) {
	c, err := Parse(current)
	if err != nil {
		return Gap{}, err
	}
	a, err := Parse(arrival)
	if err != nil {
		return Gap{}, err
	}
	return TimeGap(c, a), nil
}

// GapSeverity classifies a gap display by its total minutes. A display that
// does not parse as H:MM is invalid, which includes overdue displays since
// their minutes carry the trailing marker.
func GapSeverity(display string) models.Severity {
	hs, ms, ok := strings.Cut(display, ":")
	if !ok {
		return models.SeverityInvalid
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return models.SeverityInvalid
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return models.SeverityInvalid
	}
	total := h*60 + m
	switch {
	case total < CriticalBelow:
		return models.SeverityCritical
	case total < WarningBelow:
		return models.SeverityWarning
	default:
		return models.SeverityNormal
	}
}

// Severity classifies g by its display.
func (g Gap) Severity() models.Severity {
	return GapSeverity(g.Display)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
