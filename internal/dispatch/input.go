package dispatch

import (
	"fmt"
	"math"
	"strings"

	"github.com/pakalnivut/backend/internal/models"
)

// Input is the compute-and-log request, validated once at the boundary.
type Input struct {
	Navigator    models.NavigatorID `json:"navigator"`
	SquadNumber  string             `json:"squadNumber"`
	SquadName    string             `json:"squadName"`
	DistanceKm   float64            `json:"distanceKm"`
	SpeedKmh     float64            `json:"speedKmh"`
	AddExtraTime bool               `json:"addExtraTime"`
	ExtraMinutes int                `json:"extraMinutes"`
}

// ValidationError lists the input fields that were rejected.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid dispatch input: %s", strings.Join(e.Fields, ", "))
}

// Normalize trims text fields, applies the default speed to an unset
// speed and drops extra minutes when they were not requested.
func (in Input) Normalize(defaultSpeed float64) Input {
	in.SquadNumber = strings.TrimSpace(in.SquadNumber)
	in.SquadName = strings.TrimSpace(in.SquadName)
	if in.SpeedKmh == 0 {
		in.SpeedKmh = defaultSpeed
	}
	if !in.AddExtraTime {
		in.ExtraMinutes = 0
	}
	return in
}

// Validate reports every invalid field, or nil.
func (in Input) Validate() error {
	var fields []string
	if !in.Navigator.Valid() {
		fields = append(fields, "navigator")
	}
	if strings.TrimSpace(in.SquadNumber) == "" {
		fields = append(fields, "squadNumber")
	}
	if strings.TrimSpace(in.SquadName) == "" {
		fields = append(fields, "squadName")
	}
	if !positive(in.DistanceKm) {
		fields = append(fields, "distanceKm")
	}
	if !positive(in.SpeedKmh) {
		fields = append(fields, "speedKmh")
	}
	if in.AddExtraTime && in.ExtraMinutes < 0 {
		fields = append(fields, "extraMinutes")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// AdjustDistance steps a distance by delta, rounding to one decimal and
// clamping at zero. A NaN value restarts from start.
func AdjustDistance(value, delta, start float64) float64 {
	if math.IsNaN(value) {
		value = start
	}
	return math.Max(0, math.Round((value+delta)*10)/10)
}
