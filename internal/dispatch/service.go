// Package dispatch implements the compute-and-log action: it validates a
// dispatch request, estimates the arrival and records the entry.
package dispatch

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pakalnivut/backend/internal/clockgap"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/logging"
	"github.com/pakalnivut/backend/internal/models"
)

// Defaults holds the form values offered before any input.
type Defaults struct {
	DistanceKm float64
	SpeedKmh   float64
	StepKm     float64
}

// Service logs dispatches into a repository.
type Service struct {
	repo     dispatchlog.Repository
	now      func() time.Time
	defaults Defaults
	log      *logging.Logger

	mu        sync.Mutex
	nextSquad string
}

// NewService creates a Service. now defaults to time.Now.
func NewService(repo dispatchlog.Repository, now func() time.Time, defaults Defaults, log *logging.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Service{
		repo:      repo,
		now:       now,
		defaults:  defaults,
		log:       log.WithComponent("dispatch"),
		nextSquad: "1",
	}
}

// Log validates in, computes the arrival and appends the entry to the
// navigator's table. On a validation error nothing is stored.
func (s *Service) Log(in Input) (models.DispatchEntry, error) {
	in = in.Normalize(s.defaults.SpeedKmh)
	if err := in.Validate(); err != nil {
		s.log.Info("dispatch rejected", "error", err)
		return models.DispatchEntry{}, err
	}

	now := s.now()
	dispatched := clockgap.FromTime(now)
	arrival := clockgap.ComputeArrival(now, in.DistanceKm, in.SpeedKmh, in.ExtraMinutes)

	entry := models.DispatchEntry{
		ID:           uuid.New().String(),
		Navigator:    in.Navigator,
		SquadNumber:  in.SquadNumber,
		SquadName:    in.SquadName,
		DistanceKm:   in.DistanceKm,
		Spots:        0,
		ExtraMinutes: in.ExtraMinutes,
		DispatchTime: dispatched.String(),
		ArrivalTime:  arrival.String(),
		TimeGap:      clockgap.TimeGap(dispatched, arrival).Display,
	}

	if err := s.repo.Append(in.Navigator, entry); err != nil {
		return models.DispatchEntry{}, fmt.Errorf("logging dispatch: %w", err)
	}

	s.mu.Lock()
	if n, err := strconv.Atoi(in.SquadNumber); err == nil {
		s.nextSquad = strconv.Itoa(n + 1)
	} else {
		s.nextSquad = in.SquadNumber
	}
	s.mu.Unlock()

	s.log.WithNavigator(in.Navigator).Info("dispatch logged",
		"id", entry.ID,
		"squad", entry.SquadNumber,
		"distance_km", entry.DistanceKm,
		"speed_kmh", in.SpeedKmh,
		"delivering", entry.DispatchTime,
		"arrival", entry.ArrivalTime,
	)
	return entry, nil
}

// Form returns the values a client should pre-fill.
func (s *Service) Form() models.FormDefaults {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.FormDefaults{
		SquadNumber: s.nextSquad,
		DistanceKm:  s.defaults.DistanceKm,
		SpeedKmh:    s.defaults.SpeedKmh,
		StepKm:      s.defaults.StepKm,
	}
}

// AdjustDistance steps value by delta using the configured start distance.
func (s *Service) AdjustDistance(value, delta float64) float64 {
	return AdjustDistance(value, delta, s.defaults.DistanceKm)
}

// ClearAll erases both tables and restarts squad numbering at 1.
func (s *Service) ClearAll() error {
	if err := s.repo.ClearAll(); err != nil {
		return err
	}

	s.mu.Lock()
	s.nextSquad = "1"
	s.mu.Unlock()
	return nil
}

// Now returns the service's current time.
func (s *Service) Now() time.Time {
	return s.now()
}
