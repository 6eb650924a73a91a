package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrAlreadyScheduled is returned when the user already has a workout on the
// requested date.
var ErrAlreadyScheduled = errors.NewSentinel("a workout is already scheduled for this date")

// ErrInvalid marks rejected scheduling requests.
var ErrInvalid = errors.NewSentinel("invalid scheduling request")

const dateFormat = time.DateOnly

// Service handles the business logic for workout scheduling.
type Service struct {
	repo   *repository
	logger *slog.Logger
}

// NewService creates a new schedule service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepositoryFactory(db, logger).newRepository(),
		logger: logger,
	}
}

// Schedule places a plan on a date. A user can have at most one scheduled
// workout per date.
func (s *Service) Schedule(ctx context.Context, planID, date string) (ScheduledWorkout, error) {
	if planID == "" {
		return ScheduledWorkout{}, fmt.Errorf("%w: missing plan", ErrInvalid)
	}
	if _, err := time.Parse(dateFormat, date); err != nil {
		return ScheduledWorkout{}, fmt.Errorf("%w: parse workout date: %w", ErrInvalid, err)
	}

	taken, err := s.repo.schedules.ExistsOnDate(ctx, date)
	if err != nil {
		return ScheduledWorkout{}, fmt.Errorf("check date availability: %w", err)
	}
	if taken {
		return ScheduledWorkout{}, ErrAlreadyScheduled
	}

	scheduled := ScheduledWorkout{
		ID:     uuid.NewString(),
		UserID: contexthelpers.AuthenticatedUserID(ctx),
		PlanID: planID,
		Date:   date,
	}
	if err = s.repo.schedules.Create(ctx, scheduled); err != nil {
		return ScheduledWorkout{}, fmt.Errorf("schedule workout: %w", err)
	}
	return scheduled, nil
}

// Get returns a single scheduled workout, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (ScheduledWorkout, error) {
	return s.repo.schedules.Get(ctx, id)
}

// ListRange returns the user's scheduled workouts between from and to inclusive.
func (s *Service) ListRange(ctx context.Context, from, to string) ([]ScheduledWorkout, error) {
	for _, date := range []string{from, to} {
		if _, err := time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("%w: parse range date: %w", ErrInvalid, err)
		}
	}
	scheduled, err := s.repo.schedules.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list scheduled workouts: %w", err)
	}
	return scheduled, nil
}

// Complete marks a scheduled workout as done.
func (s *Service) Complete(ctx context.Context, id string) error {
	if err := s.repo.schedules.MarkCompleted(ctx, id); err != nil {
		return fmt.Errorf("complete scheduled workout: %w", err)
	}
	return nil
}

// CompleteFor marks the scheduled workout for a plan on a date as done. It is
// a no-op when nothing was scheduled, so that logging an unscheduled workout
// succeeds.
func (s *Service) CompleteFor(ctx context.Context, planID, date string) error {
	if err := s.repo.schedules.MarkCompletedFor(ctx, planID, date); err != nil {
		return fmt.Errorf("complete scheduled workout for plan: %w", err)
	}
	return nil
}
