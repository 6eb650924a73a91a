package logbook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

const dateFormat = time.DateOnly

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.NewSentinel("logging session not found")

type planSource interface {
	Get(ctx context.Context, id string) (plan.WorkoutPlan, error)
}

type exerciseSource interface {
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Exercise, error)
}

type scheduleCompleter interface {
	CompleteFor(ctx context.Context, planID, date string) error
}

// SetInput carries one set's numbers from the client into a session.
type SetInput struct {
	ExerciseID string `json:"exerciseId"`
	SetNumber  int    `json:"setNumber"`
	Input
}

// Service handles the business logic for workout logging and statistics.
type Service struct {
	repo      *repository
	logger    *slog.Logger
	plans     planSource
	exercises exerciseSource
	schedules scheduleCompleter

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a new logbook service.
func NewService(
	db *sqlite.Database,
	logger *slog.Logger,
	plans planSource,
	exercises exerciseSource,
	schedules scheduleCompleter,
) *Service {
	return &Service{
		repo:      newRepositoryFactory(db, logger).newRepository(),
		logger:    logger,
		plans:     plans,
		exercises: exercises,
		schedules: schedules,
		sessions:  make(map[string]*Session),
	}
}

// StartSession opens a logging session for a plan. The session loads the plan
// and the details of its exercises before accepting input.
func (s *Service) StartSession(ctx context.Context, planID string) (*Session, error) {
	session := newSession(uuid.NewString())

	p, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	pool, err := s.exercises.List(ctx, catalog.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}
	byID := make(map[string]catalog.Exercise, len(pool))
	for _, exercise := range pool {
		byID[exercise.ID] = exercise
	}
	session.ready(p, byID)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// Session looks up an open logging session.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DropSession abandons a session without saving.
func (s *Service) DropSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// SaveSession records the given inputs and persists the session. Every stat
// record is written independently; when some writes fail the successful ones
// are kept and a [SaveError] names the failed records so that the client can
// retry just those.
func (s *Service) SaveSession(ctx context.Context, sessionID string, records []SetInput) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err = session.Record(record.ExerciseID, record.SetNumber, record.Input); err != nil {
			return fmt.Errorf("record set: %w", err)
		}
	}

	userID := contexthelpers.AuthenticatedUserID(ctx)
	date := time.Now().UTC().Format(dateFormat)

	stats, err := session.beginSave(userID, date)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		failed   []Stat
		failures []FailedRecord
	)
	var g errgroup.Group
	for _, stat := range stats {
		g.Go(func() error {
			if writeErr := s.repo.stats.Create(ctx, stat); writeErr != nil {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "stat record write failed",
					slog.String("exercise_id", stat.ExerciseID),
					slog.Int("set_number", stat.SetNumber),
					errors.SlogError(writeErr))
				mu.Lock()
				failed = append(failed, stat)
				failures = append(failures, FailedRecord{
					ExerciseID: stat.ExerciseID,
					SetNumber:  stat.SetNumber,
					Reason:     writeErr.Error(),
				})
				mu.Unlock()
			}
			return nil
		})
	}
	// The goroutines report failures through the shared slice, never as
	// errors, so that one bad record does not cancel the rest.
	_ = g.Wait()

	if len(failed) > 0 {
		session.finishSave(failed)
		return &SaveError{Failed: failures}
	}

	if session.needsHeader() {
		logged := LoggedWorkout{
			ID:              uuid.NewString(),
			UserID:          userID,
			PlanID:          session.PlanID,
			Date:            date,
			DurationSeconds: int(session.Duration().Seconds()),
		}
		if err = s.repo.workouts.Create(ctx, logged); err != nil {
			session.releaseHeader()
			session.failSave()
			return fmt.Errorf("save logged workout: %w", err)
		}
	}

	// Completing the scheduled workout is best effort: the numbers are saved
	// even when the schedule update fails.
	if err = s.schedules.CompleteFor(ctx, session.PlanID, date); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "schedule completion failed",
			slog.String("plan_id", session.PlanID), errors.SlogError(err))
	}

	session.finishSave(nil)
	s.DropSession(sessionID)
	return nil
}

// LastPerformance returns the most recent set matching the prescription, for
// prefilling the input form. It returns [ErrNoHistory] for a first-timer.
func (s *Service) LastPerformance(ctx context.Context, exerciseID string, reps, setNumber int) (Stat, error) {
	stat, err := s.repo.stats.LastMatching(ctx, exerciseID, reps, setNumber)
	if err != nil {
		return Stat{}, fmt.Errorf("last performance: %w", err)
	}
	return stat, nil
}

// ExerciseSummary aggregates the user's history with one exercise. The bool
// is false when there is nothing logged yet.
func (s *Service) ExerciseSummary(ctx context.Context, exerciseID string) (Summary, bool, error) {
	records, err := s.repo.stats.ListByExercise(ctx, exerciseID)
	if err != nil {
		return Summary{}, false, fmt.Errorf("list exercise stats: %w", err)
	}
	summary, ok := ComputeStats(records)
	return summary, ok, nil
}

// Progress returns the day-by-day progress chart data for one exercise.
func (s *Service) Progress(ctx context.Context, exerciseID string) ([]SeriesPoint, error) {
	records, err := s.repo.stats.ListByExercise(ctx, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("list exercise stats: %w", err)
	}
	return ProgressSeries(records), nil
}

// History lists the user's logged workouts, newest first.
func (s *Service) History(ctx context.Context) ([]LoggedWorkout, error) {
	workouts, err := s.repo.workouts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logged workouts: %w", err)
	}
	return workouts, nil
}
