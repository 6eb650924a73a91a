package plan

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
	"github.com/lnikula/lifttrack/internal/sqlite"
)

const dateFormat = time.DateOnly

// exerciseSource is the slice of the catalog the plan service needs.
type exerciseSource interface {
	Get(ctx context.Context, id string) (catalog.Exercise, error)
	List(ctx context.Context, filter catalog.Filter) ([]catalog.Exercise, error)
}

// Service handles the business logic for workout plan management.
type Service struct {
	repo      *repository
	logger    *slog.Logger
	exercises exerciseSource
}

// NewService creates a new plan service.
func NewService(db *sqlite.Database, logger *slog.Logger, exercises exerciseSource) *Service {
	return &Service{
		repo:      newRepositoryFactory(db, logger).newRepository(),
		logger:    logger,
		exercises: exercises,
	}
}

// Create validates and stores a new plan for the authenticated user.
func (s *Service) Create(ctx context.Context, p WorkoutPlan) (WorkoutPlan, error) {
	if err := Validate(p); err != nil {
		return WorkoutPlan{}, fmt.Errorf("validate plan: %w", err)
	}
	p.ID = uuid.NewString()
	p.UserID = contexthelpers.AuthenticatedUserID(ctx)
	p.CreatedDate = time.Now().UTC().Format(dateFormat)
	if err := s.repo.plans.Create(ctx, p); err != nil {
		return WorkoutPlan{}, fmt.Errorf("create plan: %w", err)
	}
	return p, nil
}

// Get retrieves one of the user's plans.
func (s *Service) Get(ctx context.Context, id string) (WorkoutPlan, error) {
	p, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// List returns the user's plans, newest first.
func (s *Service) List(ctx context.Context) ([]WorkoutPlan, error) {
	plans, err := s.repo.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// Update validates and saves changes to an existing plan.
func (s *Service) Update(ctx context.Context, p WorkoutPlan) (WorkoutPlan, error) {
	if err := Validate(p); err != nil {
		return WorkoutPlan{}, fmt.Errorf("validate plan: %w", err)
	}
	if err := s.repo.plans.Update(ctx, p); err != nil {
		return WorkoutPlan{}, fmt.Errorf("update plan: %w", err)
	}
	return s.Get(ctx, p.ID)
}

// Delete removes one of the user's plans.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// Generate builds a new unsaved plan from the catalog. The caller reviews it
// and saves it with [Service.Create].
func (s *Service) Generate(ctx context.Context, params Params) (WorkoutPlan, error) {
	pool, err := s.exercises.List(ctx, catalog.Filter{})
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("load exercise pool: %w", err)
	}
	groups, err := NewGenerator(pool, nil).Generate(params)
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("generate plan: %w", err)
	}
	return WorkoutPlan{
		Name:        "Generated workout",
		CreatedDate: time.Now().UTC().Format(dateFormat),
		Groups:      groups,
	}, nil
}

// SwapExercise replaces one exercise in a saved plan with a fresh draw and
// persists the result.
func (s *Service) SwapExercise(
	ctx context.Context,
	planID string,
	groupIndex, entryIndex int,
	filter catalog.Filter,
) (WorkoutPlan, error) {
	p, err := s.repo.plans.Get(ctx, planID)
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("get plan: %w", err)
	}
	pool, err := s.exercises.List(ctx, catalog.Filter{})
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("load exercise pool: %w", err)
	}
	p.Groups, err = NewGenerator(pool, nil).Swap(p.Groups, groupIndex, entryIndex, filter)
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("swap exercise: %w", err)
	}
	if err = s.repo.plans.Update(ctx, p); err != nil {
		return WorkoutPlan{}, fmt.Errorf("save swapped plan: %w", err)
	}
	return p, nil
}

// Summary describes a plan at a glance.
type Summary struct {
	DurationMinutes int      `json:"durationMinutes"`
	Equipment       []string `json:"equipment"`
}

// Summarize estimates the plan's duration and collects the equipment it
// needs. Exercise details are fetched concurrently.
func (s *Service) Summarize(ctx context.Context, planID string) (Summary, error) {
	p, err := s.repo.plans.Get(ctx, planID)
	if err != nil {
		return Summary{}, fmt.Errorf("get plan: %w", err)
	}

	byID, err := s.fetchExercises(ctx, p)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch exercises: %w", err)
	}

	return Summary{
		DurationMinutes: EstimateDuration(p),
		Equipment:       RequiredEquipment(p, byID),
	}, nil
}

// fetchExercises loads the details of every exercise referenced by the plan.
// References to exercises that no longer exist are skipped, so a plan keeps
// its summary even after a catalog entry is removed.
func (s *Service) fetchExercises(ctx context.Context, p WorkoutPlan) (map[string]catalog.Exercise, error) {
	ids := make(map[string]bool)
	for _, group := range p.Groups {
		for _, entry := range group.Entries {
			ids[entry.ExerciseID] = true
		}
	}

	var (
		mu   sync.Mutex
		byID = make(map[string]catalog.Exercise, len(ids))
	)
	g, gctx := errgroup.WithContext(ctx)
	for id := range ids {
		g.Go(func() error {
			exercise, err := s.exercises.Get(gctx, id)
			if errors.Is(err, catalog.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get exercise %s: %w", id, err)
			}
			mu.Lock()
			byID[id] = exercise
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byID, nil
}
