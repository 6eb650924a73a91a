package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrInvalid marks rejected exercise submissions.
var ErrInvalid = errors.NewSentinel("invalid exercise")

// Service handles the business logic for the exercise library.
type Service struct {
	repo      *repository
	logger    *slog.Logger
	generator *descriptionGenerator
}

// NewService creates a new catalog service. When openaiAPIKey is empty,
// submitted exercises are stored exactly as given without generated details.
func NewService(db *sqlite.Database, logger *slog.Logger, openaiAPIKey string) *Service {
	var generator *descriptionGenerator
	if openaiAPIKey != "" {
		generator = newDescriptionGenerator(openaiAPIKey)
	}
	return &Service{
		repo:      newRepositoryFactory(db, logger).newRepository(),
		logger:    logger,
		generator: generator,
	}
}

// Get retrieves a single exercise. It returns [ErrNotFound] when the id is unknown.
func (s *Service) Get(ctx context.Context, id string) (Exercise, error) {
	exercise, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return Exercise{}, fmt.Errorf("get exercise: %w", err)
	}
	return exercise, nil
}

// List returns the exercises matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Exercise, error) {
	all, err := s.repo.exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	matched := make([]Exercise, 0, len(all))
	for _, exercise := range all {
		if filter.Matches(exercise) {
			matched = append(matched, exercise)
		}
	}
	return matched, nil
}

// Create validates and stores a new exercise. Missing details are filled in
// by the description generator when one is configured; generation failures
// fall back to storing the exercise as submitted.
func (s *Service) Create(ctx context.Context, exercise Exercise) (Exercise, error) {
	if exercise.Name == "" {
		return Exercise{}, fmt.Errorf("%w: exercise name cannot be empty", ErrInvalid)
	}
	if exercise.MuscleGroup != "" && !slices.Contains(MuscleGroups(), exercise.MuscleGroup) {
		return Exercise{}, fmt.Errorf("%w: unknown muscle group %q", ErrInvalid, exercise.MuscleGroup)
	}
	if exercise.Category != "" && !slices.Contains(Categories(), exercise.Category) {
		return Exercise{}, fmt.Errorf("%w: unknown category %q", ErrInvalid, exercise.Category)
	}

	if s.generator != nil && exercise.DescriptionMarkdown == "" {
		generated, err := s.generator.Generate(ctx, exercise.Name)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "exercise detail generation failed",
				slog.String("name", exercise.Name), errors.SlogError(err))
		} else {
			exercise = mergeGenerated(exercise, generated)
		}
	}

	exercise.ID = uuid.NewString()
	if err := s.repo.exercises.Create(ctx, exercise); err != nil {
		return Exercise{}, fmt.Errorf("create exercise: %w", err)
	}
	return exercise, nil
}

// mergeGenerated fills empty fields of submitted from generated without
// overriding anything the user chose explicitly.
func mergeGenerated(submitted, generated Exercise) Exercise {
	if submitted.MuscleGroup == "" {
		submitted.MuscleGroup = generated.MuscleGroup
	}
	if submitted.Category == "" {
		submitted.Category = generated.Category
	}
	if submitted.Equipment == "" {
		submitted.Equipment = generated.Equipment
		submitted.Timed = generated.Timed
		submitted.HasWeight = generated.HasWeight
	}
	submitted.DescriptionMarkdown = generated.DescriptionMarkdown
	return submitted
}
