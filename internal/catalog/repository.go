package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrNotFound is returned when the requested exercise does not exist.
var ErrNotFound = errors.NewSentinel("exercise not found")

type exerciseRepository interface {
	Get(ctx context.Context, id string) (Exercise, error)
	List(ctx context.Context) ([]Exercise, error)
	Create(ctx context.Context, exercise Exercise) error
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

type repository struct {
	exercises exerciseRepository
}

type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		exercises: newSQLiteExerciseRepository(f.db, f.logger),
	}
}

// sqliteExerciseRepository implements exerciseRepository.
type sqliteExerciseRepository struct {
	baseRepository
}

func newSQLiteExerciseRepository(db *sqlite.Database, logger *slog.Logger) *sqliteExerciseRepository {
	return &sqliteExerciseRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves a single exercise by id.
func (r *sqliteExerciseRepository) Get(ctx context.Context, id string) (Exercise, error) {
	var (
		exercise  Exercise
		timed     int
		hasWeight int
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, muscle_group, category, equipment, image_url, video_url,
		       timed, has_weight, description_markdown
		FROM exercises
		WHERE id = ?`, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.Category,
		&exercise.Equipment,
		&exercise.ImageURL,
		&exercise.VideoURL,
		&timed,
		&hasWeight,
		&exercise.DescriptionMarkdown,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, ErrNotFound
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}
	exercise.Timed = timed == 1
	exercise.HasWeight = hasWeight == 1
	return exercise, nil
}

// List returns the whole catalog ordered by name.
func (r *sqliteExerciseRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, muscle_group, category, equipment, image_url, video_url,
		       timed, has_weight, description_markdown
		FROM exercises
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var (
			exercise  Exercise
			timed     int
			hasWeight int
		)
		if err = rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.Category,
			&exercise.Equipment,
			&exercise.ImageURL,
			&exercise.VideoURL,
			&timed,
			&hasWeight,
			&exercise.DescriptionMarkdown,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercise.Timed = timed == 1
		exercise.HasWeight = hasWeight == 1
		exercises = append(exercises, exercise)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return exercises, nil
}

// Create inserts a new exercise into the catalog.
func (r *sqliteExerciseRepository) Create(ctx context.Context, exercise Exercise) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercises (
			id, name, muscle_group, category, equipment, image_url, video_url,
			timed, has_weight, description_markdown
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exercise.ID,
		exercise.Name,
		exercise.MuscleGroup,
		exercise.Category,
		exercise.Equipment,
		exercise.ImageURL,
		exercise.VideoURL,
		boolToInt(exercise.Timed),
		boolToInt(exercise.HasWeight),
		exercise.DescriptionMarkdown,
	)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
