package logbook

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrNoHistory is returned when the user has no matching stat records.
var ErrNoHistory = errors.NewSentinel("no logged sets for this exercise")

type statsRepository interface {
	Create(ctx context.Context, stat Stat) error
	ListByExercise(ctx context.Context, exerciseID string) ([]Stat, error)
	LastMatching(ctx context.Context, exerciseID string, reps, setNumber int) (Stat, error)
}

type loggedWorkoutRepository interface {
	Create(ctx context.Context, logged LoggedWorkout) error
	List(ctx context.Context) ([]LoggedWorkout, error)
}

type repository struct {
	stats    statsRepository
	workouts loggedWorkoutRepository
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
		stats:    &sqliteStatsRepository{db: f.db, logger: f.logger},
		workouts: &sqliteLoggedWorkoutRepository{db: f.db, logger: f.logger},
	}
}

// sqliteStatsRepository implements statsRepository.
type sqliteStatsRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func (r *sqliteStatsRepository) Create(ctx context.Context, stat Stat) error {
	if stat.ID == "" {
		stat.ID = uuid.NewString()
	}
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercise_stats (
			id, user_id, exercise_id, set_number, reps, weight, time_seconds,
			volume, metric, stat_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stat.ID, stat.UserID, stat.ExerciseID, stat.SetNumber,
		stat.Reps, stat.Weight, stat.TimeSeconds, stat.Volume, stat.Metric, stat.Date)
	if err != nil {
		return fmt.Errorf("insert exercise stat: %w", err)
	}
	return nil
}

func (r *sqliteStatsRepository) ListByExercise(ctx context.Context, exerciseID string) (_ []Stat, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, exercise_id, set_number, reps, weight, time_seconds,
		       volume, metric, stat_date
		FROM exercise_stats
		WHERE user_id = ? AND exercise_id = ?`, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query exercise stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var stats []Stat
	for rows.Next() {
		var stat Stat
		if err = rows.Scan(
			&stat.ID, &stat.UserID, &stat.ExerciseID, &stat.SetNumber,
			&stat.Reps, &stat.Weight, &stat.TimeSeconds, &stat.Volume, &stat.Metric, &stat.Date,
		); err != nil {
			return nil, fmt.Errorf("scan exercise stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return stats, nil
}

// LastMatching finds the most recent set with the same prescription, used to
// prefill the input form with last time's weight.
func (r *sqliteStatsRepository) LastMatching(
	ctx context.Context,
	exerciseID string,
	reps, setNumber int,
) (Stat, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var stat Stat
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, exercise_id, set_number, reps, weight, time_seconds,
		       volume, metric, stat_date
		FROM exercise_stats
		WHERE user_id = ? AND exercise_id = ? AND reps = ? AND set_number = ?
		ORDER BY stat_date DESC
		LIMIT 1`, userID, exerciseID, reps, setNumber).Scan(
		&stat.ID, &stat.UserID, &stat.ExerciseID, &stat.SetNumber,
		&stat.Reps, &stat.Weight, &stat.TimeSeconds, &stat.Volume, &stat.Metric, &stat.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return Stat{}, ErrNoHistory
	}
	if err != nil {
		return Stat{}, fmt.Errorf("query last matching stat: %w", err)
	}
	return stat, nil
}

// sqliteLoggedWorkoutRepository implements loggedWorkoutRepository.
type sqliteLoggedWorkoutRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func (r *sqliteLoggedWorkoutRepository) Create(ctx context.Context, logged LoggedWorkout) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO logged_workouts (id, user_id, plan_id, workout_date, duration_seconds)
		VALUES (?, ?, ?, ?, ?)`,
		logged.ID, logged.UserID, logged.PlanID, logged.Date, logged.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert logged workout: %w", err)
	}
	return nil
}

func (r *sqliteLoggedWorkoutRepository) List(ctx context.Context) (_ []LoggedWorkout, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, plan_id, workout_date, duration_seconds
		FROM logged_workouts
		WHERE user_id = ?
		ORDER BY workout_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query logged workouts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var workouts []LoggedWorkout
	for rows.Next() {
		var logged LoggedWorkout
		if err = rows.Scan(&logged.ID, &logged.UserID, &logged.PlanID,
			&logged.Date, &logged.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan logged workout: %w", err)
		}
		workouts = append(workouts, logged)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return workouts, nil
}
