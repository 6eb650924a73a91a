package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrNotFound is returned when the scheduled workout does not exist.
var ErrNotFound = errors.NewSentinel("scheduled workout not found")

type scheduleRepository interface {
	Create(ctx context.Context, scheduled ScheduledWorkout) error
	Get(ctx context.Context, id string) (ScheduledWorkout, error)
	ListRange(ctx context.Context, from, to string) ([]ScheduledWorkout, error)
	ExistsOnDate(ctx context.Context, date string) (bool, error)
	MarkCompleted(ctx context.Context, id string) error
	MarkCompletedFor(ctx context.Context, planID, date string) error
}

type repository struct {
	schedules scheduleRepository
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		schedules: &sqliteScheduleRepository{db: f.db, logger: f.logger},
	}
}

// sqliteScheduleRepository implements scheduleRepository.
type sqliteScheduleRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func (r *sqliteScheduleRepository) Create(ctx context.Context, scheduled ScheduledWorkout) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO scheduled_workouts (id, user_id, plan_id, workout_date, completed)
		VALUES (?, ?, ?, ?, 0)`,
		scheduled.ID, scheduled.UserID, scheduled.PlanID, scheduled.Date)
	if err != nil {
		return fmt.Errorf("insert scheduled workout: %w", err)
	}
	return nil
}

func (r *sqliteScheduleRepository) Get(ctx context.Context, id string) (ScheduledWorkout, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var (
		scheduled ScheduledWorkout
		completed int
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, plan_id, workout_date, completed
		FROM scheduled_workouts
		WHERE id = ? AND user_id = ?`, id, userID).Scan(
		&scheduled.ID, &scheduled.UserID, &scheduled.PlanID, &scheduled.Date, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return ScheduledWorkout{}, ErrNotFound
	}
	if err != nil {
		return ScheduledWorkout{}, fmt.Errorf("query scheduled workout: %w", err)
	}
	scheduled.Completed = completed == 1
	return scheduled, nil
}

func (r *sqliteScheduleRepository) ListRange(ctx context.Context, from, to string) (_ []ScheduledWorkout, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, plan_id, workout_date, completed
		FROM scheduled_workouts
		WHERE user_id = ? AND workout_date >= ? AND workout_date <= ?
		ORDER BY workout_date`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query scheduled workouts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var scheduled []ScheduledWorkout
	for rows.Next() {
		var (
			s         ScheduledWorkout
			completed int
		)
		if err = rows.Scan(&s.ID, &s.UserID, &s.PlanID, &s.Date, &completed); err != nil {
			return nil, fmt.Errorf("scan scheduled workout: %w", err)
		}
		s.Completed = completed == 1
		scheduled = append(scheduled, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return scheduled, nil
}

func (r *sqliteScheduleRepository) ExistsOnDate(ctx context.Context, date string) (bool, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var count int
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT count(*) FROM scheduled_workouts
		WHERE user_id = ? AND workout_date = ?`, userID, date).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query scheduled workout count: %w", err)
	}
	return count > 0, nil
}

func (r *sqliteScheduleRepository) MarkCompleted(ctx context.Context, id string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE scheduled_workouts SET completed = 1
		WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark scheduled workout completed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompletedFor completes the scheduled workout matching plan and date, if
// any. Logging a workout that was never scheduled is not an error.
func (r *sqliteScheduleRepository) MarkCompletedFor(ctx context.Context, planID, date string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE scheduled_workouts SET completed = 1
		WHERE user_id = ? AND plan_id = ? AND workout_date = ?`, userID, planID, date)
	if err != nil {
		return fmt.Errorf("mark scheduled workout completed: %w", err)
	}
	return nil
}
