package plan

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// sqlitePlanRepository implements planRepository.
type sqlitePlanRepository struct {
	baseRepository
}

func newSQLitePlanRepository(db *sqlite.Database, logger *slog.Logger) *sqlitePlanRepository {
	return &sqlitePlanRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves a plan with its groups and entries. Plans of other users are
// reported as [ErrNotFound].
func (r *sqlitePlanRepository) Get(ctx context.Context, id string) (WorkoutPlan, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var p WorkoutPlan
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, name, instructions, created_date
		FROM workout_plans
		WHERE id = ? AND user_id = ?`, id, userID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Instructions, &p.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkoutPlan{}, ErrNotFound
	}
	if err != nil {
		return WorkoutPlan{}, fmt.Errorf("query workout plan: %w", err)
	}

	if p.Groups, err = r.fetchGroups(ctx, id); err != nil {
		return WorkoutPlan{}, fmt.Errorf("fetch set groups: %w", err)
	}
	return p, nil
}

// List returns the user's plans, newest first, with groups loaded.
func (r *sqlitePlanRepository) List(ctx context.Context) (_ []WorkoutPlan, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, name, instructions, created_date
		FROM workout_plans
		WHERE user_id = ?
		ORDER BY created_date DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query workout plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var plans []WorkoutPlan
	for rows.Next() {
		var p WorkoutPlan
		if err = rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Instructions, &p.CreatedDate); err != nil {
			return nil, fmt.Errorf("scan workout plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range plans {
		if plans[i].Groups, err = r.fetchGroups(ctx, plans[i].ID); err != nil {
			return nil, fmt.Errorf("fetch set groups for plan %s: %w", plans[i].ID, err)
		}
	}
	return plans, nil
}

// Create inserts the plan with its groups and entries in one transaction.
func (r *sqlitePlanRepository) Create(ctx context.Context, p WorkoutPlan) error {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", errors.SlogError(rollbackErr))
		}
	}(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workout_plans (id, user_id, name, instructions, created_date)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.Instructions, p.CreatedDate)
	if err != nil {
		return fmt.Errorf("insert workout plan: %w", err)
	}

	if err = insertGroups(ctx, tx, p.ID, p.Groups); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update replaces the plan's fields and rewrites its groups.
func (r *sqlitePlanRepository) Update(ctx context.Context, p WorkoutPlan) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", errors.SlogError(rollbackErr))
		}
	}(tx)

	result, err := tx.ExecContext(ctx, `
		UPDATE workout_plans
		SET name = ?, instructions = ?
		WHERE id = ? AND user_id = ?`,
		p.Name, p.Instructions, p.ID, userID)
	if err != nil {
		return fmt.Errorf("update workout plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	// Groups are few per plan, so a delete and reinsert is simpler than
	// diffing positions.
	if _, err = tx.ExecContext(ctx, `DELETE FROM set_groups WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("delete set groups: %w", err)
	}
	if err = insertGroups(ctx, tx, p.ID, p.Groups); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes the plan. Entries and groups cascade.
func (r *sqlitePlanRepository) Delete(ctx context.Context, id string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM workout_plans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete workout plan: %w", err)
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

func insertGroups(ctx context.Context, tx *sql.Tx, planID string, groups []SetGroup) error {
	for position, group := range groups {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO set_groups (plan_id, position, kind, rounds)
			VALUES (?, ?, ?, ?)`,
			planID, position, string(group.Kind), group.Rounds)
		if err != nil {
			return fmt.Errorf("insert set group: %w", err)
		}
		for entryPosition, entry := range group.Entries {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO set_entries (
					plan_id, group_position, position, exercise_id, sets, reps, time_seconds, notes
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				planID, position, entryPosition,
				entry.ExerciseID, entry.Sets, entry.Reps, entry.TimeSeconds, entry.Notes)
			if err != nil {
				return fmt.Errorf("insert set entry: %w", err)
			}
		}
	}
	return nil
}

func (r *sqlitePlanRepository) fetchGroups(ctx context.Context, planID string) (_ []SetGroup, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT g.position, g.kind, g.rounds,
		       e.exercise_id, e.sets, e.reps, e.time_seconds, e.notes
		FROM set_groups g
		JOIN set_entries e ON e.plan_id = g.plan_id AND e.group_position = g.position
		WHERE g.plan_id = ?
		ORDER BY g.position, e.position`, planID)
	if err != nil {
		return nil, fmt.Errorf("query set groups: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var (
		groups          []SetGroup
		currentPosition = -1
	)
	for rows.Next() {
		var (
			position int
			kind     string
			rounds   int
			entry    SetEntry
		)
		if err = rows.Scan(&position, &kind, &rounds,
			&entry.ExerciseID, &entry.Sets, &entry.Reps, &entry.TimeSeconds, &entry.Notes); err != nil {
			return nil, fmt.Errorf("scan set entry: %w", err)
		}
		if position != currentPosition {
			groups = append(groups, SetGroup{Kind: GroupKind(kind), Rounds: rounds})
			currentPosition = position
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return groups, nil
}
