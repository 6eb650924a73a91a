package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const optimizeInterval = time.Hour

// runDatabaseOptimizer keeps the query planner statistics fresh for long-lived
// connections. See https://www.sqlite.org/pragma.html#pragma_optimize. It runs
// until ctx is cancelled; Close cancels it and waits for it to return, so no
// statement executes against a closed pool.
func (db *Database) runDatabaseOptimizer(ctx context.Context) {
	if err := db.optimize(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
			slog.Any("error", fmt.Errorf("init optimize database: %w", err)))
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(optimizeInterval):
		}
		start := time.Now()
		if err := db.optimize(ctx, "PRAGMA optimize;"); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
				slog.Any("error", fmt.Errorf("optimize database: %w", err)))
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelInfo, "optimized database",
			slog.Duration("duration", time.Since(start)))
	}
}

func (db *Database) optimize(ctx context.Context, statement string) error {
	// Cancellation can race the timer, so re-check before touching the pool.
	if ctx.Err() != nil {
		return nil
	}
	if _, err := db.ReadWrite.ExecContext(ctx, statement); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
