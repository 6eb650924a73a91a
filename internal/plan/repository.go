package plan

import (
	"context"
	"log/slog"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrNotFound is returned when a plan does not exist or belongs to another user.
var ErrNotFound = errors.NewSentinel("workout plan not found")

type planRepository interface {
	Get(ctx context.Context, id string) (WorkoutPlan, error)
	List(ctx context.Context) ([]WorkoutPlan, error)
	Create(ctx context.Context, p WorkoutPlan) error
	Update(ctx context.Context, p WorkoutPlan) error
	Delete(ctx context.Context, id string) error
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

type repository struct {
	plans planRepository
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
		plans: newSQLitePlanRepository(f.db, f.logger),
	}
}
