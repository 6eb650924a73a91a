package logbook_test

import (
	"context"
	"testing"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/logbook"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/schedule"
	"github.com/lnikula/lifttrack/internal/sqlite"
	"github.com/lnikula/lifttrack/internal/testhelpers"
)

const benchPressID = "6f1d41f2-9300-4b2c-8f6a-2f8a1d5b0c03"

func newTestStack(t *testing.T) (*logbook.Service, *plan.Service, context.Context) {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	userID := "test-user-id"
	if _, err = db.ReadWrite.ExecContext(t.Context(),
		"INSERT INTO users (id, display_name) VALUES (?, ?)", userID, "Test User"); err != nil {
		t.Fatalf("insert test user: %v", err)
	}

	exercises := catalog.NewService(db, logger, "")
	plans := plan.NewService(db, logger, exercises)
	schedules := schedule.NewService(db, logger)
	logs := logbook.NewService(db, logger, plans, exercises, schedules)

	ctx := contexthelpers.SetAuthenticatedUserID(t.Context(), userID)
	return logs, plans, ctx
}

func TestLogWorkoutEndToEnd(t *testing.T) {
	t.Parallel()
	logs, plans, ctx := newTestStack(t)

	created, err := plans.Create(ctx, plan.WorkoutPlan{
		Name: "Bench Day",
		Groups: []plan.SetGroup{
			{Kind: plan.KindRegular, Entries: []plan.SetEntry{
				{ExerciseID: benchPressID, Sets: 3, Reps: 8},
			}},
		},
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	session, err := logs.StartSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if session.State() != logbook.StateReady {
		t.Fatalf("session state = %q, want ready", session.State())
	}

	err = logs.SaveSession(ctx, session.ID, []logbook.SetInput{
		{ExerciseID: benchPressID, SetNumber: 1, Input: logbook.Input{Reps: 8, Weight: 80}},
		{ExerciseID: benchPressID, SetNumber: 2, Input: logbook.Input{Reps: 8, Weight: 80}},
		{ExerciseID: benchPressID, SetNumber: 3, Input: logbook.Input{Reps: 6, Weight: 80}},
	})
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	summary, ok, err := logs.ExerciseSummary(ctx, benchPressID)
	if err != nil {
		t.Fatalf("ExerciseSummary: %v", err)
	}
	if !ok {
		t.Fatal("expected history after save")
	}
	if summary.MaxWeight != 80 {
		t.Errorf("MaxWeight = %v, want 80", summary.MaxWeight)
	}
	// 8 reps * 80 kg * 3 sets.
	if summary.MaxVolume != 1920 {
		t.Errorf("MaxVolume = %v, want 1920", summary.MaxVolume)
	}

	last, err := logs.LastPerformance(ctx, benchPressID, 8, 2)
	if err != nil {
		t.Fatalf("LastPerformance: %v", err)
	}
	if last.Weight != 80 {
		t.Errorf("last weight = %v, want 80", last.Weight)
	}

	history, err := logs.History(ctx)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].PlanID != created.ID {
		t.Errorf("unexpected history: %+v", history)
	}

	series, err := logs.Progress(ctx, benchPressID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if len(series) != 1 || series[0].BestMetric != 640 {
		t.Errorf("unexpected progress series: %+v", series)
	}
}

func TestLastPerformanceNoHistory(t *testing.T) {
	t.Parallel()
	logs, _, ctx := newTestStack(t)

	if _, err := logs.LastPerformance(ctx, benchPressID, 8, 1); !errors.Is(err, logbook.ErrNoHistory) {
		t.Errorf("LastPerformance: got %v, want ErrNoHistory", err)
	}
}

func TestStartSessionUnknownPlan(t *testing.T) {
	t.Parallel()
	logs, _, ctx := newTestStack(t)

	if _, err := logs.StartSession(ctx, "no-such-plan"); !errors.Is(err, plan.ErrNotFound) {
		t.Errorf("StartSession: got %v, want plan.ErrNotFound", err)
	}
}
