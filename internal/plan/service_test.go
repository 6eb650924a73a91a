package plan_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/sqlite"
	"github.com/lnikula/lifttrack/internal/testhelpers"
)

// Fixture exercise ids from the seeded catalog.
const (
	benchPressID = "6f1d41f2-9300-4b2c-8f6a-2f8a1d5b0c03"
	overheadID   = "6f1d41f2-9300-4b2c-8f6a-2f8a1d5b0c04"
	pullUpID     = "6f1d41f2-9300-4b2c-8f6a-2f8a1d5b0c05"
)

func newTestService(t *testing.T) (*plan.Service, context.Context) {
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

	ctx := contexthelpers.SetAuthenticatedUserID(t.Context(), userID)
	return plan.NewService(db, logger, catalog.NewService(db, logger, "")), ctx
}

func benchAndSupersetPlan() plan.WorkoutPlan {
	return plan.WorkoutPlan{
		Name:         "Push Day",
		Instructions: "## Warmup\n\nFive minutes of rowing.",
		Groups: []plan.SetGroup{
			{Kind: plan.KindRegular, Entries: []plan.SetEntry{
				{ExerciseID: benchPressID, Sets: 4, Reps: 8},
			}},
			{Kind: plan.KindSuperset, Rounds: 2, Entries: []plan.SetEntry{
				{ExerciseID: overheadID, Reps: 10},
				{ExerciseID: pullUpID, Reps: 8},
			}},
		},
	}
}

func TestServiceCreateGetUpdateDelete(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, benchAndSupersetPlan())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedDate == "" {
		t.Fatalf("expected id and created date to be set, got %+v", created)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(created.Groups, got.Groups); diff != "" {
		t.Errorf("groups round trip mismatch (-want +got):\n%s", diff)
	}

	got.Name = "Push Day v2"
	got.Groups, err = plan.UpdateEntry(got.Groups, 0, 0, func(entry *plan.SetEntry) { entry.Reps = 5 })
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	updated, err := svc.Update(ctx, got)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Push Day v2" || updated.Groups[0].Entries[0].Reps != 5 {
		t.Errorf("update not persisted: %+v", updated)
	}

	plans, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}

	if err = svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err = svc.Get(ctx, created.ID); !errors.Is(err, plan.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	p := benchAndSupersetPlan()
	p.Name = ""
	if _, err := svc.Create(ctx, p); err == nil {
		t.Error("expected error for empty plan name")
	}

	p = benchAndSupersetPlan()
	p.Groups[1].Entries = p.Groups[1].Entries[:1]
	if _, err := svc.Create(ctx, p); err == nil {
		t.Error("expected error for single-exercise superset")
	}
}

func TestServiceIsolatesUsers(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, benchAndSupersetPlan())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	otherCtx := contexthelpers.SetAuthenticatedUserID(t.Context(), "someone-else")
	if _, err = svc.Get(otherCtx, created.ID); !errors.Is(err, plan.ErrNotFound) {
		t.Errorf("Get as other user: got %v, want ErrNotFound", err)
	}
}

func TestServiceSummarize(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, benchAndSupersetPlan())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	summary, err := svc.Summarize(ctx, created.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	// 4 straight sets plus 2 rounds of 2 exercises, at 2 minutes per set.
	if summary.DurationMinutes != 16 {
		t.Errorf("DurationMinutes = %d, want 16", summary.DurationMinutes)
	}
	want := []string{"Barbell", "Bench", "Pull Up Bar"}
	if diff := cmp.Diff(want, summary.Equipment); diff != "" {
		t.Errorf("Equipment mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceGenerate(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	generated, err := svc.Generate(ctx, plan.Params{DurationMinutes: 45, RepRange: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if generated.ID != "" {
		t.Error("generated plan should not be persisted")
	}
	if len(generated.Groups) == 0 {
		t.Fatal("expected generated plan to have groups")
	}

	saved, err := svc.Create(ctx, generated)
	if err != nil {
		t.Fatalf("Create generated plan: %v", err)
	}

	swapped, err := svc.SwapExercise(ctx, saved.ID, 0, 0, catalog.Filter{})
	if err != nil {
		t.Fatalf("SwapExercise: %v", err)
	}
	if swapped.Groups[0].Entries[0].ExerciseID == saved.Groups[0].Entries[0].ExerciseID {
		t.Error("expected swap to pick a different exercise")
	}
}
