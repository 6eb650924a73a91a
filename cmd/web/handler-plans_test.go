package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/e2etest"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/testhelpers"
)

// findExercise looks up a single catalog exercise by name over the API.
func findExercise(t *testing.T, client *e2etest.Client, name string) catalog.Exercise {
	t.Helper()
	var exercises []catalog.Exercise
	status, err := client.GetJSON(t.Context(), "/api/exercises?search="+strings.ReplaceAll(name, " ", "+"), &exercises)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("list exercises status = %d", status)
	}
	for _, exercise := range exercises {
		if exercise.Name == name {
			return exercise
		}
	}
	t.Fatalf("exercise %q not found in catalog", name)
	return catalog.Exercise{}
}

func Test_application_planLifecycle(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()
	if err = client.Identify(ctx, "plan-device"); err != nil {
		t.Fatal(err)
	}

	bench := findExercise(t, client, "Bench Press")
	pullUp := findExercise(t, client, "Pull Up")
	overhead := findExercise(t, client, "Overhead Press")

	submitted := plan.WorkoutPlan{
		Name:         "Upper body",
		Instructions: "Warm up first.\n\nFinish with **stretching**.",
		Groups: []plan.SetGroup{
			{Kind: plan.KindRegular, Entries: []plan.SetEntry{{ExerciseID: bench.ID, Sets: 4, Reps: 8}}},
			{Kind: plan.KindSuperset, Rounds: 2, Entries: []plan.SetEntry{
				{ExerciseID: overhead.ID, Reps: 10},
				{ExerciseID: pullUp.ID, Reps: 6},
			}},
		},
	}
	var created plan.WorkoutPlan
	status, err := client.PostJSON(ctx, "/api/plans", submitted, &created)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusCreated {
		t.Fatalf("create plan status = %d", status)
	}
	if created.ID == "" {
		t.Fatal("expected created plan to have an id")
	}

	// Nameless plans are rejected.
	if status, err = client.PostJSON(ctx, "/api/plans", plan.WorkoutPlan{}, nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for nameless plan, got %d", status)
	}

	// Regular 4x2min + superset 2 rounds x 2 exercises x 2min.
	var summary plan.Summary
	if status, err = client.GetJSON(ctx, "/api/plans/"+created.ID+"/summary", &summary); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("summary status = %d", status)
	}
	if summary.DurationMinutes != 16 {
		t.Errorf("DurationMinutes = %d, want 16", summary.DurationMinutes)
	}
	wantEquipment := []string{"Barbell", "Bench", "Pull Up Bar"}
	if diff := cmp.Diff(wantEquipment, summary.Equipment); diff != "" {
		t.Errorf("Equipment mismatch (-want +got):\n%s", diff)
	}

	// Instructions render to HTML with the markdown formatting intact.
	doc, err := client.GetDoc(ctx, "/api/plans/"+created.ID+"/instructions.html")
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("strong").Text(); got != "stretching" {
		t.Errorf("strong text = %q, want %q", got, "stretching")
	}
	if !strings.Contains(doc.Text(), "Warm up first.") {
		t.Error("expected first paragraph in rendered instructions")
	}

	// Update renames the plan.
	created.Name = "Upper body A"
	var updated plan.WorkoutPlan
	if status, err = client.PutJSON(ctx, "/api/plans/"+created.ID, created, &updated); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK || updated.Name != "Upper body A" {
		t.Errorf("update status = %d, name = %q", status, updated.Name)
	}

	// Delete removes it.
	if status, err = client.Delete(ctx, "/api/plans/"+created.ID); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	if status, err = client.GetJSON(ctx, "/api/plans/"+created.ID, nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

func Test_application_planGenerate(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()
	if err = client.Identify(ctx, "generate-device"); err != nil {
		t.Fatal(err)
	}

	var generated plan.WorkoutPlan
	status, err := client.PostJSON(ctx, "/api/plans/generate", plan.Params{DurationMinutes: 45}, &generated)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("generate status = %d", status)
	}
	if len(generated.Groups) == 0 {
		t.Fatal("expected a generated plan with groups")
	}
	if generated.ID != "" {
		t.Error("generated plan should be unsaved")
	}

	// An unsatisfiable filter is a validation error.
	params := plan.Params{}
	params.Filter.MuscleGroups = []string{"Forearm"}
	params.Filter.Equipment = []string{"Trap Bar"}
	if status, err = client.PostJSON(ctx, "/api/plans/generate", params, nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unsatisfiable filter, got %d", status)
	}
}
