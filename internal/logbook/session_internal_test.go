package logbook

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/testhelpers"
)

type fakeStatsRepo struct {
	mu      sync.Mutex
	created []Stat
	// failing set records are rejected with an error until cleared.
	failing map[string]bool
}

func statKey(exerciseID string, setNumber int) string {
	return fmt.Sprintf("%s/%d", exerciseID, setNumber)
}

func (f *fakeStatsRepo) Create(_ context.Context, stat Stat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[statKey(stat.ExerciseID, stat.SetNumber)] {
		return errors.New("disk full")
	}
	f.created = append(f.created, stat)
	return nil
}

func (f *fakeStatsRepo) ListByExercise(_ context.Context, exerciseID string) ([]Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats []Stat
	for _, stat := range f.created {
		if stat.ExerciseID == exerciseID {
			stats = append(stats, stat)
		}
	}
	return stats, nil
}

func (f *fakeStatsRepo) LastMatching(_ context.Context, _ string, _, _ int) (Stat, error) {
	return Stat{}, ErrNoHistory
}

type fakeWorkoutsRepo struct {
	mu      sync.Mutex
	created []LoggedWorkout
}

func (f *fakeWorkoutsRepo) Create(_ context.Context, logged LoggedWorkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, logged)
	return nil
}

func (f *fakeWorkoutsRepo) List(_ context.Context) ([]LoggedWorkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, nil
}

type fakeSchedules struct {
	mu        sync.Mutex
	completed []string
}

func (f *fakeSchedules) CompleteFor(_ context.Context, planID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, planID+"@"+date)
	return nil
}

func testSessionPlan() (plan.WorkoutPlan, map[string]catalog.Exercise) {
	p := plan.WorkoutPlan{
		ID:   "plan-1",
		Name: "Full Body",
		Groups: []plan.SetGroup{
			{Kind: plan.KindRegular, Entries: []plan.SetEntry{
				{ExerciseID: "squat", Sets: 3, Reps: 10},
			}},
			{Kind: plan.KindSuperset, Rounds: 2, Entries: []plan.SetEntry{
				{ExerciseID: "bench", Reps: 10},
				{ExerciseID: "plank", TimeSeconds: 30},
			}},
		},
	}
	exercises := map[string]catalog.Exercise{
		"squat": {ID: "squat", HasWeight: true},
		"bench": {ID: "bench", HasWeight: true},
		"plank": {ID: "plank", Timed: true},
	}
	return p, exercises
}

func newFakeService(t *testing.T) (*Service, *fakeStatsRepo, *fakeWorkoutsRepo, *fakeSchedules, *Session) {
	t.Helper()
	stats := &fakeStatsRepo{failing: make(map[string]bool)}
	workouts := &fakeWorkoutsRepo{}
	schedules := &fakeSchedules{}
	svc := &Service{
		repo:      &repository{stats: stats, workouts: workouts},
		logger:    testhelpers.NewLogger(testhelpers.NewWriter(t)),
		schedules: schedules,
		sessions:  make(map[string]*Session),
	}
	session := newSession("session-1")
	p, exercises := testSessionPlan()
	session.ready(p, exercises)
	svc.sessions[session.ID] = session
	return svc, stats, workouts, schedules, session
}

func TestExpandSkipsEmptySets(t *testing.T) {
	t.Parallel()

	session := newSession("s")
	p, exercises := testSessionPlan()
	session.ready(p, exercises)

	inputs := []struct {
		exerciseID string
		setNumber  int
		in         Input
	}{
		{"squat", 1, Input{Reps: 10, Weight: 100}},
		{"squat", 2, Input{Reps: 8, Weight: 100}},
		// Set 3 left blank.
		{"bench", 1, Input{Reps: 10, Weight: 60}},
		{"plank", 1, Input{TimeSeconds: 45}},
	}
	for _, in := range inputs {
		if err := session.Record(in.exerciseID, in.setNumber, in.in); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	stats, err := session.beginSave("user-1", "2026-08-28")
	if err != nil {
		t.Fatalf("beginSave: %v", err)
	}

	byKey := make(map[string]Stat)
	for _, stat := range stats {
		byKey[statKey(stat.ExerciseID, stat.SetNumber)] = stat
	}
	if len(byKey) != 4 {
		t.Fatalf("got %d stat records, want 4: %+v", len(byKey), stats)
	}
	if _, ok := byKey["squat/3"]; ok {
		t.Error("blank set produced a record")
	}

	// Squat volume counts the set count of the group: 10 reps * 100 kg * 3 sets.
	squat := byKey["squat/1"]
	if squat.Volume != 3000 || squat.Metric != 1000 {
		t.Errorf("squat volume/metric = %v/%v, want 3000/1000", squat.Volume, squat.Metric)
	}

	// Bench is in a 2-round superset: 10 * 60 * 2.
	bench := byKey["bench/1"]
	if bench.Volume != 1200 {
		t.Errorf("bench volume = %v, want 1200", bench.Volume)
	}

	// Timed exercise: 45 s * 2 rounds.
	plank := byKey["plank/1"]
	if plank.Volume != 90 || plank.Metric != 45 {
		t.Errorf("plank volume/metric = %v/%v, want 90/45", plank.Volume, plank.Metric)
	}
}

func TestSessionStateMachine(t *testing.T) {
	t.Parallel()

	session := newSession("s")
	if got := session.State(); got != StateLoading {
		t.Errorf("new session state = %q, want loading", got)
	}
	if err := session.Record("squat", 1, Input{Reps: 5}); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("Record while loading: got %v, want ErrSessionBusy", err)
	}

	p, exercises := testSessionPlan()
	session.ready(p, exercises)
	if got := session.State(); got != StateReady {
		t.Errorf("state after ready = %q, want ready", got)
	}

	if _, err := session.beginSave("u", "2026-08-28"); err != nil {
		t.Fatalf("beginSave: %v", err)
	}
	if got := session.State(); got != StateSaving {
		t.Errorf("state after beginSave = %q, want saving", got)
	}
	if err := session.Record("squat", 1, Input{Reps: 5}); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("Record while saving: got %v, want ErrSessionBusy", err)
	}

	session.finishSave(nil)
	if got := session.State(); got != StateDone {
		t.Errorf("state after clean save = %q, want done", got)
	}
}

func TestSaveSession(t *testing.T) {
	t.Parallel()
	svc, stats, workouts, schedules, session := newFakeService(t)
	ctx := contexthelpers.SetAuthenticatedUserID(t.Context(), "user-1")

	records := []SetInput{
		{ExerciseID: "squat", SetNumber: 1, Input: Input{Reps: 10, Weight: 100}},
		{ExerciseID: "bench", SetNumber: 1, Input: Input{Reps: 10, Weight: 60}},
	}
	if err := svc.SaveSession(ctx, session.ID, records); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	if len(stats.created) != 2 {
		t.Errorf("got %d stat records, want 2", len(stats.created))
	}
	if len(workouts.created) != 1 {
		t.Fatalf("got %d logged workouts, want 1", len(workouts.created))
	}
	if workouts.created[0].PlanID != "plan-1" || workouts.created[0].UserID != "user-1" {
		t.Errorf("unexpected logged workout: %+v", workouts.created[0])
	}
	if len(schedules.completed) != 1 {
		t.Errorf("expected schedule completion, got %v", schedules.completed)
	}

	// The session is gone once it is done.
	if _, err := svc.Session(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session after save: got %v, want ErrSessionNotFound", err)
	}
}

func TestSaveSessionPartialFailure(t *testing.T) {
	t.Parallel()
	svc, stats, workouts, _, session := newFakeService(t)
	ctx := contexthelpers.SetAuthenticatedUserID(t.Context(), "user-1")

	stats.failing[statKey("bench", 1)] = true

	records := []SetInput{
		{ExerciseID: "squat", SetNumber: 1, Input: Input{Reps: 10, Weight: 100}},
		{ExerciseID: "bench", SetNumber: 1, Input: Input{Reps: 10, Weight: 60}},
	}
	err := svc.SaveSession(ctx, session.ID, records)

	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("SaveSession: got %v, want *SaveError", err)
	}
	want := []FailedRecord{{ExerciseID: "bench", SetNumber: 1, Reason: "disk full"}}
	if diff := cmp.Diff(want, saveErr.Failed); diff != "" {
		t.Errorf("failed records mismatch (-want +got):\n%s", diff)
	}

	// The squat record went through and must not be written again.
	if len(stats.created) != 1 || stats.created[0].ExerciseID != "squat" {
		t.Fatalf("unexpected created stats: %+v", stats.created)
	}
	if len(workouts.created) != 0 {
		t.Error("workout header written despite failed records")
	}
	if got := session.State(); got != StateFailed {
		t.Errorf("state after partial failure = %q, want failed", got)
	}

	// Retry succeeds once the fault clears and writes only the failed record.
	delete(stats.failing, statKey("bench", 1))
	if err = svc.SaveSession(ctx, session.ID, nil); err != nil {
		t.Fatalf("retry SaveSession: %v", err)
	}
	if len(stats.created) != 2 {
		t.Errorf("got %d stat records after retry, want 2", len(stats.created))
	}
	if len(workouts.created) != 1 {
		t.Errorf("got %d logged workouts after retry, want 1", len(workouts.created))
	}
}
