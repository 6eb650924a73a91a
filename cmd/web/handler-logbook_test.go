package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/lnikula/lifttrack/internal/e2etest"
	"github.com/lnikula/lifttrack/internal/logbook"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/schedule"
	"github.com/lnikula/lifttrack/internal/testhelpers"
)

func Test_application_logWorkout(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()
	if err = client.Identify(ctx, "logbook-device"); err != nil {
		t.Fatal(err)
	}

	overhead := findExercise(t, client, "Overhead Press")

	var created plan.WorkoutPlan
	status, err := client.PostJSON(ctx, "/api/plans", plan.WorkoutPlan{
		Name: "Press day",
		Groups: []plan.SetGroup{
			{Kind: plan.KindRegular, Entries: []plan.SetEntry{{ExerciseID: overhead.ID, Sets: 3, Reps: 5}}},
		},
	}, &created)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusCreated {
		t.Fatalf("create plan status = %d", status)
	}

	// Schedule the plan for today so that saving the workout completes it.
	today := time.Now().UTC().Format(time.DateOnly)
	var scheduled schedule.ScheduledWorkout
	if status, err = client.PostJSON(ctx, "/api/schedule",
		map[string]string{"planId": created.ID, "date": today}, &scheduled); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusCreated {
		t.Fatalf("schedule status = %d", status)
	}

	// Double booking the date is rejected.
	if status, err = client.PostJSON(ctx, "/api/schedule",
		map[string]string{"planId": created.ID, "date": today}, nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for double booking, got %d", status)
	}

	var session struct {
		SessionID string `json:"sessionId"`
		State     string `json:"state"`
	}
	if status, err = client.PostJSON(ctx, "/api/logbook/sessions",
		map[string]string{"planId": created.ID}, &session); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusCreated {
		t.Fatalf("start session status = %d", status)
	}
	if session.State != "ready" {
		t.Errorf("session state = %q, want ready", session.State)
	}

	records := []logbook.SetInput{
		{ExerciseID: overhead.ID, SetNumber: 1, Input: logbook.Input{Reps: 5, Weight: 40}},
		{ExerciseID: overhead.ID, SetNumber: 2, Input: logbook.Input{Reps: 5, Weight: 40}},
		{ExerciseID: overhead.ID, SetNumber: 3, Input: logbook.Input{Reps: 4, Weight: 40}},
	}
	if status, err = client.PostJSON(ctx, "/api/logbook/sessions/save",
		map[string]any{"sessionId": session.SessionID, "records": records}, nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("save session status = %d", status)
	}

	// The scheduled workout is now completed.
	var todaysSchedule []schedule.ScheduledWorkout
	if _, err = client.GetJSON(ctx, "/api/schedule?from="+today+"&to="+today, &todaysSchedule); err != nil {
		t.Fatal(err)
	}
	if len(todaysSchedule) != 1 || !todaysSchedule[0].Completed {
		t.Errorf("expected one completed scheduled workout, got %+v", todaysSchedule)
	}

	// Stats reflect the logged sets.
	var stats struct {
		HasData bool            `json:"hasData"`
		Summary logbook.Summary `json:"summary"`
	}
	if _, err = client.GetJSON(ctx, "/api/stats/"+overhead.ID, &stats); err != nil {
		t.Fatal(err)
	}
	if !stats.HasData {
		t.Fatal("expected stats data after save")
	}
	if stats.Summary.MaxWeight != 40 {
		t.Errorf("MaxWeight = %v, want 40", stats.Summary.MaxWeight)
	}

	var series []logbook.SeriesPoint
	if _, err = client.GetJSON(ctx, "/api/stats/"+overhead.ID+"/series", &series); err != nil {
		t.Fatal(err)
	}
	if len(series) != 1 || series[0].Date != today {
		t.Errorf("expected one series point for today, got %+v", series)
	}

	// Last performance for the third set at five reps has no history, the
	// first set does.
	var last logbook.Stat
	if status, err = client.GetJSON(ctx, "/api/logbook/last?exercise="+overhead.ID+"&reps=5&set=1", &last); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK || last.Weight != 40 {
		t.Errorf("last performance status = %d, weight = %v", status, last.Weight)
	}
	if status, err = client.GetJSON(ctx, "/api/logbook/last?exercise="+overhead.ID+"&reps=5&set=3", nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unmatched history, got %d", status)
	}

	var history []logbook.LoggedWorkout
	if _, err = client.GetJSON(ctx, "/api/logbook/history", &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].PlanID != created.ID {
		t.Errorf("expected one logged workout for the plan, got %+v", history)
	}
}

func Test_application_logbookUnknownPlan(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()
	if err = client.Identify(ctx, "logbook-unknown-plan"); err != nil {
		t.Fatal(err)
	}

	status, err := client.PostJSON(ctx, "/api/logbook/sessions", map[string]string{"planId": "missing"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown plan, got %d", status)
	}
}
