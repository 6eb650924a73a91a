// Package logbook records performed workouts. A logging session collects the
// numbers the user enters set by set, expands them into per-set stat records
// and persists everything in one go.
package logbook

import (
	"fmt"
	"strings"
)

// Input is what the user enters for a single performed set. Timed exercises
// fill TimeSeconds instead of Reps. A zero Input means the set was skipped.
type Input struct {
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	TimeSeconds int     `json:"timeSeconds"`
}

// empty reports whether the set was left blank and should not be recorded.
func (in Input) empty() bool {
	return in.Reps == 0 && in.TimeSeconds == 0
}

// Stat is one persisted set record.
type Stat struct {
	ID          string  `json:"id"`
	UserID      string  `json:"-"`
	ExerciseID  string  `json:"exerciseId"`
	SetNumber   int     `json:"setNumber"`
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	TimeSeconds int     `json:"timeSeconds"`
	Volume      float64 `json:"volume"`
	Metric      float64 `json:"metric"`
	Date        string  `json:"date"`
}

// LoggedWorkout is the header row of one performed workout.
type LoggedWorkout struct {
	ID              string `json:"id"`
	UserID          string `json:"-"`
	PlanID          string `json:"planId"`
	Date            string `json:"date"`
	DurationSeconds int    `json:"durationSeconds"`
}

// FailedRecord identifies a stat record that could not be written.
type FailedRecord struct {
	ExerciseID string `json:"exerciseId"`
	SetNumber  int    `json:"setNumber"`
	Reason     string `json:"reason"`
}

// SaveError reports a partially failed save. The records that did go through
// are not rolled back; the caller retries the failed subset.
type SaveError struct {
	Failed []FailedRecord
}

func (e *SaveError) Error() string {
	var sb strings.Builder
	sb.WriteString("save incomplete, failed records:")
	for _, failed := range e.Failed {
		fmt.Fprintf(&sb, " %s/set%d", failed.ExerciseID, failed.SetNumber)
	}
	return sb.String()
}
