package logbook

import (
	"fmt"
	"sync"
	"time"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/plan"
)

// State is the lifecycle phase of a logging session.
type State string

const (
	// StateLoading means the plan and exercise details are still being fetched.
	StateLoading State = "loading"
	// StateReady means the session accepts set inputs.
	StateReady State = "ready"
	// StateSaving means a save is in flight and inputs are frozen.
	StateSaving State = "saving"
	// StateDone means every record was written.
	StateDone State = "done"
	// StateFailed means the last save left failed records behind; only those
	// are retried.
	StateFailed State = "failed"
)

// ErrSessionBusy is returned when an operation does not fit the session's
// current state, e.g. recording inputs while a save is in flight.
var ErrSessionBusy = errors.NewSentinel("session does not accept this operation in its current state")

type inputKey struct {
	exerciseID string
	setNumber  int
}

// Session is one in-progress workout logging run. It is safe for concurrent
// use; the HTTP layer may serve the input form and the save request from
// different connections.
type Session struct {
	ID     string
	PlanID string

	mu        sync.Mutex
	state     State
	plan      plan.WorkoutPlan
	exercises map[string]catalog.Exercise
	inputs    map[inputKey]Input
	startedAt time.Time
	failed    []Stat
	// headerSaved guards the logged workout header row against being written
	// twice across retries.
	headerSaved bool
}

// newSession creates a session in the loading state. ready must be called
// once the plan and exercises are attached.
func newSession(id string) *Session {
	return &Session{
		ID:        id,
		state:     StateLoading,
		inputs:    make(map[inputKey]Input),
		startedAt: time.Now(),
	}
}

// ready attaches the loaded plan and exercise details and opens the session
// for input.
func (s *Session) ready(p plan.WorkoutPlan, exercises map[string]catalog.Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PlanID = p.ID
	s.plan = p
	s.exercises = exercises
	s.state = StateReady
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record stores the input for one set. Blank inputs overwrite earlier ones so
// that clearing a cell works.
func (s *Session) Record(exerciseID string, setNumber int, in Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady && s.state != StateFailed {
		return fmt.Errorf("record set in state %q: %w", s.state, ErrSessionBusy)
	}
	if setNumber < 1 {
		return errors.New("set number must be positive")
	}
	s.inputs[inputKey{exerciseID: exerciseID, setNumber: setNumber}] = in
	return nil
}

// beginSave freezes the session and expands the recorded inputs into stat
// records dated to date. Empty sets produce no records.
func (s *Session) beginSave(userID, date string) ([]Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateReady:
		// First save attempt expands all inputs.
	case StateFailed:
		// A retry only writes what failed before.
		s.state = StateSaving
		return s.failed, nil
	default:
		return nil, fmt.Errorf("save in state %q: %w", s.state, ErrSessionBusy)
	}
	s.state = StateSaving
	return s.expandLocked(userID, date), nil
}

// finishSave records the outcome of a save attempt.
func (s *Session) finishSave(failed []Stat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = failed
	if len(failed) > 0 {
		s.state = StateFailed
		return
	}
	s.state = StateDone
}

// failSave marks the save attempt failed without leaving stat records to
// retry, e.g. when only the workout header could not be written.
func (s *Session) failSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = nil
	s.state = StateFailed
}

// needsHeader reports whether the logged workout header still has to be
// written and reserves it for the caller.
func (s *Session) needsHeader() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headerSaved {
		return false
	}
	s.headerSaved = true
	return true
}

// releaseHeader undoes a needsHeader reservation after a failed write.
func (s *Session) releaseHeader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headerSaved = false
}

// Duration is the wall-clock time since the session started.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.startedAt)
}

// expandLocked turns the recorded inputs into stat records following the
// plan's structure. A regular group produces up to Sets records per entry, a
// superset up to Rounds records per entry. The volume of a set counts the
// whole group: reps times weight times the set count, or time times the set
// count for timed exercises.
func (s *Session) expandLocked(userID, date string) []Stat {
	var stats []Stat
	for _, group := range s.plan.Groups {
		for _, entry := range group.Entries {
			setCount := entry.Sets
			if group.Kind == plan.KindSuperset {
				setCount = group.Rounds
			}
			timed := s.exercises[entry.ExerciseID].Timed
			for setNumber := 1; setNumber <= setCount; setNumber++ {
				in, ok := s.inputs[inputKey{exerciseID: entry.ExerciseID, setNumber: setNumber}]
				if !ok || in.empty() {
					continue
				}
				stat := Stat{
					UserID:      userID,
					ExerciseID:  entry.ExerciseID,
					SetNumber:   setNumber,
					Reps:        in.Reps,
					Weight:      in.Weight,
					TimeSeconds: in.TimeSeconds,
					Date:        date,
				}
				if timed {
					stat.Volume = float64(in.TimeSeconds * setCount)
					stat.Metric = float64(in.TimeSeconds)
				} else {
					stat.Volume = float64(in.Reps) * in.Weight * float64(setCount)
					stat.Metric = float64(in.Reps) * in.Weight
				}
				stats = append(stats, stat)
			}
		}
	}
	return stats
}
