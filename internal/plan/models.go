// Package plan models workout plans: ordered groups of set prescriptions
// that reference exercises from the catalog. It also contains the plan
// generator and the duration and equipment estimators.
package plan

import (
	"fmt"

	"github.com/lnikula/lifttrack/internal/errors"
)

// GroupKind distinguishes the two shapes a set group can take.
type GroupKind string

const (
	// KindRegular is a single exercise performed for a number of straight sets.
	KindRegular GroupKind = "regular"
	// KindSuperset is two or more exercises performed back to back for a
	// shared number of rounds.
	KindSuperset GroupKind = "superset"
)

// SetEntry prescribes one exercise within a group. Sets is only meaningful in
// regular groups; in supersets the round count lives on the group. Timed
// exercises use TimeSeconds instead of Reps.
type SetEntry struct {
	ExerciseID  string `json:"exerciseId"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	TimeSeconds int    `json:"timeSeconds"`
	Notes       string `json:"notes"`
}

// SetGroup is one slot in a workout plan.
type SetGroup struct {
	Kind GroupKind `json:"kind"`
	// Rounds is the shared round count of a superset. Zero for regular groups.
	Rounds  int        `json:"rounds"`
	Entries []SetEntry `json:"entries"`
}

// WorkoutPlan is a named, ordered list of set groups owned by a user.
type WorkoutPlan struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"name"`
	// Instructions is free-form markdown shown alongside the plan.
	Instructions string     `json:"instructions"`
	CreatedDate  string     `json:"createdDate"`
	Groups       []SetGroup `json:"groups"`
}

// ErrInvalid marks structural validation failures so callers can tell them
// apart from storage errors.
var ErrInvalid = errors.NewSentinel("invalid workout plan")

// Validate checks the structural invariants of a plan before it is saved.
func Validate(p WorkoutPlan) error {
	if p.Name == "" {
		return fmt.Errorf("%w: plan name cannot be empty", ErrInvalid)
	}
	for i, group := range p.Groups {
		switch group.Kind {
		case KindRegular:
			if len(group.Entries) != 1 {
				return fmt.Errorf("%w: group %d: regular group must have exactly one exercise", ErrInvalid, i)
			}
			if group.Entries[0].Sets < 1 {
				return fmt.Errorf("%w: group %d: regular group needs at least one set", ErrInvalid, i)
			}
		case KindSuperset:
			if len(group.Entries) < 2 {
				return fmt.Errorf("%w: group %d: superset needs at least two exercises", ErrInvalid, i)
			}
			if group.Rounds < 1 {
				return fmt.Errorf("%w: group %d: superset needs at least one round", ErrInvalid, i)
			}
		default:
			return fmt.Errorf("%w: group %d: unknown kind %q", ErrInvalid, i, group.Kind)
		}
		for j, entry := range group.Entries {
			if entry.ExerciseID == "" {
				return fmt.Errorf("%w: group %d entry %d: missing exercise", ErrInvalid, i, j)
			}
		}
	}
	return nil
}
