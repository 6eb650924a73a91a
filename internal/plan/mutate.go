package plan

import (
	"slices"

	"github.com/lnikula/lifttrack/internal/errors"
)

// defaultSets is the straight-set count given to entries that gain a set
// count through editing, e.g. when a superset is dissolved.
const defaultSets = 3

// ErrIndexOutOfRange is returned by the editing operations when a group or
// entry index does not exist in the plan.
var ErrIndexOutOfRange = errors.NewSentinel("group or entry index out of range")

// The editing operations below never mutate their input. They return a fresh
// group list so that callers can keep the previous version for undo.

func cloneGroups(groups []SetGroup) []SetGroup {
	cloned := make([]SetGroup, len(groups))
	for i, group := range groups {
		cloned[i] = group
		cloned[i].Entries = slices.Clone(group.Entries)
	}
	return cloned
}

// AddExercise appends an exercise to the group at groupIndex. With a
// groupIndex of -1 it creates a new regular group at the end of the plan.
func AddExercise(groups []SetGroup, groupIndex int, exerciseID string) ([]SetGroup, error) {
	if exerciseID == "" {
		return nil, errors.New("missing exercise")
	}
	next := cloneGroups(groups)
	if groupIndex == -1 {
		return append(next, SetGroup{
			Kind:    KindRegular,
			Entries: []SetEntry{{ExerciseID: exerciseID, Sets: defaultSets}},
		}), nil
	}
	if groupIndex < 0 || groupIndex >= len(next) {
		return nil, ErrIndexOutOfRange
	}
	group := &next[groupIndex]
	if group.Kind == KindRegular {
		// A regular group holds a single exercise. Adding a second one turns
		// it into a superset.
		group.Kind = KindSuperset
		group.Rounds = group.Entries[0].Sets
		for i := range group.Entries {
			group.Entries[i].Sets = 0
		}
	}
	group.Entries = append(group.Entries, SetEntry{ExerciseID: exerciseID})
	return next, nil
}

// RemoveExercise removes one entry. Groups left empty are dropped, and a
// superset left with a single exercise collapses back into a regular group.
func RemoveExercise(groups []SetGroup, groupIndex, entryIndex int) ([]SetGroup, error) {
	next := cloneGroups(groups)
	if groupIndex < 0 || groupIndex >= len(next) {
		return nil, ErrIndexOutOfRange
	}
	group := &next[groupIndex]
	if entryIndex < 0 || entryIndex >= len(group.Entries) {
		return nil, ErrIndexOutOfRange
	}
	group.Entries = slices.Delete(group.Entries, entryIndex, entryIndex+1)
	if len(group.Entries) == 0 {
		return slices.Delete(next, groupIndex, groupIndex+1), nil
	}
	if group.Kind == KindSuperset && len(group.Entries) == 1 {
		group.Kind = KindRegular
		group.Entries[0].Sets = max(group.Rounds, 1)
		group.Rounds = 0
	}
	return next, nil
}

// MoveGroup moves the group at from to position to, shifting the groups in
// between.
func MoveGroup(groups []SetGroup, from, to int) ([]SetGroup, error) {
	if from < 0 || from >= len(groups) || to < 0 || to >= len(groups) {
		return nil, ErrIndexOutOfRange
	}
	next := cloneGroups(groups)
	moved := next[from]
	next = slices.Delete(next, from, from+1)
	return slices.Insert(next, to, moved), nil
}

// ToggleSuperset switches a group between its regular and superset shapes.
// Turning a group into a superset clears the per-entry set counts and starts
// with a single shared round; turning a superset back gives every entry a set
// count derived from the round count.
func ToggleSuperset(groups []SetGroup, groupIndex int) ([]SetGroup, error) {
	next := cloneGroups(groups)
	if groupIndex < 0 || groupIndex >= len(next) {
		return nil, ErrIndexOutOfRange
	}
	group := &next[groupIndex]
	switch group.Kind {
	case KindRegular:
		group.Kind = KindSuperset
		group.Rounds = 1
		for i := range group.Entries {
			group.Entries[i].Sets = 0
		}
	case KindSuperset:
		group.Kind = KindRegular
		sets := max(group.Rounds, defaultSets)
		group.Rounds = 0
		for i := range group.Entries {
			group.Entries[i].Sets = sets
		}
	}
	return next, nil
}

// UpdateEntry applies modify to a single entry.
func UpdateEntry(groups []SetGroup, groupIndex, entryIndex int, modify func(*SetEntry)) ([]SetGroup, error) {
	next := cloneGroups(groups)
	if groupIndex < 0 || groupIndex >= len(next) {
		return nil, ErrIndexOutOfRange
	}
	if entryIndex < 0 || entryIndex >= len(next[groupIndex].Entries) {
		return nil, ErrIndexOutOfRange
	}
	modify(&next[groupIndex].Entries[entryIndex])
	return next, nil
}

// UpdateGroupRounds sets the shared round count of a superset.
func UpdateGroupRounds(groups []SetGroup, groupIndex, rounds int) ([]SetGroup, error) {
	next := cloneGroups(groups)
	if groupIndex < 0 || groupIndex >= len(next) {
		return nil, ErrIndexOutOfRange
	}
	if next[groupIndex].Kind != KindSuperset {
		return nil, errors.New("rounds can only be set on supersets")
	}
	if rounds < 1 {
		return nil, errors.New("rounds must be positive")
	}
	next[groupIndex].Rounds = rounds
	return next, nil
}
