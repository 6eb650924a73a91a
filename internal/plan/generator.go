package plan

import (
	"math"
	"math/rand/v2"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/errors"
)

// ErrNoMatchingExercises is returned when the exercise pool has no unused
// exercise left that passes the filter. Generation aborts rather than
// producing a plan with gaps.
var ErrNoMatchingExercises = errors.NewSentinel("no exercises match the selected criteria")

const (
	// defaultDurationMinutes is used when the caller does not ask for a
	// specific workout length.
	defaultDurationMinutes = 60
	// defaultRepRange is the rep prescription used when none is requested.
	defaultRepRange = 10
	// regularTimeShare is the fraction of the workout spent on straight
	// sets, the rest goes to supersets.
	regularTimeShare = 0.4

	minStraightSets = 3
	maxStraightSets = 5
	minSupersetSize = 2
	maxSupersetSize = 3
)

// Params controls a generation run. The zero value produces a one hour
// workout at ten reps drawing from the whole pool.
type Params struct {
	Filter          catalog.Filter `json:"filter"`
	DurationMinutes int            `json:"durationMinutes"`
	RepRange        int            `json:"repRange"`
}

// Generator assembles workout plans from an exercise pool.
type Generator struct {
	pool []catalog.Exercise
	rng  *rand.Rand
}

// NewGenerator creates a generator drawing from pool. Tests pass a seeded
// rng for reproducible plans; a nil rng is seeded randomly.
func NewGenerator(pool []catalog.Exercise, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{pool: pool, rng: rng}
}

// Generate builds a list of set groups filling the requested duration. The
// workout starts with straight-set groups and finishes with supersets. Every
// drawn exercise passes the filter and appears at most once.
func (g *Generator) Generate(params Params) ([]SetGroup, error) {
	duration := params.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	repRange := params.RepRange
	if repRange <= 0 {
		repRange = defaultRepRange
	}

	straightSets := g.intBetween(minStraightSets, maxStraightSets)
	supersetSize := g.intBetween(minSupersetSize, maxSupersetSize)

	// A superset is performed for as many rounds as it has exercises, so its
	// cost grows quadratically with its size.
	minutesPerRegular := straightSets * avgSetMinutes
	minutesPerSuperset := supersetSize * supersetSize * avgSetMinutes

	regularBudget := int(math.Floor(float64(duration) * regularTimeShare))
	supersetBudget := duration - regularBudget

	numRegular := regularBudget / minutesPerRegular
	numSupersets := supersetBudget / minutesPerSuperset

	used := make(map[string]bool)
	var groups []SetGroup

	for range numRegular {
		exercise, err := g.draw(params.Filter, used)
		if err != nil {
			return nil, err
		}
		groups = append(groups, SetGroup{
			Kind:    KindRegular,
			Entries: []SetEntry{{ExerciseID: exercise.ID, Sets: straightSets, Reps: repRange}},
		})
	}

	for range numSupersets {
		group := SetGroup{Kind: KindSuperset, Rounds: supersetSize}
		for range supersetSize {
			exercise, err := g.draw(params.Filter, used)
			if err != nil {
				return nil, err
			}
			group.Entries = append(group.Entries, SetEntry{ExerciseID: exercise.ID, Reps: repRange})
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// Swap replaces one exercise in an existing plan with a fresh draw that
// passes the filter and is not already in the plan.
func (g *Generator) Swap(groups []SetGroup, groupIndex, entryIndex int, filter catalog.Filter) ([]SetGroup, error) {
	if groupIndex < 0 || groupIndex >= len(groups) {
		return nil, ErrIndexOutOfRange
	}
	if entryIndex < 0 || entryIndex >= len(groups[groupIndex].Entries) {
		return nil, ErrIndexOutOfRange
	}

	used := make(map[string]bool)
	for _, group := range groups {
		for _, entry := range group.Entries {
			used[entry.ExerciseID] = true
		}
	}

	exercise, err := g.draw(filter, used)
	if err != nil {
		return nil, err
	}

	next := cloneGroups(groups)
	next[groupIndex].Entries[entryIndex].ExerciseID = exercise.ID
	return next, nil
}

// draw picks a random unused exercise passing the filter and marks it used.
func (g *Generator) draw(filter catalog.Filter, used map[string]bool) (catalog.Exercise, error) {
	var candidates []catalog.Exercise
	for _, exercise := range g.pool {
		if !used[exercise.ID] && filter.Matches(exercise) {
			candidates = append(candidates, exercise)
		}
	}
	if len(candidates) == 0 {
		return catalog.Exercise{}, ErrNoMatchingExercises
	}
	chosen := candidates[g.rng.IntN(len(candidates))]
	used[chosen.ID] = true
	return chosen, nil
}

// intBetween returns a random int in [low, high].
func (g *Generator) intBetween(low, high int) int {
	return low + g.rng.IntN(high-low+1)
}
