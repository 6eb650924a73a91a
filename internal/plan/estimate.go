package plan

import (
	"slices"

	"github.com/lnikula/lifttrack/internal/catalog"
)

// avgSetMinutes is the assumed duration of one working set including rest.
const avgSetMinutes = 2

// EstimateDuration approximates how long the plan takes, in minutes. Every
// set counts for [avgSetMinutes]; a superset counts one set per exercise per
// round.
func EstimateDuration(p WorkoutPlan) int {
	minutes := 0
	for _, group := range p.Groups {
		switch group.Kind {
		case KindSuperset:
			minutes += group.Rounds * len(group.Entries) * avgSetMinutes
		case KindRegular:
			for _, entry := range group.Entries {
				minutes += entry.Sets * avgSetMinutes
			}
		}
	}
	return minutes
}

// RequiredEquipment lists every piece of equipment the plan needs, in order
// of first appearance and without duplicates. Exercises missing from byID are
// skipped.
func RequiredEquipment(p WorkoutPlan, byID map[string]catalog.Exercise) []string {
	var pieces []string
	for _, group := range p.Groups {
		for _, entry := range group.Entries {
			exercise, ok := byID[entry.ExerciseID]
			if !ok {
				continue
			}
			for _, piece := range exercise.EquipmentList() {
				if !slices.Contains(pieces, piece) {
					pieces = append(pieces, piece)
				}
			}
		}
	}
	return pieces
}
