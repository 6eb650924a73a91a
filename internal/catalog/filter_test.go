package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lnikula/lifttrack/internal/catalog"
)

func TestFilterMatches(t *testing.T) {
	benchPress := catalog.Exercise{
		Name:        "Bench Press",
		MuscleGroup: "Chest",
		Category:    "Push",
		Equipment:   "Barbell, Bench",
	}
	plank := catalog.Exercise{
		Name:        "Plank",
		MuscleGroup: "Core",
		Category:    "Twist",
		Equipment:   "None",
		Timed:       true,
	}

	tests := []struct {
		name     string
		filter   catalog.Filter
		exercise catalog.Exercise
		want     bool
	}{
		{
			name:     "zero filter matches everything",
			filter:   catalog.Filter{},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "All acts as wildcard",
			filter:   catalog.Filter{MuscleGroups: []string{"All"}, Categories: []string{"All"}},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "muscle group mismatch",
			filter:   catalog.Filter{MuscleGroups: []string{"Back"}},
			exercise: benchPress,
			want:     false,
		},
		{
			name:     "multi-select muscle groups",
			filter:   catalog.Filter{MuscleGroups: []string{"Back", "Chest"}},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "category match",
			filter:   catalog.Filter{Categories: []string{"Push"}},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "all required equipment available",
			filter:   catalog.Filter{Equipment: []string{"Barbell", "Bench", "Dumbbells"}},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "missing one piece of equipment",
			filter:   catalog.Filter{Equipment: []string{"Barbell"}},
			exercise: benchPress,
			want:     false,
		},
		{
			name:     "All equipment acts as wildcard",
			filter:   catalog.Filter{Equipment: []string{"All"}},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "bodyweight passes any equipment filter",
			filter:   catalog.Filter{Equipment: []string{"Kettlebell"}},
			exercise: plank,
			want:     true,
		},
		{
			name:     "search is a case-insensitive substring",
			filter:   catalog.Filter{Search: "bench"},
			exercise: benchPress,
			want:     true,
		},
		{
			name:     "search mismatch",
			filter:   catalog.Filter{Search: "squat"},
			exercise: benchPress,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.exercise); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEquipmentList(t *testing.T) {
	exercise := catalog.Exercise{Equipment: "Barbell,  Squat Rack , None"}
	want := []string{"Barbell", "Squat Rack"}
	if diff := cmp.Diff(want, exercise.EquipmentList()); diff != "" {
		t.Errorf("EquipmentList() mismatch (-want +got):\n%s", diff)
	}
}
