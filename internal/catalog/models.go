// Package catalog maintains the exercise library: the built-in catalog, user
// submitted exercises and the filters used to browse them.
package catalog

import (
	"slices"
	"strings"
)

// Exercise is a single catalog entry. Equipment is a comma-separated list of
// the pieces needed to perform the exercise, with "None" meaning bodyweight.
type Exercise struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	MuscleGroup         string `json:"muscleGroup"`
	Category            string `json:"category"`
	Equipment           string `json:"equipment"`
	ImageURL            string `json:"imageUrl"`
	VideoURL            string `json:"videoUrl"`
	Timed               bool   `json:"timed"`
	HasWeight           bool   `json:"hasWeight"`
	DescriptionMarkdown string `json:"descriptionMarkdown"`
}

// EquipmentList splits the comma-separated equipment field into trimmed
// pieces. A "None" entry yields an empty list.
func (e Exercise) EquipmentList() []string {
	var pieces []string
	for piece := range strings.SplitSeq(e.Equipment, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" || piece == "None" {
			continue
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

// MuscleGroups lists the muscle groups an exercise can target.
func MuscleGroups() []string {
	return []string{
		"Back", "Shoulders", "Core", "Chest", "Biceps", "Triceps",
		"Glutes", "Calves", "Hamstrings", "Quads", "Full Body", "Cardio", "Forearm",
	}
}

// Categories lists the movement patterns used to classify exercises.
func Categories() []string {
	return []string{"Push", "Pull", "Squat", "Lunge", "Hinge", "Gait", "Twist"}
}

// Filter narrows the catalog. Each dimension is a set of accepted values, so
// selections like Back together with Chest can be expressed. An empty set, or
// one containing the literal "All", acts as a wildcard so that the values
// coming from selection lists can be passed through unchanged. The zero value
// matches every exercise.
type Filter struct {
	MuscleGroups []string `json:"muscleGroups"`
	Categories   []string `json:"categories"`
	Equipment    []string `json:"equipment"`
	Search       string   `json:"search"`
}

func isWildcard(values []string) bool {
	return len(values) == 0 || slices.Contains(values, "All")
}

// Matches reports whether e passes the filter. An exercise needing equipment
// passes only when every piece it needs is in the available set; a wildcard
// available set means everything is available.
func (f Filter) Matches(e Exercise) bool {
	if !isWildcard(f.MuscleGroups) && !slices.Contains(f.MuscleGroups, e.MuscleGroup) {
		return false
	}
	if !isWildcard(f.Categories) && !slices.Contains(f.Categories, e.Category) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search)) {
		return false
	}
	if isWildcard(f.Equipment) {
		return true
	}
	for _, piece := range e.EquipmentList() {
		if !slices.Contains(f.Equipment, piece) {
			return false
		}
	}
	return true
}
