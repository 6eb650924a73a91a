// Package schedule places workout plans on calendar dates and tracks their
// completion.
package schedule

// ScheduledWorkout is one plan placed on one date for a user.
type ScheduledWorkout struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	PlanID string `json:"planId"`
	// Date is in ISO form YYYY-MM-DD.
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}
