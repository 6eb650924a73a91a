package main

import (
	"net/http"

	"github.com/lnikula/lifttrack/internal/schedule"
	"github.com/lnikula/lifttrack/internal/wearable"
)

func (app *application) wearableConnectPOST(w http.ResponseWriter, r *http.Request) {
	var request struct {
		AccessToken string `json:"accessToken"`
	}
	if err := readJSON(r, &request); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	if request.AccessToken == "" {
		app.writeError(w, r, http.StatusUnprocessableEntity, "accessToken is required")
		return
	}
	if err := app.wearableService.Connect(r.Context(), request.AccessToken); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "connected"})
}

func (app *application) wearableDisconnectDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.wearableService.Disconnect(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dashboardResponse struct {
	Date     string                      `json:"date"`
	Schedule []schedule.ScheduledWorkout `json:"schedule"`
	Wearable wearable.DaySummary         `json:"wearable"`
}

// dashboardGET composes the day's scheduled workouts with the wearable
// summary. Wearable trouble degrades the panel instead of failing the page.
func (app *application) dashboardGET(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		app.validationError(w, r, err)
		return
	}

	scheduled, err := app.scheduleService.ListRange(r.Context(), date, date)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	day, err := app.wearableService.Day(r.Context(), date)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if scheduled == nil {
		scheduled = []schedule.ScheduledWorkout{}
	}
	app.writeJSON(w, r, http.StatusOK, dashboardResponse{
		Date:     date,
		Schedule: scheduled,
		Wearable: day,
	})
}
