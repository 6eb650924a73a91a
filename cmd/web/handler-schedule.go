package main

import (
	"net/http"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/schedule"
)

func (app *application) schedulePOST(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PlanID string `json:"planId"`
		Date   string `json:"date"`
	}
	if err := readJSON(r, &request); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	scheduled, err := app.scheduleService.Schedule(r.Context(), request.PlanID, request.Date)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalid) || errors.Is(err, schedule.ErrAlreadyScheduled) {
			app.validationError(w, r, err)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, scheduled)
}

func (app *application) scheduleGET(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	scheduled, err := app.scheduleService.ListRange(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalid) {
			app.validationError(w, r, err)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, scheduled)
}

func (app *application) scheduleCompletePOST(w http.ResponseWriter, r *http.Request) {
	if err := app.scheduleService.Complete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
