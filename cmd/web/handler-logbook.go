package main

import (
	"net/http"
	"strconv"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/logbook"
	"github.com/lnikula/lifttrack/internal/plan"
)

func (app *application) logbookSessionPOST(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PlanID string `json:"planId"`
	}
	if err := readJSON(r, &request); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	session, err := app.logbookService.StartSession(r.Context(), request.PlanID)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, map[string]string{
		"sessionId": session.ID,
		"state":     string(session.State()),
	})
}

// logbookSavePOST records the submitted sets and persists the whole session.
// A partially failed save responds 502 with the failed records so the client
// can retry just those.
func (app *application) logbookSavePOST(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string             `json:"sessionId"`
		Records   []logbook.SetInput `json:"records"`
	}
	if err := readJSON(r, &request); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	err := app.logbookService.SaveSession(r.Context(), request.SessionID, request.Records)
	if err != nil {
		var saveErr *logbook.SaveError
		switch {
		case errors.As(err, &saveErr):
			app.writeJSON(w, r, http.StatusBadGateway, map[string]any{
				"error":  "some records could not be saved",
				"failed": saveErr.Failed,
			})
		case errors.Is(err, logbook.ErrSessionNotFound):
			app.notFound(w, r)
		case errors.Is(err, logbook.ErrSessionBusy):
			app.validationError(w, r, err)
		default:
			app.serverError(w, r, err)
		}
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "saved"})
}

func (app *application) logbookLastGET(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	exerciseID := query.Get("exercise")
	reps, repsErr := strconv.Atoi(query.Get("reps"))
	setNumber, setErr := strconv.Atoi(query.Get("set"))
	if exerciseID == "" || repsErr != nil || setErr != nil {
		app.writeError(w, r, http.StatusUnprocessableEntity, "exercise, reps and set are required")
		return
	}
	stat, err := app.logbookService.LastPerformance(r.Context(), exerciseID, reps, setNumber)
	if err != nil {
		if errors.Is(err, logbook.ErrNoHistory) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, stat)
}

func (app *application) logbookHistoryGET(w http.ResponseWriter, r *http.Request) {
	workouts, err := app.logbookService.History(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, workouts)
}

func (app *application) statsGET(w http.ResponseWriter, r *http.Request) {
	summary, ok, err := app.logbookService.ExerciseSummary(r.Context(), r.PathValue("exerciseID"))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"hasData": ok,
		"summary": summary,
	})
}

func (app *application) statsSeriesGET(w http.ResponseWriter, r *http.Request) {
	series, err := app.logbookService.Progress(r.Context(), r.PathValue("exerciseID"))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, series)
}
