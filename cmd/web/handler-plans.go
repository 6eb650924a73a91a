package main

import (
	"bytes"
	"net/http"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/plan"
)

func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	plans, err := app.planService.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, plans)
}

func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var p plan.WorkoutPlan
	if err := readJSON(r, &p); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	created, err := app.planService.Create(r.Context(), p)
	if err != nil {
		if errors.Is(err, plan.ErrInvalid) {
			app.validationError(w, r, err)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	p, err := app.planService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, p)
}

func (app *application) planPUT(w http.ResponseWriter, r *http.Request) {
	var p plan.WorkoutPlan
	if err := readJSON(r, &p); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	p.ID = r.PathValue("id")
	updated, err := app.planService.Update(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrInvalid):
			app.validationError(w, r, err)
		case errors.Is(err, plan.ErrNotFound):
			app.notFound(w, r)
		default:
			app.serverError(w, r, err)
		}
		return
	}
	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) planDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.planService.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) planSummaryGET(w http.ResponseWriter, r *http.Request) {
	summary, err := app.planService.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, summary)
}

// instructionsMarkdown renders plan instructions to HTML. Raw HTML in the
// markdown is escaped rather than passed through.
var instructionsMarkdown = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
)

func (app *application) planInstructionsGET(w http.ResponseWriter, r *http.Request) {
	p, err := app.planService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err = instructionsMarkdown.Convert([]byte(p.Instructions), &buf); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (app *application) planGeneratePOST(w http.ResponseWriter, r *http.Request) {
	var params plan.Params
	if err := readJSON(r, &params); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	generated, err := app.planService.Generate(r.Context(), params)
	if err != nil {
		if errors.Is(err, plan.ErrNoMatchingExercises) {
			app.validationError(w, r, err)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, generated)
}

func (app *application) planSwapPOST(w http.ResponseWriter, r *http.Request) {
	var request struct {
		GroupIndex int            `json:"groupIndex"`
		EntryIndex int            `json:"entryIndex"`
		Filter     catalog.Filter `json:"filter"`
	}
	if err := readJSON(r, &request); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	swapped, err := app.planService.SwapExercise(
		r.Context(), r.PathValue("id"), request.GroupIndex, request.EntryIndex, request.Filter)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrNotFound):
			app.notFound(w, r)
		case errors.Is(err, plan.ErrNoMatchingExercises), errors.Is(err, plan.ErrIndexOutOfRange):
			app.validationError(w, r, err)
		default:
			app.serverError(w, r, err)
		}
		return
	}
	app.writeJSON(w, r, http.StatusOK, swapped)
}
