package main

import (
	"net/http"
	"strings"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/errors"
)

func splitQueryList(value string) []string {
	var values []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func exerciseFilterFromQuery(r *http.Request) catalog.Filter {
	query := r.URL.Query()
	return catalog.Filter{
		MuscleGroups: splitQueryList(query.Get("muscleGroup")),
		Categories:   splitQueryList(query.Get("category")),
		Equipment:    splitQueryList(query.Get("equipment")),
		Search:       query.Get("search"),
	}
}

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.exerciseService.List(r.Context(), exerciseFilterFromQuery(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

func (app *application) exercisesPOST(w http.ResponseWriter, r *http.Request) {
	var exercise catalog.Exercise
	if err := readJSON(r, &exercise); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	created, err := app.exerciseService.Create(r.Context(), exercise)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			app.validationError(w, r, err)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	exercise, err := app.exerciseService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercise)
}
