package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lnikula/lifttrack/internal/errors"
)

const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

// readJSON decodes the request body into dst, rejecting unknown fields and
// oversized bodies.
func readJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (app *application) validationError(w http.ResponseWriter, r *http.Request, err error) {
	app.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeError(w, r, http.StatusNotFound, "not found")
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter, defaulting to
// today in UTC.
func parseDateQuery(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Now().UTC().Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}
