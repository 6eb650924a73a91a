package main

import (
	"net/http"

	"github.com/google/uuid"
)

// identifyPOST establishes a stable identity for the calling device. The user
// id is derived deterministically from the device id, so identifying twice
// from the same device yields the same user.
func (app *application) identifyPOST(w http.ResponseWriter, r *http.Request) {
	var request struct {
		DeviceID string `json:"deviceId"`
	}
	if err := readJSON(r, &request); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	if request.DeviceID == "" {
		app.writeError(w, r, http.StatusUnprocessableEntity, "deviceId is required")
		return
	}

	userID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(request.DeviceID)).String()
	if _, err := app.db.ReadWrite.ExecContext(r.Context(),
		"INSERT OR IGNORE INTO users (id) VALUES (?)", userID); err != nil {
		app.serverError(w, r, err)
		return
	}

	// Rotate the session token on identity change to prevent fixation.
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(r.Context(), sessionUserIDKey, userID)

	app.writeJSON(w, r, http.StatusOK, map[string]string{"userId": userID})
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
