package main

import (
	"net/http"
	"testing"

	"github.com/lnikula/lifttrack/internal/e2etest"
	"github.com/lnikula/lifttrack/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LIFTTRACK_ADDR":
		return "localhost:0", true
	case "LIFTTRACK_SQLITE_URL":
		return ":memory:", true
	default:
		return "", false
	}
}

func Test_application_identify(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	// The API requires an identity.
	status, err := client.GetJSON(ctx, "/api/exercises", nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 before identify, got %d", status)
	}

	var first struct {
		UserID string `json:"userId"`
	}
	if status, err = client.PostJSON(ctx, "/api/identify", map[string]string{"deviceId": "device-1"}, &first); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatalf("identify status = %d", status)
	}
	if first.UserID == "" {
		t.Fatal("expected a user id")
	}

	// Identifying again from the same device yields the same user.
	var second struct {
		UserID string `json:"userId"`
	}
	if _, err = client.PostJSON(ctx, "/api/identify", map[string]string{"deviceId": "device-1"}, &second); err != nil {
		t.Fatal(err)
	}
	if second.UserID != first.UserID {
		t.Errorf("expected stable user id, got %q then %q", first.UserID, second.UserID)
	}

	if status, err = client.GetJSON(ctx, "/api/exercises", nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Errorf("expected 200 after identify, got %d", status)
	}

	// Missing device id is a validation error.
	if status, err = client.PostJSON(ctx, "/api/identify", map[string]string{"deviceId": ""}, nil); err != nil {
		t.Fatal(err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for empty device id, got %d", status)
	}
}
