package wearable_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/testhelpers"
	"github.com/lnikula/lifttrack/internal/wearable"
)

func TestClientRejectedToken(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := wearable.NewClient(server.URL, testhelpers.NewLogger(testhelpers.NewWriter(t)))
	_, err := client.Activity(context.Background(), "bad-token", "2026-08-28")
	var apiErr *wearable.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("unexpected status %d", apiErr.StatusCode)
	}
}
