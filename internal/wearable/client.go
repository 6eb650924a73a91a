// Package wearable syncs daily activity, sleep and heart-rate data from a
// Fitbit-compatible web API.
package wearable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// APIError is a non-2xx response from the wearable API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wearable API status %d: %s", e.StatusCode, e.Body)
}

// Client calls the wearable vendor's REST API with the user's access token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the API at baseURL, e.g. https://api.fitbit.com.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// ActivitySummary is one day of movement totals.
type ActivitySummary struct {
	Steps         int `json:"steps"`
	CaloriesOut   int `json:"caloriesOut"`
	ActiveMinutes int `json:"activeMinutes"`
}

// SleepSummary is one night of sleep totals.
type SleepSummary struct {
	MinutesAsleep int `json:"minutesAsleep"`
	SleepRecords  int `json:"sleepRecords"`
}

// HeartRateSummary is one day of heart-rate data.
type HeartRateSummary struct {
	RestingHeartRate int `json:"restingHeartRate"`
}

// Activity fetches the movement totals for date (YYYY-MM-DD).
func (c *Client) Activity(ctx context.Context, token, date string) (ActivitySummary, error) {
	var payload struct {
		Summary struct {
			Steps               int `json:"steps"`
			CaloriesOut         int `json:"caloriesOut"`
			FairlyActiveMinutes int `json:"fairlyActiveMinutes"`
			VeryActiveMinutes   int `json:"veryActiveMinutes"`
		} `json:"summary"`
	}
	url := fmt.Sprintf("%s/1/user/-/activities/date/%s.json", c.baseURL, date)
	if err := c.getJSON(ctx, token, url, &payload); err != nil {
		return ActivitySummary{}, fmt.Errorf("fetch activity summary: %w", err)
	}
	return ActivitySummary{
		Steps:         payload.Summary.Steps,
		CaloriesOut:   payload.Summary.CaloriesOut,
		ActiveMinutes: payload.Summary.FairlyActiveMinutes + payload.Summary.VeryActiveMinutes,
	}, nil
}

// Sleep fetches the sleep totals for the night ending on date.
func (c *Client) Sleep(ctx context.Context, token, date string) (SleepSummary, error) {
	var payload struct {
		Summary struct {
			TotalMinutesAsleep int `json:"totalMinutesAsleep"`
			TotalSleepRecords  int `json:"totalSleepRecords"`
		} `json:"summary"`
	}
	url := fmt.Sprintf("%s/1.2/user/-/sleep/date/%s.json", c.baseURL, date)
	if err := c.getJSON(ctx, token, url, &payload); err != nil {
		return SleepSummary{}, fmt.Errorf("fetch sleep summary: %w", err)
	}
	return SleepSummary{
		MinutesAsleep: payload.Summary.TotalMinutesAsleep,
		SleepRecords:  payload.Summary.TotalSleepRecords,
	}, nil
}

// HeartRate fetches the resting heart rate for date.
func (c *Client) HeartRate(ctx context.Context, token, date string) (HeartRateSummary, error) {
	var payload struct {
		ActivitiesHeart []struct {
			Value struct {
				RestingHeartRate int `json:"restingHeartRate"`
			} `json:"value"`
		} `json:"activities-heart"`
	}
	url := fmt.Sprintf("%s/1/user/-/activities/heart/date/%s/1d.json", c.baseURL, date)
	if err := c.getJSON(ctx, token, url, &payload); err != nil {
		return HeartRateSummary{}, fmt.Errorf("fetch heart rate: %w", err)
	}
	var summary HeartRateSummary
	if len(payload.ActivitiesHeart) > 0 {
		summary.RestingHeartRate = payload.ActivitiesHeart[0].Value.RestingHeartRate
	}
	return summary, nil
}

// getJSON performs an authenticated GET and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, token, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "close response body", slog.Any("error", closeErr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
