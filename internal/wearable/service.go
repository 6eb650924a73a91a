package wearable

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/ptr"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// DaySummary is the wearable data for a single date. Panels that could not be
// fetched are nil and described in Error; the rest of the data is still usable.
type DaySummary struct {
	Connected bool              `json:"connected"`
	Activity  *ActivitySummary  `json:"activity,omitempty"`
	Sleep     *SleepSummary     `json:"sleep,omitempty"`
	HeartRate *HeartRateSummary `json:"heartRate,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Service manages wearable connections and fetches daily summaries.
type Service struct {
	connections connectionRepository
	client      *Client
	logger      *slog.Logger
}

func NewService(db *sqlite.Database, logger *slog.Logger, client *Client) *Service {
	return &Service{
		connections: sqliteConnectionRepository{newBaseRepository(db, logger)},
		client:      client,
		logger:      logger,
	}
}

// Connect stores the user's access token, replacing any previous one.
func (s *Service) Connect(ctx context.Context, accessToken string) error {
	return s.connections.Upsert(ctx, accessToken)
}

// Disconnect removes the user's wearable link.
func (s *Service) Disconnect(ctx context.Context) error {
	return s.connections.Delete(ctx)
}

// Connection returns the user's wearable link, or ErrNotConnected.
func (s *Service) Connection(ctx context.Context) (Connection, error) {
	return s.connections.Get(ctx)
}

// Day fetches the activity, sleep and heart-rate summaries for date
// (YYYY-MM-DD). A failing panel leaves its field nil and adds its reason to
// the Error field instead of failing the whole fetch.
func (s *Service) Day(ctx context.Context, date string) (DaySummary, error) {
	connection, err := s.connections.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return DaySummary{}, nil
		}
		return DaySummary{}, err
	}

	summary := DaySummary{Connected: true}
	var (
		mu       sync.Mutex
		problems []string
	)
	fail := func(panel string, err error) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "fetch wearable panel",
			slog.String("panel", panel),
			slog.Any("error", err))
		mu.Lock()
		problems = append(problems, panel+" unavailable")
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		activity, err := s.client.Activity(ctx, connection.AccessToken, date)
		if err != nil {
			fail("activity", err)
			return nil
		}
		summary.Activity = ptr.Ref(activity)
		return nil
	})
	g.Go(func() error {
		sleep, err := s.client.Sleep(ctx, connection.AccessToken, date)
		if err != nil {
			fail("sleep", err)
			return nil
		}
		summary.Sleep = ptr.Ref(sleep)
		return nil
	})
	g.Go(func() error {
		heartRate, err := s.client.HeartRate(ctx, connection.AccessToken, date)
		if err != nil {
			fail("heart rate", err)
			return nil
		}
		summary.HeartRate = ptr.Ref(heartRate)
		return nil
	})
	_ = g.Wait()

	if len(problems) > 0 {
		slices.Sort(problems)
		summary.Error = strings.Join(problems, ", ")
	}
	return summary, nil
}
