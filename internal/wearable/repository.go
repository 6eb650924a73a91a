package wearable

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lnikula/lifttrack/internal/contexthelpers"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/sqlite"
)

// ErrNotConnected is returned when the user has not linked a wearable device.
var ErrNotConnected = errors.NewSentinel("wearable not connected")

// Connection is a user's link to their wearable vendor account.
type Connection struct {
	UserID      string    `json:"-"`
	AccessToken string    `json:"-"`
	ConnectedAt time.Time `json:"connectedAt"`
}

type connectionRepository interface {
	Upsert(ctx context.Context, accessToken string) error
	Get(ctx context.Context) (Connection, error)
	Delete(ctx context.Context) error
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

type sqliteConnectionRepository struct {
	baseRepository
}

func (r sqliteConnectionRepository) Upsert(ctx context.Context, accessToken string) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO wearable_connections (user_id, access_token, connected_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = excluded.access_token,
			connected_at = excluded.connected_at`,
		userID, accessToken, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert wearable connection: %w", err)
	}
	return nil
}

func (r sqliteConnectionRepository) Get(ctx context.Context) (Connection, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT user_id, access_token, connected_at
		FROM wearable_connections
		WHERE user_id = ?`, userID)

	var (
		connection  Connection
		connectedAt string
	)
	if err := row.Scan(&connection.UserID, &connection.AccessToken, &connectedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Connection{}, ErrNotConnected
		}
		return Connection{}, fmt.Errorf("scan wearable connection: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339, connectedAt)
	if err != nil {
		return Connection{}, fmt.Errorf("parse connected_at: %w", err)
	}
	connection.ConnectedAt = parsed
	return connection, nil
}

func (r sqliteConnectionRepository) Delete(ctx context.Context) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	if _, err := r.db.ReadWrite.ExecContext(ctx,
		"DELETE FROM wearable_connections WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete wearable connection: %w", err)
	}
	return nil
}
