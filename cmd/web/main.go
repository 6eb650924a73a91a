package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/lnikula/lifttrack/internal/catalog"
	"github.com/lnikula/lifttrack/internal/envstruct"
	"github.com/lnikula/lifttrack/internal/errors"
	"github.com/lnikula/lifttrack/internal/logbook"
	"github.com/lnikula/lifttrack/internal/logging"
	"github.com/lnikula/lifttrack/internal/plan"
	"github.com/lnikula/lifttrack/internal/schedule"
	"github.com/lnikula/lifttrack/internal/sqlite"
	"github.com/lnikula/lifttrack/internal/wearable"
)

type application struct {
	logger          *slog.Logger
	sessionManager  *scs.SessionManager
	db              *sqlite.Database
	exerciseService *catalog.Service
	planService     *plan.Service
	scheduleService *schedule.Service
	logbookService  *logbook.Service
	wearableService *wearable.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"LIFTTRACK_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"LIFTTRACK_SQLITE_URL" envDefault:"./lifttrack.sqlite3"`
	// OpenAIAPIKey enables AI-assisted exercise descriptions when set.
	OpenAIAPIKey string `env:"LIFTTRACK_OPENAI_API_KEY" envDefault:""`
	// WearableBaseURL is the base URL of the wearable vendor API.
	WearableBaseURL string `env:"LIFTTRACK_WEARABLE_BASE_URL" envDefault:"https://api.fitbit.com"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := initializeSessionManager(db)

	exerciseService := catalog.NewService(db, logger, cfg.OpenAIAPIKey)
	planService := plan.NewService(db, logger, exerciseService)
	scheduleService := schedule.NewService(db, logger)
	logbookService := logbook.NewService(db, logger, planService, exerciseService, scheduleService)
	wearableService := wearable.NewService(db, logger, wearable.NewClient(cfg.WearableBaseURL, logger))

	app := application{
		logger:          logger,
		sessionManager:  sessionManager,
		db:              db,
		exerciseService: exerciseService,
		planService:     planService,
		scheduleService: scheduleService,
		logbookService:  logbookService,
		wearableService: wearableService,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
