package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhalonen/kiloburn/internal/envstruct"
	"github.com/jhalonen/kiloburn/internal/errlog"
	"github.com/jhalonen/kiloburn/internal/errors"
	"github.com/jhalonen/kiloburn/internal/logging"
	"github.com/jhalonen/kiloburn/internal/storage"
)

// application bundles the dependencies shared by the HTTP handlers. It owns
// the error log and the storage handles for the whole process.
type application struct {
	logger   *slog.Logger
	errLog   *errlog.Log
	store    *storage.Safe
	workouts *storage.WorkoutRepo
	catalog  *storage.CatalogRepo
}

type config struct {
	// Addr is the address to listen on. Use localhost:0 to choose a free port.
	Addr string `env:"KILOBURN_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the path to the SQLite database, or ":memory:" for an ephemeral one.
	SqliteURL string `env:"KILOBURN_SQLITE_URL" envDefault:"./kiloburn.sqlite3"`
	// RetentionSchedule is the cron expression for the workout history pruning job.
	RetentionSchedule string `env:"KILOBURN_RETENTION_SCHEDULE" envDefault:"0 4 * * *"`
	// MaxRecords seeds the workout history cap when the setting is absent.
	MaxRecords int `env:"KILOBURN_MAX_RECORDS" envDefault:"100"`
	// RetentionWeeks seeds the workout retention window when the setting is absent.
	RetentionWeeks int `env:"KILOBURN_RETENTION_WEEKS" envDefault:"26"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := storage.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()

	errLog := errlog.New(logger)
	safe := storage.NewSafe(db, errLog)

	app := application{
		logger:   logger,
		errLog:   errLog,
		store:    safe,
		workouts: storage.NewWorkoutRepo(safe, logger),
		catalog:  storage.NewCatalogRepo(safe),
	}

	if err = app.seedSettings(ctx, cfg); err != nil {
		return errors.Wrap(err, "seed settings")
	}

	stopRetention, err := app.startRetentionJob(ctx, cfg.RetentionSchedule)
	if err != nil {
		return errors.Wrap(err, "start retention job")
	}
	defer stopRetention()

	if err = app.serve(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "serve")
	}
	return nil
}

// seedSettings writes the retention settings on first run so they are
// editable through storage afterwards.
func (app *application) seedSettings(ctx context.Context, cfg config) error {
	type seed struct {
		key   string
		value int
	}
	for _, s := range []seed{
		{storage.KeyMaxRecords, cfg.MaxRecords},
		{storage.KeyWorkoutRetentionWeeks, cfg.RetentionWeeks},
	} {
		_, found, err := storage.GetItem[int](ctx, app.store, s.key)
		if err != nil {
			return errors.Wrap(err, "read setting", slog.String("key", s.key))
		}
		if found || s.value <= 0 {
			continue
		}
		if err = storage.SetItem(ctx, app.store, s.key, s.value); err != nil {
			return errors.Wrap(err, "seed setting", slog.String("key", s.key))
		}
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// A missing .env file is fine; the defaults cover local runs.
	_ = godotenv.Load()

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
