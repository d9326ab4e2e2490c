// Package storage persists the app's records in a local SQLite database
// exposed as a string key-value store, mirroring the on-device storage of the
// mobile app. The Safe accessor layers retries, a payload ceiling, and
// corrupted-data recovery on top of the raw store.
package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jhalonen/kiloburn/internal/errors"
)

// schemaDefinition holds the whole persisted schema: a single key-value
// table. Values are JSON documents under well-known keys.
const schemaDefinition = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
) WITHOUT ROWID;
`

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.NewSentinel("key not found")

// Database wraps separate read-only and read-write connections to the same
// SQLite file. Splitting the two keeps a single writer while allowing
// concurrent readers.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

//nolint:gochecknoglobals // once ensures the SQLite driver is registered only once.
var once sync.Once

const optimizedDriver = "sqlite3optimized"

// registerOptimizedDriver registers a driver that executes
// performance-enhancing pragmas on connection.
func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				// Keep temporary tables and indices in memory instead of files.
				if _, err := conn.Exec("PRAGMA temp_store = memory;", nil); err != nil {
					return errors.Wrap(err, "exec optimization pragmas")
				}
				return nil
			},
		})
}

// NewDatabase connects to the database at url and ensures the schema exists.
// Use ":memory:" for an ephemeral in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect", slog.String("url", url))
	}

	if _, err = db.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "apply schema")
	}

	return db, nil
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// For in-memory databases, shared cache mode lets both connections see
	// the same data. Parallel tests each get a random database name.
	isInMemory := strings.Contains(url, ":memory:")
	inMemoryConfig := ""
	if isInMemory {
		url = rand.Text()
		inMemoryConfig = "mode=memory&cache=shared"
	}
	commonConfig := strings.Join([]string{
		// Write-ahead logging enables higher performance and concurrent readers.
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when the database is under load.
		"_busy_timeout=5000",
		// Increases performance at the cost of durability.
		"_synchronous=normal",
	}, "&")

	readConfig := "file:" + url + "?mode=ro&_txlock=deferred&_query_only=true&" + commonConfig + "&" + inMemoryConfig
	readWriteConfig := "file:" + url + "?mode=rwc&_txlock=immediate&" + commonConfig + "&" + inMemoryConfig

	once.Do(registerOptimizedDriver)

	readWriteDB, err := sql.Open(optimizedDriver, readWriteConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}

	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// sql.DB is lazy; ping to establish and configure the connection.
	if err = readWriteDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping read-write database")
	}

	readDB, err := sql.Open(optimizedDriver, readConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open read database")
	}

	maxReadConns := 4
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("sqlDsn", readWriteConfig))

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close closes the database connections.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}

// get reads the raw value stored under key.
func (db *Database) get(ctx context.Context, key string) (string, error) {
	var value string
	err := db.ReadOnly.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "query kv", slog.String("key", key))
	}
	return value, nil
}

// set stores value under key, replacing any previous value.
func (db *Database) set(ctx context.Context, key, value string) error {
	_, err := db.ReadWrite.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrap(err, "upsert kv", slog.String("key", key))
	}
	return nil
}

// remove deletes the value stored under key. Removing an absent key is not an
// error.
func (db *Database) remove(ctx context.Context, key string) error {
	if _, err := db.ReadWrite.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.Wrap(err, "delete kv", slog.String("key", key))
	}
	return nil
}
