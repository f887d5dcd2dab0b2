package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nikbrunner/shelf/internal/apperr"
	"github.com/nikbrunner/shelf/internal/logger"
)

// Collection names a record collection (table) of the store.
type Collection string

const (
	CollectionFolders  Collection = "folders"
	CollectionItems    Collection = "items"
	CollectionSettings Collection = "settings"
)

// Per-connection pragmas. _txlock=immediate makes every transaction take
// the write lock at BEGIN, so a read followed by a dependent write inside
// one transaction cannot interleave with another writer.
var dsnParams = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=journal_mode(WAL)",
	"_pragma=synchronous(NORMAL)",
	"_pragma=busy_timeout(5000)",
	"_txlock=immediate",
}

var (
	registryMu sync.Mutex
	registry   = map[string]*DB{}
)

// DB is a shared handle on one SQLite database file.
type DB struct {
	db   *sql.DB
	path string
	refs int // guarded by registryMu
	log  *zap.Logger
}

// Open returns the handle for the database at path, creating the file and
// schema on first use. Opening a path that is already open returns the same
// handle; every Open must be paired with a Close.
func Open(path string) (*DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if d, ok := registry[abs]; ok {
		d.refs++
		return d, nil
	}

	d, err := openSQLite(abs)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	d.refs = 1
	registry[abs] = d
	return d, nil
}

func openSQLite(path string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?"+strings.Join(dsnParams, "&"))
	if err != nil {
		return nil, err
	}
	// One connection serializes every transaction in this process.
	db.SetMaxOpenConns(1)

	d := &DB{db: db, path: path, log: logger.WithModule("storage")}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	d.log.Debug("database opened", zap.String("path", path))
	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close releases one reference. The connection closes with the last one.
func (d *DB) Close() error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if d.refs <= 0 {
		return nil
	}
	d.refs--
	if d.refs > 0 {
		return nil
	}

	delete(registry, d.path)
	return apperr.Storage(d.db.Close())
}

// Drop deletes the database files. It fails while any other reference to
// the handle is still open; the caller's own reference is consumed.
func (d *DB) Drop() error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if d.refs > 1 {
		return apperr.ErrStorageFault.WithMessage(
			"database %s is in use by %d other connection(s); close them and retry", d.path, d.refs-1)
	}
	d.refs = 0
	delete(registry, d.path)

	err := d.db.Close()
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if rmErr := os.Remove(d.path + suffix); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierr.Append(err, rmErr)
		}
	}
	if err != nil {
		return apperr.Storage(err)
	}

	d.log.Info("database dropped", zap.String("path", d.path))
	return nil
}

// Update runs fn inside a write transaction. Returning an error from fn
// rolls back every write made through tx.
func (d *DB) Update(ctx context.Context, fn func(tx *Tx) error) error {
	return d.run(ctx, fn)
}

// View runs fn inside a transaction so several reads see one snapshot.
func (d *DB) View(ctx context.Context, fn func(tx *Tx) error) error {
	return d.run(ctx, fn)
}

func (d *DB) run(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(&Tx{tx: sqlTx, ctx: ctx}); err != nil {
		return err
	}

	return apperr.Storage(sqlTx.Commit())
}

// migrate runs database migrations.
func (d *DB) migrate() error {
	// Check current schema version
	var version int
	err := d.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := d.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (d *DB) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			folder_id INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			sort_order INTEGER,
			created_at TEXT NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (folder_id) REFERENCES folders(id)
		);

		CREATE INDEX IF NOT EXISTS idx_items_folder_id ON items(folder_id);
		CREATE INDEX IF NOT EXISTS idx_items_game_id ON items(game_id);
		CREATE INDEX IF NOT EXISTS idx_items_deleted ON items(deleted);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_items_active_game ON items(game_id) WHERE deleted = 0;

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := d.db.Exec(schema)
	return err
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/shelf/shelf.db
func DefaultSQLitePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "shelf", "shelf.db"), nil
}
