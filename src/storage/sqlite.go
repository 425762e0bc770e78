package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"plug-explorer/src/helpers"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// SQLiteDB keeps the persisted local state in a single key-value table.
type SQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteDB, error) {
	if cfg.Storage.DBPath == "" {
		return nil, helpers.NewConfigurationError("sqlite db_path is empty", nil)
	}
	return &SQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewDatabaseError("open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping sqlite", err)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS local_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create local_storage", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.DB.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, helpers.NewDatabaseError(fmt.Sprintf("get item %q", key), err)
	}
	return value, true, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SetItem(ctx context.Context, key, value string) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("set item %q", key), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) RemoveItem(ctx context.Context, key string) error {
	if _, err := d.DB.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("remove item %q", key), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
