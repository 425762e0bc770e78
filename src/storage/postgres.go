package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plug-explorer/src/helpers"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

// PostgresDB keeps the persisted local state in a schema named after the executable.
type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresDB{
		Config: cfg,
		Schema: SchemaName(name),
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

// SchemaName keeps [a-z0-9_] of name, lower-cased, so it can be quoted safely.
func SchemaName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-' || r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "plug_explorer"
	}
	return b.String()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return helpers.NewDatabaseError("open postgres", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping postgres", err)
	}

	d.DB = db

	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("create schema %s", d.Schema), err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`, d.table())
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create local_storage", err)
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) table() string {
	return fmt.Sprintf(`"%s"."local_storage"`, d.Schema)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, d.table())
	err := d.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, helpers.NewDatabaseError(fmt.Sprintf("get item %q", key), err)
	}
	return value, true, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SetItem(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, d.table())
	if _, err := d.DB.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("set item %q", key), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) RemoveItem(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, d.table())
	if _, err := d.DB.ExecContext(ctx, query, key); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("remove item %q", key), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
