package storage

import (
	"fmt"

	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
)

// Open builds and initializes the backend named by storage.db_type.
func Open(cfg *models.MConfig, log *logger.Logger) (interfaces.IDatabase, error) {
	var (
		db  interfaces.IDatabase
		err error
	)

	switch cfg.Storage.DBType {
	case "postgres":
		db, err = NewPostgresDB(cfg, log.Named("PostgresDB"))
	case "sqlite", "":
		db, err = NewSQLiteDB(cfg, log.Named("SQLiteDB"))
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Storage.DBType)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Initialize(); err != nil {
		return nil, err
	}
	return db, nil
}
