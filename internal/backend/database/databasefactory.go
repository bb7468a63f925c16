package database

import (
	"fmt"
	"log/slog"
)

const (
	TypeSQLite = "sqlite"
	TypeRedis  = "redis"
	TypeFile   = "file"
	TypeMemory = "memory"
)

// SupportedTypes lists the database types accepted by NewDatabase.
var SupportedTypes = []string{TypeSQLite, TypeRedis, TypeFile, TypeMemory}

func NewDatabase(databaseType, connectionString string) (database DatabaseService, err error) {
	switch databaseType {
	case TypeSQLite:
		database, err = NewSQLiteDatabase(connectionString)
	case TypeRedis:
		database, err = NewRedisDatabase(connectionString)
	case TypeFile:
		database, err = NewFileDatabase(connectionString)
	case TypeMemory:
		database = NewMemoryDatabase()
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", databaseType, err)
	}

	slog.Info("record database ready", "type", databaseType)
	return database, nil
}
