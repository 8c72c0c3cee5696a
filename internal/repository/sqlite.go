package repository

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a file-backed or in-memory (":memory:") store, for
// local runs without a Postgres instance.
func OpenSQLite(dsn string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("store.sqlite.open", "error", err)
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// modernc sqlite serializes access itself; one connection avoids
	// table-lock errors on concurrent statements.
	db.SetMaxOpenConns(1)

	logger.Info("store.sqlite.opened", "dsn", dsn)
	return &sqlStore{
		db:      db,
		logger:  logger,
		bindVar: questionBind,
	}, nil
}
