package repository

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ampmetropole/arretes-peril/internal/common"
)

// OpenPostgres connects a pgx pool and wraps it as database/sql for the
// store.
func OpenPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("store.pg.config", "error", err)
		return nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "arretes-peril"
	if cfg.StatementTimeout > 0 {
		// a bare integer is milliseconds for postgres
		pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("store.pg.connect", "error", err)
		return nil, err
	}

	logger.Info("store.pg.connected")
	return &sqlStore{
		db:      stdlib.OpenDBFromPool(pool),
		pool:    pool,
		logger:  logger,
		bindVar: dollarBind,
	}, nil
}
