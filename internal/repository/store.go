// Package repository is the optional database sink for run outputs: the
// same four tables the CSV export writes, keyed by run id.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ampmetropole/arretes-peril/internal/entity"
	"github.com/ampmetropole/arretes-peril/internal/export"
)

// Store persists the output tables of a run.
type Store interface {
	// Bootstrap creates the output tables when they do not exist yet.
	Bootstrap(ctx context.Context) error
	// SaveRun inserts all rows of one run inside a single transaction.
	SaveRun(ctx context.Context, runID string, tables export.Tables) error
	// CountRuns reports how many distinct runs the store holds.
	CountRuns(ctx context.Context) (int, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// sqlStore drives either backend through database/sql; only the bind-var
// style differs.
type sqlStore struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	logger  *slog.Logger
	bindVar func(int) string
}

func questionBind(int) string { return "?" }
func dollarBind(i int) string { return "$" + strconv.Itoa(i) }

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS paquet_adresse (
		run_id    TEXT NOT NULL,
		idu       TEXT NOT NULL,
		ad_brute  TEXT,
		adresse   TEXT,
		num       TEXT,
		ind       TEXT,
		voie      TEXT,
		compl     TEXT,
		cpostal   TEXT,
		ville     TEXT,
		codeinsee TEXT,
		datemaj   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS paquet_arrete (
		run_id         TEXT NOT NULL,
		idu            TEXT NOT NULL,
		date           TEXT,
		num            TEXT,
		nom            TEXT,
		classification TEXT,
		proc_urgence   TEXT,
		demolition     TEXT,
		interdiction   TEXT,
		equipcomm      TEXT,
		nom_pdf        TEXT,
		url            TEXT,
		codeinsee      TEXT,
		datemaj        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS paquet_notifie (
		run_id     TEXT NOT NULL,
		idu        TEXT NOT NULL,
		ide_propri TEXT,
		nom_propri TEXT,
		ide_syndic TEXT,
		nom_syndic TEXT,
		ide_gestio TEXT,
		codeinsee  TEXT,
		datemaj    TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS paquet_parcelle (
		run_id    TEXT NOT NULL,
		idu       TEXT NOT NULL,
		ref_cad   TEXT,
		codeinsee TEXT,
		datemaj   TEXT
	)`,
}

func (s *sqlStore) Bootstrap(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	s.logger.Info("store.bootstrap.ok", "tables", len(schemaDDL))
	return nil
}

func (s *sqlStore) SaveRun(ctx context.Context, runID string, t export.Tables) error {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run %s: %w", runID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.insertAdresses(ctx, tx, runID, t.Adresses); err != nil {
		return err
	}
	if err := s.insertArretes(ctx, tx, runID, t.Arretes); err != nil {
		return err
	}
	if err := s.insertNotifies(ctx, tx, runID, t.Notifies); err != nil {
		return err
	}
	if err := s.insertParcelles(ctx, tx, runID, t.Parcelles); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", runID, err)
	}

	s.logger.Info("store.run.saved",
		"run_id", runID,
		"rows", t.Rows(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *sqlStore) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = s.bindVar(i + 1)
	}
	return strings.Join(ph, ", ")
}

func (s *sqlStore) insertAdresses(ctx context.Context, tx *sql.Tx, runID string, rows []entity.Adresse) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO paquet_adresse (run_id, idu, ad_brute, adresse, num, ind, voie, compl, cpostal, ville, codeinsee, datemaj) VALUES (`+
			s.placeholders(12)+`)`)
	if err != nil {
		return fmt.Errorf("prepare adresse: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, r.Idu, r.AdBrute, r.Adresse, r.Num, r.Ind,
			r.Voie, r.Compl, r.CPostal, r.Ville, r.CodeInsee, r.Datemaj); err != nil {
			return fmt.Errorf("insert adresse %s: %w", r.Idu, err)
		}
	}
	return nil
}

func (s *sqlStore) insertArretes(ctx context.Context, tx *sql.Tx, runID string, rows []entity.Arrete) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO paquet_arrete (run_id, idu, date, num, nom, classification, proc_urgence, demolition, interdiction, equipcomm, nom_pdf, url, codeinsee, datemaj) VALUES (`+
			s.placeholders(14)+`)`)
	if err != nil {
		return fmt.Errorf("prepare arrete: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, r.Idu, r.Date, r.Num, r.Nom, r.Classification,
			r.ProcUrgence, r.Demolition, r.Interdiction, r.EquipComm, r.NomPDF, r.URL,
			r.CodeInsee, r.Datemaj); err != nil {
			return fmt.Errorf("insert arrete %s: %w", r.Idu, err)
		}
	}
	return nil
}

func (s *sqlStore) insertNotifies(ctx context.Context, tx *sql.Tx, runID string, rows []entity.Notifie) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO paquet_notifie (run_id, idu, ide_propri, nom_propri, ide_syndic, nom_syndic, ide_gestio, codeinsee, datemaj) VALUES (`+
			s.placeholders(9)+`)`)
	if err != nil {
		return fmt.Errorf("prepare notifie: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, r.Idu, r.IdePropri, r.NomPropri, r.IdeSyndic,
			r.NomSyndic, r.IdeGestio, r.CodeInsee, r.Datemaj); err != nil {
			return fmt.Errorf("insert notifie %s: %w", r.Idu, err)
		}
	}
	return nil
}

func (s *sqlStore) insertParcelles(ctx context.Context, tx *sql.Tx, runID string, rows []entity.Parcelle) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO paquet_parcelle (run_id, idu, ref_cad, codeinsee, datemaj) VALUES (`+
			s.placeholders(5)+`)`)
	if err != nil {
		return fmt.Errorf("prepare parcelle: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, r.Idu, r.RefCad, r.CodeInsee, r.Datemaj); err != nil {
			return fmt.Errorf("insert parcelle %s: %w", r.Idu, err)
		}
	}
	return nil
}

func (s *sqlStore) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT run_id) FROM paquet_arrete").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// HealthCheck pings the backend to catch DSN issues early.
func (s *sqlStore) HealthCheck(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.db.PingContext(ctx)
}

// Close releases the database handles. Closing the *sql.DB wrapper does
// not close the underlying pgx pool, so both are closed here.
func (s *sqlStore) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
