// Package store persists mosaic runs and their result tables in SQLite.
// The schema is managed by embedded golang-migrate migrations. Invalid
// extents are stored as NULL metric columns, never as substituted numbers.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pattern-data/mosaic/pipeline"
	"github.com/pattern-data/mosaic/tiling"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store provides persistence for runs, metrics records and aggregates.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and runs
// any pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for ad-hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Not closing m: that would close the shared DB connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Run describes one persisted computation.
type Run struct {
	RunID       string `json:"run_id"`
	CreatedAtNs int64  `json:"created_at_ns"`
	GridRows    int    `json:"grid_rows"`
	GridCols    int    `json:"grid_cols"`
	Categories  int    `json:"categories"`
	Seed        uint64 `json:"seed"`
	ConfigJSON  string `json:"config_json"`
}

// InsertRun stores a run row. If run.RunID is empty a new UUID is
// generated; if CreatedAtNs is zero the current time is used.
func (s *Store) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = time.Now().UnixNano()
	}
	_, err := s.db.Exec(`
		INSERT INTO mosaic_runs (run_id, created_at_ns, grid_rows, grid_cols, categories, seed, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAtNs, run.GridRows, run.GridCols, run.Categories, int64(run.Seed), run.ConfigJSON)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun fetches one run row by id.
func (s *Store) GetRun(runID string) (*Run, error) {
	var run Run
	var seed int64
	err := s.db.QueryRow(`
		SELECT run_id, created_at_ns, grid_rows, grid_cols, categories, seed, config_json
		FROM mosaic_runs WHERE run_id = ?`, runID).
		Scan(&run.RunID, &run.CreatedAtNs, &run.GridRows, &run.GridCols, &run.Categories, &seed, &run.ConfigJSON)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	run.Seed = uint64(seed)
	return &run, nil
}

// InsertRecords stores the flat metrics table for a run in one
// transaction. Invalid records get NULL metric columns.
func (s *Store) InsertRecords(runID string, records []pipeline.MetricsRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin records tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO mosaic_metrics (run_id, realization, tile_row, tile_col, ent, joinent, condent, mutinf)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare records insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var ent, joinEnt, condEnt, mutInf interface{}
		if rec.Valid {
			ent, joinEnt, condEnt, mutInf = rec.Ent, rec.JoinEnt, rec.CondEnt, rec.MutInf
		}
		if _, err := stmt.Exec(runID, rec.Realization, rec.TileRow, rec.TileCol, ent, joinEnt, condEnt, mutInf); err != nil {
			return fmt.Errorf("insert record (realization %d): %w", rec.Realization, err)
		}
	}
	return tx.Commit()
}

// RecordsForRun loads the flat metrics table of a run, ordered by
// realization then tile.
func (s *Store) RecordsForRun(runID string) ([]pipeline.MetricsRecord, error) {
	rows, err := s.db.Query(`
		SELECT realization, tile_row, tile_col, ent, joinent, condent, mutinf
		FROM mosaic_metrics WHERE run_id = ?
		ORDER BY realization, tile_row, tile_col`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []pipeline.MetricsRecord
	for rows.Next() {
		var rec pipeline.MetricsRecord
		var ent, joinEnt, condEnt, mutInf sql.NullFloat64
		if err := rows.Scan(&rec.Realization, &rec.TileRow, &rec.TileCol, &ent, &joinEnt, &condEnt, &mutInf); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if ent.Valid {
			rec.Valid = true
			rec.Ent = ent.Float64
			rec.JoinEnt = joinEnt.Float64
			rec.CondEnt = condEnt.Float64
			rec.MutInf = mutInf.Float64
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// InsertAggregates stores the per-extent averages for a run in one
// transaction. Tile geometries are stored as JSON corner rings.
func (s *Store) InsertAggregates(runID string, aggregates []pipeline.AggregatedResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin aggregates tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO mosaic_aggregates (run_id, tile_row, tile_col, valid_realizations,
			ent_mean, ent_var, joinent_mean, joinent_var,
			condent_mean, condent_var, mutinf_mean, mutinf_var, geometry_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare aggregates insert: %w", err)
	}
	defer stmt.Close()

	for _, agg := range aggregates {
		var geometry interface{}
		if agg.Geometry != nil {
			data, err := json.Marshal(agg.Geometry)
			if err != nil {
				return fmt.Errorf("encode tile geometry: %w", err)
			}
			geometry = string(data)
		}
		var entM, entV, joinM, joinV, condM, condV, mutM, mutV interface{}
		if agg.Valid {
			entM, entV = agg.Mean.Ent, agg.Variance.Ent
			joinM, joinV = agg.Mean.JoinEnt, agg.Variance.JoinEnt
			condM, condV = agg.Mean.CondEnt, agg.Variance.CondEnt
			mutM, mutV = agg.Mean.MutInf, agg.Variance.MutInf
		}
		if _, err := stmt.Exec(runID, agg.TileRow, agg.TileCol, agg.ValidRealizations,
			entM, entV, joinM, joinV, condM, condV, mutM, mutV, geometry); err != nil {
			return fmt.Errorf("insert aggregate: %w", err)
		}
	}
	return tx.Commit()
}

// AggregatesForRun loads the per-extent averages of a run in tile order.
func (s *Store) AggregatesForRun(runID string) ([]pipeline.AggregatedResult, error) {
	rows, err := s.db.Query(`
		SELECT tile_row, tile_col, valid_realizations,
			ent_mean, ent_var, joinent_mean, joinent_var,
			condent_mean, condent_var, mutinf_mean, mutinf_var, geometry_json
		FROM mosaic_aggregates WHERE run_id = ?
		ORDER BY tile_row, tile_col`, runID)
	if err != nil {
		return nil, fmt.Errorf("query aggregates for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []pipeline.AggregatedResult
	for rows.Next() {
		var agg pipeline.AggregatedResult
		var entM, entV, joinM, joinV, condM, condV, mutM, mutV sql.NullFloat64
		var geometry sql.NullString
		if err := rows.Scan(&agg.TileRow, &agg.TileCol, &agg.ValidRealizations,
			&entM, &entV, &joinM, &joinV, &condM, &condV, &mutM, &mutV, &geometry); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		if entM.Valid {
			agg.Valid = true
			agg.Mean.Ent, agg.Variance.Ent = entM.Float64, entV.Float64
			agg.Mean.JoinEnt, agg.Variance.JoinEnt = joinM.Float64, joinV.Float64
			agg.Mean.CondEnt, agg.Variance.CondEnt = condM.Float64, condV.Float64
			agg.Mean.MutInf, agg.Variance.MutInf = mutM.Float64, mutV.Float64
		}
		if geometry.Valid {
			var ring tiling.Ring
			if err := json.Unmarshal([]byte(geometry.String), &ring); err != nil {
				return nil, fmt.Errorf("decode tile geometry: %w", err)
			}
			agg.Geometry = ring
		}
		out = append(out, agg)
	}
	return out, rows.Err()
}

// SaveResults persists a complete pipeline output under results.RunID.
func (s *Store) SaveResults(results *pipeline.Results, run *Run) error {
	if run.RunID == "" {
		run.RunID = results.RunID
	}
	if err := s.InsertRun(run); err != nil {
		return err
	}
	if err := s.InsertRecords(run.RunID, results.Records); err != nil {
		return err
	}
	return s.InsertAggregates(run.RunID, results.Aggregated)
}
