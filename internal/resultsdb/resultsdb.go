// Package resultsdb exports parsed meta files to SQLite.
package resultsdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/askiada/go-wbnm/pkg/batch"
	"github.com/askiada/go-wbnm/pkg/results"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		imported_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS peaks (
		run_id   TEXT NOT NULL REFERENCES runs(id),
		storm    TEXT NOT NULL,
		storm_id TEXT NOT NULL,
		aep      TEXT NOT NULL,
		duration TEXT NOT NULL,
		ensemble TEXT NOT NULL,
		type     TEXT NOT NULL,
		subarea  TEXT NOT NULL,
		variable TEXT NOT NULL,
		value    REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS peaks_run_subarea ON peaks(run_id, subarea)`,
	`CREATE TABLE IF NOT EXISTS hydrograph_samples (
		run_id  TEXT NOT NULL REFERENCES runs(id),
		subarea TEXT NOT NULL,
		storm   TEXT NOT NULL,
		idx     INTEGER NOT NULL,
		channel TEXT NOT NULL,
		value   REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS samples_run_subarea_storm ON hydrograph_samples(run_id, subarea, storm)`,
}

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one imported meta file.
type Run struct {
	ID         string
	Source     string
	ImportedAt time.Time
}

// Store is a SQLite results database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(s *Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	for _, stmt := range schema {
		_, err = db.ExecContext(ctx, stmt)
		if err != nil {
			db.Close()

			return nil, errors.Wrapf(err, "unable to create schema in %s", path)
		}
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Import stores res under a new run and returns the run id. It writes everything in one
// transaction.
func (s *Store) Import(ctx context.Context, source string, res *results.Results) (runID string, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "unable to begin transaction")
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runID = uuid.NewString()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, source, imported_at) VALUES (?, ?, ?)`,
		runID, source, s.now().UTC().Format(timeLayout))
	if err != nil {
		return "", errors.Wrap(err, "unable to insert run")
	}

	err = insertPeaks(ctx, tx, runID, res.Peaks)
	if err != nil {
		return "", err
	}

	samples, err := insertHydrographs(ctx, tx, runID, res.Hydrographs)
	if err != nil {
		return "", err
	}

	err = tx.Commit()
	if err != nil {
		return "", errors.Wrap(err, "unable to commit import")
	}

	s.logger.Info("meta file imported",
		zap.String("run", runID),
		zap.String("source", source),
		zap.Int("peaks", len(res.Peaks)),
		zap.Int("samples", samples))

	return runID, nil
}

// Write imports a batch item.
func (s *Store) Write(ctx context.Context, item batch.Item) error {
	_, err := s.Import(ctx, item.Path, item.Results)

	return err
}

func insertPeaks(ctx context.Context, tx *sql.Tx, runID string, peaks results.Peaks) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO peaks
		(run_id, storm, storm_id, aep, duration, ensemble, type, subarea, variable, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "unable to prepare peak insert")
	}
	defer stmt.Close()

	for _, p := range peaks {
		_, err = stmt.ExecContext(ctx, runID, p.Storm.Key(), p.Storm.ID, p.Storm.AEP, p.Storm.Duration,
			p.Storm.Ensemble, p.Storm.Type, p.Subarea, string(p.Variable), p.Value)
		if err != nil {
			return errors.Wrapf(err, "unable to insert peak %s %s %s", p.Subarea, p.Storm, p.Variable)
		}
	}

	return nil
}

func insertHydrographs(ctx context.Context, tx *sql.Tx, runID string, hs results.Hydrographs) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO hydrograph_samples
		(run_id, subarea, storm, idx, channel, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "unable to prepare sample insert")
	}
	defer stmt.Close()

	count := 0
	for _, subarea := range hs.Subareas() {
		for _, storm := range hs.Storms(subarea) {
			h, _ := hs.Get(subarea, storm)

			for _, c := range results.Channels() {
				for i, v := range h.Series(c) {
					_, err = stmt.ExecContext(ctx, runID, subarea, storm, i, c.String(), v)
					if err != nil {
						return 0, errors.Wrapf(err, "unable to insert %s sample %d of %s %s", c, i, subarea, storm)
					}
					count++
				}
			}
		}
	}

	return count, nil
}

// Runs lists the imported runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, source, imported_at FROM runs ORDER BY imported_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			importedAt string
		)

		err = rows.Scan(&run.ID, &run.Source, &importedAt)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan run")
		}

		run.ImportedAt, err = time.Parse(timeLayout, importedAt)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse import time of run %s", run.ID)
		}

		runs = append(runs, run)
	}

	return runs, errors.Wrap(rows.Err(), "unable to read runs")
}

// Peaks returns the peaks of a run in import order.
func (s *Store) Peaks(ctx context.Context, runID string) (results.Peaks, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT storm_id, aep, duration, ensemble, type, subarea, variable, value
		FROM peaks WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query peaks")
	}
	defer rows.Close()

	var peaks results.Peaks
	for rows.Next() {
		var (
			p        results.Peak
			variable string
		)

		err = rows.Scan(&p.Storm.ID, &p.Storm.AEP, &p.Storm.Duration, &p.Storm.Ensemble, &p.Storm.Type,
			&p.Subarea, &variable, &p.Value)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan peak")
		}

		p.Variable = results.Variable(variable)
		peaks = append(peaks, p)
	}

	return peaks, errors.Wrap(rows.Err(), "unable to read peaks")
}

// Series returns one channel of a stored hydrograph.
func (s *Store) Series(ctx context.Context, runID, subarea, storm string, c results.Channel) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM hydrograph_samples
		WHERE run_id = ? AND subarea = ? AND storm = ? AND channel = ? ORDER BY idx`,
		runID, subarea, storm, c.String())
	if err != nil {
		return nil, errors.Wrap(err, "unable to query samples")
	}
	defer rows.Close()

	var series []float64
	for rows.Next() {
		var v float64

		err = rows.Scan(&v)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan sample")
		}

		series = append(series, v)
	}

	return series, errors.Wrap(rows.Err(), "unable to read samples")
}

// Counts returns the number of peaks and hydrograph samples stored for a run.
func (s *Store) Counts(ctx context.Context, runID string) (peaks, samples int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM peaks WHERE run_id = ?),
		(SELECT COUNT(*) FROM hydrograph_samples WHERE run_id = ?)`, runID, runID).Scan(&peaks, &samples)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "unable to count rows of run %s", runID)
	}

	return peaks, samples, nil
}

var _ batch.Sink = (*Store)(nil)
