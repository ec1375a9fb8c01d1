package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattern-data/mosaic/infotheory"
	"github.com/pattern-data/mosaic/pipeline"
	"github.com/pattern-data/mosaic/tiling"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "mosaic_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptrInt(v int) *int { return &v }

func TestOpen_RunsMigrations(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	for _, table := range []string{"mosaic_runs", "mosaic_metrics", "mosaic_aggregates"} {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "missing table %s", table)
	}
}

func TestRunRoundtrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	run := &Run{
		GridRows:   120,
		GridCols:   80,
		Categories: 5,
		Seed:       42,
		ConfigJSON: `{"n":30,"size":60}`,
	}
	require.NoError(t, s.InsertRun(run))
	assert.NotEmpty(t, run.RunID, "uuid assigned on insert")
	assert.NotZero(t, run.CreatedAtNs)

	got, err := s.GetRun(run.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("run roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordsRoundtrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	run := &Run{GridRows: 4, GridCols: 4, Categories: 2, ConfigJSON: "{}"}
	require.NoError(t, s.InsertRun(run))

	records := []pipeline.MetricsRecord{
		{
			Realization: 0, TileRow: ptrInt(0), TileCol: ptrInt(0), Valid: true,
			Metrics: infotheory.Metrics{Ent: 1, JoinEnt: 1.5, CondEnt: 0.5, MutInf: 0.5},
		},
		{
			// Invalid extent: metric columns stored as NULL.
			Realization: 0, TileRow: ptrInt(0), TileCol: ptrInt(1), Valid: false,
		},
		{
			Realization: 1, TileRow: ptrInt(0), TileCol: ptrInt(0), Valid: true,
			Metrics: infotheory.Metrics{Ent: 0.9, JoinEnt: 1.4, CondEnt: 0.5, MutInf: 0.4},
		},
	}
	records[1].Ent = 99 // must not survive the roundtrip

	require.NoError(t, s.InsertRecords(run.RunID, records))
	got, err := s.RecordsForRun(run.RunID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Stored order is realization-major then tile-major, same as the input.
	want := append([]pipeline.MetricsRecord(nil), records...)
	want[1].Ent = 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatesRoundtrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	run := &Run{GridRows: 4, GridCols: 4, Categories: 2, ConfigJSON: "{}"}
	require.NoError(t, s.InsertRun(run))

	aggregates := []pipeline.AggregatedResult{
		{
			TileRow: ptrInt(0), TileCol: ptrInt(0), Valid: true, ValidRealizations: 30,
			Mean:     infotheory.Metrics{Ent: 1, JoinEnt: 1.2, CondEnt: 0.2, MutInf: 0.8},
			Variance: infotheory.Metrics{Ent: 0.01, JoinEnt: 0.02, CondEnt: 0.01, MutInf: 0.03},
			Geometry: tiling.Ring{{0, 0}, {60, 0}, {60, 60}, {0, 60}, {0, 0}},
		},
		{
			TileRow: ptrInt(0), TileCol: ptrInt(1), Valid: false, ValidRealizations: 0,
			Geometry: tiling.Ring{{60, 0}, {120, 0}, {120, 60}, {60, 60}, {60, 0}},
		},
	}
	require.NoError(t, s.InsertAggregates(run.RunID, aggregates))

	got, err := s.AggregatesForRun(run.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(aggregates, got); diff != "" {
		t.Errorf("aggregates roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveResults(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	results := &pipeline.Results{
		RunID: "11111111-2222-3333-4444-555555555555",
		Records: []pipeline.MetricsRecord{
			{Realization: 0, Valid: true, Metrics: infotheory.Metrics{Ent: 1, JoinEnt: 1, MutInf: 1}},
		},
		Aggregated: []pipeline.AggregatedResult{
			{Valid: true, ValidRealizations: 1, Mean: infotheory.Metrics{Ent: 1, JoinEnt: 1, MutInf: 1}},
		},
	}
	run := &Run{GridRows: 4, GridCols: 4, Categories: 2, Seed: 1, ConfigJSON: "{}"}
	require.NoError(t, s.SaveResults(results, run))
	assert.Equal(t, results.RunID, run.RunID, "run id adopted from the results")

	records, err := s.RecordsForRun(results.RunID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	aggregates, err := s.AggregatesForRun(results.RunID)
	require.NoError(t, err)
	assert.Len(t, aggregates, 1)
}
