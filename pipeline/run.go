package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/exposure"
	"github.com/pattern-data/mosaic/infotheory"
	"github.com/pattern-data/mosaic/raster"
	"github.com/pattern-data/mosaic/realize"
	"github.com/pattern-data/mosaic/tiling"
	"github.com/pattern-data/mosaic/window"
)

// Results is the pipeline's complete output: the flat per-(realization,
// extent) metrics table and the per-extent averages.
type Results struct {
	// RunID identifies this computation, e.g. as the foreign key of the
	// persisted result tables.
	RunID string

	// Records holds one row per (realization, extent), ordered by
	// realization then extent.
	Records []MetricsRecord

	// Aggregated holds one row per extent, in tile order (or a single
	// whole-area row).
	Aggregated []AggregatedResult
}

// Run executes the full computation: n realizations of stack, windowed
// aggregation per realization, joint distribution and information metrics
// per extent, and averaging across realizations.
//
// Realizations are processed by a worker pool; each worker owns its
// realization's grids and writes records into a private slot, so the only
// merge point is the final reduction. A fixed seed yields identical
// results regardless of worker count or scheduling. Invalid parameters
// abort before any computation; extents failing the present-cell
// threshold come back as invalid records, never as errors.
func Run(ctx context.Context, stack *raster.Stack, cfg *Config) (*Results, error) {
	if cfg == nil {
		cfg = EmptyConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	agg, err := window.NewAggregator(cfg.GetFun(), cfg.GetWindowSize())
	if err != nil {
		return nil, err
	}
	builder, err := exposure.NewBuilder(stack.Categories(), cfg.GetThreshold())
	if err != nil {
		return nil, err
	}

	var tiles []tiling.Tile
	if cfg.TileSize != nil {
		tiler, err := tiling.NewTiler(*cfg.TileSize)
		if err != nil {
			return nil, err
		}
		tiles = tiler.Tiles(stack.Rows(), stack.Cols())
	}

	n := cfg.GetRealizations()
	gen := realize.NewGenerator(stack, cfg.GetSeed())

	logf("run start: %dx%d grid, %d categories, n=%d, window=%d fun=%s, %d extents",
		stack.Rows(), stack.Cols(), stack.Categories(), n, cfg.GetWindowSize(), cfg.GetFun(), max(len(tiles), 1))
	start := time.Now()

	// One private record slot per realization; merged only after Wait.
	perRealization := make([][]MetricsRecord, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.GetWorkers())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := runRealization(gen, agg, builder, stack, tiles, i)
			if err != nil {
				return fmt.Errorf("realization %d: %w", i, err)
			}
			perRealization[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]MetricsRecord, 0, n*max(len(tiles), 1))
	for _, recs := range perRealization {
		records = append(records, recs...)
	}
	aggregated := Aggregate(records, tiles, stack.Transform())

	logf("run done in %s: %d records, %d aggregated extents",
		time.Since(start).Round(time.Millisecond), len(records), len(aggregated))

	return &Results{
		RunID:      uuid.New().String(),
		Records:    records,
		Aggregated: aggregated,
	}, nil
}

// runRealization draws realization i and evaluates every extent on it.
// The realization and density grids are droppable as soon as the records
// exist; nothing here touches shared mutable state.
func runRealization(gen *realize.Generator, agg *window.Aggregator, builder *exposure.Builder,
	stack *raster.Stack, tiles []tiling.Tile, i int) ([]MetricsRecord, error) {

	t0 := time.Now()
	realization := gen.Realize(i)
	win, err := agg.Aggregate(stack, realization)
	if err != nil {
		return nil, err
	}

	var recs []MetricsRecord
	if len(tiles) == 0 {
		rec, err := extentRecord(builder, realization, win, stack.Whole(), i, nil, nil)
		if err != nil {
			return nil, err
		}
		recs = []MetricsRecord{rec}
	} else {
		recs = make([]MetricsRecord, 0, len(tiles))
		for _, tile := range tiles {
			tile := tile
			rec, err := extentRecord(builder, realization, win, tile.Block, i, &tile.Row, &tile.Col)
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
	}

	logf("realization %d done in %s", i, time.Since(t0).Round(time.Millisecond))
	return recs, nil
}

// extentRecord evaluates one extent on one realization. Insufficient data
// degrades to an invalid record; any other error is fatal.
func extentRecord(builder *exposure.Builder, realization *raster.ClassGrid, win *window.Result,
	block raster.Block, i int, tileRow, tileCol *int) (MetricsRecord, error) {

	rec := MetricsRecord{Realization: i, TileRow: tileRow, TileCol: tileCol}
	joint, err := builder.BuildJoint(realization, win.Dominant, block)
	if err != nil {
		if errors.Is(err, mosaic.ErrInsufficientData) {
			return rec, nil
		}
		return rec, err
	}
	rec.Valid = true
	rec.Metrics = infotheory.FromJoint(joint)
	return rec, nil
}
