// Package pipeline orchestrates the label run: index observations, read the
// spatial domain, load the best track, align, label, filter, write.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tringuyen180303/TC-Prediction/internal/config"
	"github.com/tringuyen180303/TC-Prediction/internal/domain"
	"github.com/tringuyen180303/TC-Prediction/internal/observability"
)

// FileIndexer enumerates observation files in a directory, sorted by
// lead-time-shifted timestamp.
type FileIndexer interface {
	ListFiles(dir string, leadTime time.Duration) ([]domain.ObservationFile, error)
}

// DomainReader computes the spatial bounding box of an observation grid.
type DomainReader interface {
	ReadDomain(path string) (domain.SpatialDomain, error)
}

// TrackLoader reads the best-track catalog, returning (genesis events, all
// track points) restricted to the spatial domain.
type TrackLoader interface {
	Load(path string, dom domain.SpatialDomain) ([]domain.TrackPoint, []domain.TrackPoint, error)
}

// LabelWriter persists the final label table.
type LabelWriter interface {
	WriteLabels(path string, labels []domain.Label) error
}

// Pipeline runs the batch labeling flow once. All state lives in the stage
// outputs; the pipeline itself only tracks readiness.
type Pipeline struct {
	indexer FileIndexer
	domains DomainReader
	tracks  TrackLoader
	writer  LabelWriter

	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	ready   atomic.Bool
}

// New assembles a Pipeline from its collaborators.
func New(
	indexer FileIndexer,
	domains DomainReader,
	tracks TrackLoader,
	writer LabelWriter,
	cfg *config.Config,
	logger *slog.Logger,
	metrics *observability.Metrics,
	clock clockwork.Clock,
) *Pipeline {
	return &Pipeline{
		indexer: indexer,
		domains: domains,
		tracks:  tracks,
		writer:  writer,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// CheckReadiness returns nil once the label table has been written.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("label run has not completed yet")
	}
	return nil
}

// Run executes the whole label run. The context is consulted between stages
// so an interrupted run stops before writing output. Any error aborts the
// run with no partial output.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.clock.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("label run started",
		"best_track", p.cfg.BestTrackPath,
		"observations_dir", p.cfg.ObservationsDir,
		"leadtime_hours", p.cfg.LeadTimeHours,
		"keep_pre_existing_storms", p.cfg.KeepPreExistingStorms,
	)

	// Stage 1: index observation files.
	files, err := runStage(ctx, p, "index", func() ([]domain.ObservationFile, error) {
		return p.indexer.ListFiles(p.cfg.ObservationsDir, p.cfg.LeadTime())
	})
	if err != nil {
		return err
	}
	p.metrics.FilesIndexed.Add(float64(len(files)))
	p.logger.Info("observations indexed", "files", len(files))

	// Stage 2: spatial domain from the first (earliest shifted) file.
	dom, err := runStage(ctx, p, "domain", func() (domain.SpatialDomain, error) {
		return p.domains.ReadDomain(files[0].Path)
	})
	if err != nil {
		return err
	}
	p.logger.Info("spatial domain computed",
		"lat_min", dom.LatMin, "lat_max", dom.LatMax,
		"lon_min", dom.LonMin, "lon_max", dom.LonMax,
	)

	// Stage 3: best track.
	type tracks struct {
		genesis []domain.TrackPoint
		all     []domain.TrackPoint
	}
	tr, err := runStage(ctx, p, "load", func() (tracks, error) {
		genesis, all, err := p.tracks.Load(p.cfg.BestTrackPath, dom)
		return tracks{genesis: genesis, all: all}, err
	})
	if err != nil {
		return err
	}
	p.metrics.TrackPointsLoaded.Add(float64(len(tr.all)))
	p.metrics.GenesisEvents.Add(float64(len(tr.genesis)))
	p.logger.Info("best track loaded", "track_points", len(tr.all), "genesis_events", len(tr.genesis))

	// Stage 4: temporal alignment.
	rows, err := runStage(ctx, p, "align", func() ([]domain.AlignedRow, error) {
		rows := domain.AlignGenesis(files, tr.genesis)
		return rows, domain.CheckAlignment(rows, files)
	})
	if err != nil {
		return err
	}

	// Stage 5: label generation.
	labels, err := runStage(ctx, p, "label", func() ([]domain.Label, error) {
		return domain.BuildLabels(rows, domain.NewTrackIndex(tr.all)), nil
	})
	if err != nil {
		return err
	}
	matches := 0
	for _, l := range labels {
		if l.Genesis {
			matches++
		}
	}
	p.metrics.GenesisMatches.Add(float64(matches))
	p.metrics.LabelsGenerated.Add(float64(len(labels)))

	if !p.cfg.KeepPreExistingStorms {
		kept := domain.DropPreExisting(labels)
		p.metrics.LabelsDropped.Add(float64(len(labels) - len(kept)))
		p.logger.Info("pre-existing storms filtered", "dropped", len(labels)-len(kept))
		labels = kept
	}

	// Stage 6: write the table.
	outPath := p.cfg.OutputPath()
	if _, err := runStage(ctx, p, "write", func() (struct{}, error) {
		return struct{}{}, p.writer.WriteLabels(outPath, labels)
	}); err != nil {
		return err
	}

	p.ready.Store(true)
	p.logger.Info("label run complete",
		"output", outPath,
		"rows", len(labels),
		"genesis_rows", matches,
		"elapsed", p.clock.Since(start).String(),
	)
	return nil
}

// runStage runs one stage with a context check before it and a duration
// observation after it.
func runStage[T any](ctx context.Context, p *Pipeline, stage string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	start := p.clock.Now()
	out, err := fn()
	p.metrics.StageDuration.WithLabelValues(stage).Observe(p.clock.Since(start).Seconds())
	if err != nil {
		return zero, err
	}
	return out, nil
}
