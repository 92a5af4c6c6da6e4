package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tringuyen180303/TC-Prediction/internal/config"
	"github.com/tringuyen180303/TC-Prediction/internal/domain"
	"github.com/tringuyen180303/TC-Prediction/internal/observability"
	"github.com/tringuyen180303/TC-Prediction/internal/pipeline"
)

// --- mocks ---

type mockIndexer struct {
	files []domain.ObservationFile
	err   error
}

func (m *mockIndexer) ListFiles(_ string, _ time.Duration) ([]domain.ObservationFile, error) {
	return m.files, m.err
}

type mockDomainReader struct {
	dom  domain.SpatialDomain
	err  error
	path string
}

func (m *mockDomainReader) ReadDomain(path string) (domain.SpatialDomain, error) {
	m.path = path
	return m.dom, m.err
}

type mockTrackLoader struct {
	genesis []domain.TrackPoint
	all     []domain.TrackPoint
	err     error
}

func (m *mockTrackLoader) Load(_ string, _ domain.SpatialDomain) ([]domain.TrackPoint, []domain.TrackPoint, error) {
	return m.genesis, m.all, m.err
}

type mockWriter struct {
	path   string
	labels []domain.Label
	err    error
}

func (m *mockWriter) WriteLabels(path string, labels []domain.Label) error {
	m.path = path
	m.labels = labels
	return m.err
}

// --- fixtures ---

var (
	t0 = time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)
	t6 = t0.Add(6 * time.Hour)
)

func obsFile(t time.Time, lead time.Duration, path string) domain.ObservationFile {
	return domain.ObservationFile{Time: t, ShiftedTime: t.Add(lead), Path: path}
}

func point(id string, t time.Time, lat, lon float64, nature string) domain.TrackPoint {
	return domain.TrackPoint{StormID: id, Time: t, Lat: lat, Lon: lon, Nature: nature}
}

func testConfig(lead int, keep bool) *config.Config {
	return &config.Config{
		BestTrackPath:         "ibtracs.csv",
		ObservationsDir:       "/data/obs",
		LeadTimeHours:         lead,
		KeepPreExistingStorms: keep,
	}
}

func newPipeline(idx *mockIndexer, dr *mockDomainReader, tl *mockTrackLoader, w *mockWriter, cfg *config.Config) *pipeline.Pipeline {
	return pipeline.New(idx, dr, tl, w, cfg,
		slog.Default(),
		observability.NewMetricsForTesting(),
		clockwork.NewFakeClockAt(t0),
	)
}

// --- tests ---

func TestRun_HappyPath(t *testing.T) {
	files := []domain.ObservationFile{
		obsFile(t0, 0, "/data/obs/obs_20230801_00_00.nc"),
		obsFile(t6, 0, "/data/obs/obs_20230801_06_00.nc"),
	}
	track := []domain.TrackPoint{
		point("s1", t0, 20, 140, "DS"),
		point("s1", t6, 21, 141, "TS"),
	}

	idx := &mockIndexer{files: files}
	dr := &mockDomainReader{dom: domain.SpatialDomain{LatMin: 0, LatMax: 45, LonMin: 100, LonMax: 180}}
	tl := &mockTrackLoader{genesis: []domain.TrackPoint{track[0]}, all: track}
	w := &mockWriter{}

	p := newPipeline(idx, dr, tl, w, testConfig(0, true))
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, files[0].Path, dr.path, "domain comes from the first sorted file")
	assert.Equal(t, "/data/obs/tc_0h.csv", w.path)
	require.Len(t, w.labels, 2)
	assert.True(t, w.labels[0].Genesis)
	require.NotNil(t, w.labels[0].Storm)
	assert.Equal(t, "s1", w.labels[0].Storm.ID)
	assert.True(t, w.labels[0].Storm.WillDevelopToTC)
	assert.False(t, w.labels[1].Genesis)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestRun_PreExistingStormFilter(t *testing.T) {
	// Observation at t6 has no genesis but storm s1 is active then.
	files := []domain.ObservationFile{
		obsFile(t0, 0, "a.nc"),
		obsFile(t6, 0, "b.nc"),
	}
	track := []domain.TrackPoint{
		point("s1", t0, 20, 140, "DS"),
		point("s1", t6, 21, 141, "TS"),
	}
	tl := &mockTrackLoader{genesis: []domain.TrackPoint{track[0]}, all: track}

	t.Run("filter active by default", func(t *testing.T) {
		w := &mockWriter{}
		p := newPipeline(&mockIndexer{files: files}, &mockDomainReader{}, tl, w, testConfig(0, false))
		require.NoError(t, p.Run(context.Background()))

		require.Len(t, w.labels, 1)
		assert.True(t, w.labels[0].Genesis)
		for _, l := range w.labels {
			assert.False(t, !l.Genesis && l.OtherTCActive)
		}
	})

	t.Run("keep flag retains every row", func(t *testing.T) {
		w := &mockWriter{}
		p := newPipeline(&mockIndexer{files: files}, &mockDomainReader{}, tl, w, testConfig(0, true))
		require.NoError(t, p.Run(context.Background()))

		require.Len(t, w.labels, 2)
		assert.True(t, w.labels[1].OtherTCActive)
	})
}

func TestRun_LeadTimeShift(t *testing.T) {
	// With a 6h lead the t0 observation joins the genesis at t6, while its
	// concurrent-storm check still uses t0.
	files := []domain.ObservationFile{obsFile(t0, 6*time.Hour, "a.nc")}
	track := []domain.TrackPoint{
		point("s1", t6, 21, 141, "DS"),
		point("s2", t0, 10, 120, "TS"),
	}
	tl := &mockTrackLoader{genesis: []domain.TrackPoint{track[0]}, all: track}
	w := &mockWriter{}

	p := newPipeline(&mockIndexer{files: files}, &mockDomainReader{}, tl, w, testConfig(6, true))
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, "/data/obs/tc_6h.csv", w.path)
	require.Len(t, w.labels, 1)
	l := w.labels[0]
	assert.True(t, l.Genesis)
	assert.Equal(t, t6, l.Date)
	assert.True(t, l.OtherTCActive)
	require.Len(t, l.OtherTCLocations, 1)
	assert.Equal(t, domain.Geo{Lat: 10, Lon: 120}, l.OtherTCLocations[0])
}

func TestRun_StageErrors(t *testing.T) {
	files := []domain.ObservationFile{obsFile(t0, 0, "a.nc")}
	boom := errors.New("boom")

	tests := []struct {
		name string
		idx  *mockIndexer
		dr   *mockDomainReader
		tl   *mockTrackLoader
		w    *mockWriter
	}{
		{"index fails", &mockIndexer{err: boom}, &mockDomainReader{}, &mockTrackLoader{}, &mockWriter{}},
		{"domain fails", &mockIndexer{files: files}, &mockDomainReader{err: boom}, &mockTrackLoader{}, &mockWriter{}},
		{"load fails", &mockIndexer{files: files}, &mockDomainReader{}, &mockTrackLoader{err: boom}, &mockWriter{}},
		{"write fails", &mockIndexer{files: files}, &mockDomainReader{}, &mockTrackLoader{}, &mockWriter{err: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(tt.idx, tt.dr, tt.tl, tt.w, testConfig(0, false))
			err := p.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Error(t, p.CheckReadiness(context.Background()), "failed run must not report ready")
		})
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	w := &mockWriter{}
	p := newPipeline(
		&mockIndexer{files: []domain.ObservationFile{obsFile(t0, 0, "a.nc")}},
		&mockDomainReader{}, &mockTrackLoader{}, w,
		testConfig(0, false),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.path, "no output written after cancellation")
}

func TestCheckReadiness_BeforeRun(t *testing.T) {
	p := newPipeline(&mockIndexer{}, &mockDomainReader{}, &mockTrackLoader{}, &mockWriter{}, testConfig(0, false))
	assert.Error(t, p.CheckReadiness(context.Background()))
}
