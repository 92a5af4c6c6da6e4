// Package ibtracs reads the IBTrACS best-track CSV export into domain track
// points.
package ibtracs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tringuyen180303/TC-Prediction/internal/domain"
)

// isoTimeLayout matches the ISO_TIME column, e.g. "2023-08-01 00:00:00".
const isoTimeLayout = "2006-01-02 15:04:05"

// requiredColumns are the catalog columns the loader reads, by header name.
var requiredColumns = []string{"SID", "ISO_TIME", "LAT", "LON", "NATURE"}

// Loader parses best-track catalogs.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the catalog at path and returns (genesis events, all track
// points), both restricted to the spatial domain. Genesis derivation happens
// before the domain filter, so a storm whose first fix lies outside the box
// contributes no genesis event even if it later enters the box.
func (l *Loader) Load(path string, dom domain.SpatialDomain) ([]domain.TrackPoint, []domain.TrackPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open best track: %v", domain.ErrInputContract, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // IBTrACS rows can vary in trailing columns

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read best track header: %v", domain.ErrInputContract, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, nil, fmt.Errorf("%w: best track is missing column %q", domain.ErrInputContract, col)
		}
	}

	// The second row holds units, not data.
	if _, err := r.Read(); err != nil {
		return nil, nil, fmt.Errorf("%w: best track has no units row", domain.ErrInputContract)
	}

	var points []domain.TrackPoint
	line := 2
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read best track: %v", domain.ErrInputContract, err)
		}
		line++

		p, err := parseRow(row, colIdx, line)
		if err != nil {
			return nil, nil, err
		}
		points = append(points, p)
	}

	genesis := domain.GenesisEvents(points)
	l.logger.Debug("best track loaded",
		"path", path,
		"track_points", len(points),
		"storms", len(genesis),
	)

	return domain.FilterDomain(genesis, dom), domain.FilterDomain(points, dom), nil
}

func parseRow(row []string, colIdx map[string]int, line int) (domain.TrackPoint, error) {
	field := func(name string) string {
		i := colIdx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	t, err := time.Parse(isoTimeLayout, field("ISO_TIME"))
	if err != nil {
		return domain.TrackPoint{}, fmt.Errorf("%w: best track line %d: ISO_TIME %q: %v", domain.ErrParse, line, field("ISO_TIME"), err)
	}

	lat, err := strconv.ParseFloat(field("LAT"), 64)
	if err != nil {
		return domain.TrackPoint{}, fmt.Errorf("%w: best track line %d: LAT %q", domain.ErrParse, line, field("LAT"))
	}

	lon, err := strconv.ParseFloat(field("LON"), 64)
	if err != nil {
		return domain.TrackPoint{}, fmt.Errorf("%w: best track line %d: LON %q", domain.ErrParse, line, field("LON"))
	}

	return domain.TrackPoint{
		StormID: field("SID"),
		Time:    t,
		Lat:     lat,
		Lon:     domain.NormalizeLongitude(lon),
		Nature:  field("NATURE"),
	}, nil
}
