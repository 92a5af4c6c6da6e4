// Package labelcsv writes the final label table as CSV.
//
// The column set and cell formatting match the files the original tooling
// produced, so existing training scripts keep working: booleans render as
// "True"/"False", timestamps as "YYYY-MM-DD HH:MM:SS", floats keep a ".0"
// when integral, and concurrent-storm positions render as a list of
// (lat, lon) pairs. Genesis-only columns are empty on non-genesis rows.
package labelcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tringuyen180303/TC-Prediction/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{
	"Date",
	"Genesis",
	"TC",
	"TC Id",
	"Longitude",
	"Latitude",
	"First Observed",
	"Last Observed",
	"First Observed Type",
	"Will Develop to TC",
	"Developing Date",
	"Is Other TC Happening",
	"Other TC Locations",
	"Path",
}

// Writer persists label tables.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteLabels writes the label table to path, overwriting any previous run.
// Output is deterministic: identical labels produce byte-identical files.
func (w *Writer) WriteLabels(path string, labels []domain.Label) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create label table: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write label header: %w", err)
	}
	for _, l := range labels {
		if err := cw.Write(record(l)); err != nil {
			f.Close()
			return fmt.Errorf("write label row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush label table: %w", err)
	}
	return f.Close()
}

func record(l domain.Label) []string {
	rec := []string{
		l.Date.Format(timeLayout),
		formatBool(l.Genesis),
		formatBool(l.TC),
		"", "", "", "", "", "", "", "",
		formatBool(l.OtherTCActive),
		formatLocations(l.OtherTCLocations),
		l.Path,
	}

	if l.Storm != nil {
		rec[3] = l.Storm.ID
		rec[4] = formatFloat(l.Storm.Lon)
		rec[5] = formatFloat(l.Storm.Lat)
		rec[6] = l.Storm.FirstObserved.Format(timeLayout)
		rec[7] = l.Storm.LastObserved.Format(timeLayout)
		rec[8] = l.Storm.FirstNature
		rec[9] = formatBool(l.Storm.WillDevelopToTC)
		if l.Storm.DevelopingDate != nil {
			rec[10] = l.Storm.DevelopingDate.Format(timeLayout)
		}
	}
	return rec
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// formatFloat renders a float the way pandas does: shortest representation,
// but integral values keep a trailing ".0".
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// formatLocations renders positions as "[(lat, lon), ...]"; an empty
// selection renders as "[]".
func formatLocations(locs []domain.Geo) string {
	var b strings.Builder
	b.WriteString("[")
	for i, g := range locs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%s, %s)", formatFloat(g.Lat), formatFloat(g.Lon))
	}
	b.WriteString("]")
	return b.String()
}
