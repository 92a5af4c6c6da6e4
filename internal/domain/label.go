package domain

import (
	"fmt"
	"time"
)

// AlignedRow pairs an observation file with the genesis event (if any) whose
// timestamp equals the observation's shifted timestamp.
type AlignedRow struct {
	Obs ObservationFile

	// Genesis is nil when no storm forms at the shifted timestamp.
	Genesis *TrackPoint
}

// AlignGenesis left-joins observation files against genesis events on
// ObservationFile.ShiftedTime == genesis.Time. Every observation survives; a
// shifted timestamp matched by several genesis events fans out into one row
// per event, in genesis order. The result therefore never has fewer rows
// than the input observations.
func AlignGenesis(files []ObservationFile, genesis []TrackPoint) []AlignedRow {
	byTime := make(map[time.Time][]TrackPoint, len(genesis))
	for _, g := range genesis {
		byTime[g.Time] = append(byTime[g.Time], g)
	}

	rows := make([]AlignedRow, 0, len(files))
	for _, f := range files {
		matches := byTime[f.ShiftedTime]
		if len(matches) == 0 {
			rows = append(rows, AlignedRow{Obs: f})
			continue
		}
		for i := range matches {
			rows = append(rows, AlignedRow{Obs: f, Genesis: &matches[i]})
		}
	}
	return rows
}

// CheckAlignment enforces the left-join row count invariant: aligned rows
// must never be fewer than the observations they came from. A violation
// wraps [ErrSchemaAssumption].
func CheckAlignment(rows []AlignedRow, files []ObservationFile) error {
	if len(rows) < len(files) {
		return fmt.Errorf("%w: aligned join produced %d rows for %d observations", ErrSchemaAssumption, len(rows), len(files))
	}
	return nil
}

// StormLabel carries the genesis-only label fields. It is present on a Label
// exactly when the row's observation coincides with a genesis event, keeping
// the two row shapes distinct instead of leaving nullable columns around.
type StormLabel struct {
	ID            string
	Lat           float64
	Lon           float64
	FirstObserved time.Time
	LastObserved  time.Time
	FirstNature   string

	// WillDevelopToTC reports whether the storm ever reaches nature "TS".
	// DevelopingDate is the time of its earliest "TS" fix, nil otherwise.
	WillDevelopToTC bool
	DevelopingDate  *time.Time
}

// Label is one output row: the genesis verdict for a single observation
// file, plus concurrent-storm context. Storm is nil on non-genesis rows.
type Label struct {
	Date    time.Time
	Genesis bool

	// TC mirrors Genesis; downstream training schemas expect both columns.
	TC bool

	Storm *StormLabel

	// OtherTCActive reports storms with a fix at the row's original
	// (unshifted) observation time, excluding the row's own storm.
	OtherTCActive    bool
	OtherTCLocations []Geo

	Path string
}

// BuildLabel computes the label for one aligned row. Lookups go through the
// index of the full domain-filtered track table; each row's result depends
// only on the row and that immutable table.
func BuildLabel(row AlignedRow, tracks *TrackIndex) Label {
	label := Label{
		Date:    row.Obs.ShiftedTime,
		Genesis: row.Genesis != nil,
		TC:      row.Genesis != nil,
		Path:    row.Obs.Path,
	}

	var stormID string
	if row.Genesis != nil {
		stormID = row.Genesis.StormID
		label.Storm = buildStormLabel(*row.Genesis, tracks)
	}

	// Concurrent activity keys on the original observation time, not the
	// lead-time-shifted one.
	for _, p := range tracks.At(row.Obs.Time) {
		if row.Genesis != nil && p.StormID == stormID {
			continue
		}
		label.OtherTCLocations = append(label.OtherTCLocations, Geo{Lat: p.Lat, Lon: p.Lon})
	}
	label.OtherTCActive = len(label.OtherTCLocations) > 0

	return label
}

func buildStormLabel(genesis TrackPoint, tracks *TrackIndex) *StormLabel {
	s := &StormLabel{
		ID:            genesis.StormID,
		Lat:           genesis.Lat,
		Lon:           genesis.Lon,
		FirstObserved: genesis.Time,
		LastObserved:  genesis.Time,
		FirstNature:   genesis.Nature,
	}

	for _, p := range tracks.Storm(genesis.StormID) {
		if p.Time.After(s.LastObserved) {
			s.LastObserved = p.Time
		}
		if p.Nature != NatureTropicalStorm {
			continue
		}
		s.WillDevelopToTC = true
		if s.DevelopingDate == nil || p.Time.Before(*s.DevelopingDate) {
			t := p.Time
			s.DevelopingDate = &t
		}
	}
	return s
}

// BuildLabels labels every aligned row against the full track table.
func BuildLabels(rows []AlignedRow, tracks *TrackIndex) []Label {
	labels := make([]Label, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, BuildLabel(row, tracks))
	}
	return labels
}

// DropPreExisting removes rows where an unrelated storm was already active
// and no genesis occurred. Genesis rows are always retained.
func DropPreExisting(labels []Label) []Label {
	kept := make([]Label, 0, len(labels))
	for _, l := range labels {
		if l.Genesis || !l.OtherTCActive {
			kept = append(kept, l)
		}
	}
	return kept
}
