package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// obsTimeLayout matches the timestamp embedded in observation filenames
// after the prefix is stripped, e.g. "20230801_00_00".
const obsTimeLayout = "20060102_15_04"

// ObservationFile is one gridded observation file. Time comes from the
// filename; ShiftedTime is Time plus the run's lead time and is the key used
// for the genesis join. Immutable after creation.
type ObservationFile struct {
	Time        time.Time
	ShiftedTime time.Time
	Path        string
}

// NewObservationFile parses the timestamp out of path's filename and applies
// the lead-time shift. The error wraps [ErrParse] when the filename does not
// follow the "<prefix>_YYYYMMDD_HH_MM.<ext>" convention.
func NewObservationFile(path string, leadTime time.Duration) (ObservationFile, error) {
	t, err := ParseObservationTime(path)
	if err != nil {
		return ObservationFile{}, err
	}
	return ObservationFile{
		Time:        t,
		ShiftedTime: t.Add(leadTime),
		Path:        path,
	}, nil
}

// ParseObservationTime extracts the UTC timestamp encoded in an observation
// filename: the extension is stripped, the stem is split on "_", the first
// token (the non-date prefix) is discarded, and the remainder must parse as
// YYYYMMDD_HH_MM.
func ParseObservationTime(path string) (time.Time, error) {
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("%w: observation filename %q has no timestamp part", ErrParse, filepath.Base(path))
	}

	t, err := time.Parse(obsTimeLayout, strings.Join(parts[1:], "_"))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: observation filename %q: %v", ErrParse, filepath.Base(path), err)
	}
	return t, nil
}
