// Package observations indexes gridded observation files and reads the
// spatial extent of their grid.
package observations

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/tringuyen180303/TC-Prediction/internal/domain"
)

// Indexer enumerates observation files in a directory.
type Indexer struct{}

// NewIndexer creates an Indexer.
func NewIndexer() *Indexer {
	return &Indexer{}
}

// ListFiles finds every *.nc file under dir, parses each filename's
// timestamp, applies the lead-time shift, and returns the files sorted by
// shifted timestamp. An empty directory wraps [domain.ErrInputContract]; a
// filename that does not follow the naming convention wraps
// [domain.ErrParse] and fails the whole listing.
func (x *Indexer) ListFiles(dir string, leadTime time.Duration) ([]domain.ObservationFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.nc"))
	if err != nil {
		return nil, fmt.Errorf("%w: list observations in %s: %v", domain.ErrInputContract, dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no observation files in %s", domain.ErrInputContract, dir)
	}

	files := make([]domain.ObservationFile, 0, len(paths))
	for _, p := range paths {
		f, err := domain.NewObservationFile(p, leadTime)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ShiftedTime.Before(files[j].ShiftedTime)
	})
	return files, nil
}
