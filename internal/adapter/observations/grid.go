package observations

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/tringuyen180303/TC-Prediction/internal/domain"
)

// DomainReader computes the spatial bounding box of an observation grid.
type DomainReader struct{}

// NewDomainReader creates a DomainReader.
func NewDomainReader() *DomainReader {
	return &DomainReader{}
}

// ReadDomain opens the NetCDF file at path and returns the extent of its
// "lat" and "lon" coordinate variables. Any failure wraps
// [domain.ErrInputContract]: an unreadable domain file is the caller's
// problem, not a parse issue.
func (r *DomainReader) ReadDomain(path string) (domain.SpatialDomain, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return domain.SpatialDomain{}, fmt.Errorf("%w: open observation grid %s: %v", domain.ErrInputContract, path, err)
	}
	defer ds.Close()

	lat, err := readCoord(ds, "lat")
	if err != nil {
		return domain.SpatialDomain{}, fmt.Errorf("%w: %s: %v", domain.ErrInputContract, path, err)
	}
	lon, err := readCoord(ds, "lon")
	if err != nil {
		return domain.SpatialDomain{}, fmt.Errorf("%w: %s: %v", domain.ErrInputContract, path, err)
	}

	latMin, latMax := extent(lat)
	lonMin, lonMax := extent(lon)
	return domain.SpatialDomain{
		LatMin: latMin,
		LatMax: latMax,
		LonMin: lonMin,
		LonMax: lonMax,
	}, nil
}

func readCoord(ds netcdf.Dataset, name string) ([]float64, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, fmt.Errorf("coordinate variable %q: %w", name, err)
	}

	n, err := v.Len()
	if err != nil {
		return nil, fmt.Errorf("coordinate variable %q length: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("coordinate variable %q is empty", name)
	}

	data := make([]float64, n)
	if err := v.ReadFloat64s(data); err != nil {
		return nil, fmt.Errorf("read coordinate variable %q: %w", name, err)
	}
	return data, nil
}

func extent(values []float64) (float64, float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}
