// Command genmock generates a synthetic storm season for exercising the
// label pipeline without real data: an IBTrACS-style best-track CSV plus
// 6-hourly observation grid files whose filenames follow the
// <prefix>_YYYYMMDD_HH_MM.nc convention.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -observations-dir data/mock/obs \
//	  -best-track data/mock/ibtracs.mock.csv \
//	  -start 2023-08-01 -days 10 -storms 3 -seed 42
//
// Output is deterministic for a given seed, so fixtures can be regenerated
// byte-identically.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
)

const (
	isoTimeLayout = "2006-01-02 15:04:05"
	fileLayout    = "20060102_15_04"
	step          = 6 * time.Hour
)

// grid is the synthetic observation domain: western North Pacific at 1 degree.
var grid = struct {
	latMin, latMax float64
	lonMin, lonMax float64
}{latMin: 5, latMax: 45, lonMin: 100, lonMax: 180}

type fix struct {
	sid    string
	t      time.Time
	lat    float64
	lon    float64
	nature string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	obsDir := flag.String("observations-dir", "", "output directory for observation .nc files")
	bestTrack := flag.String("best-track", "", "output path for the mock best-track CSV")
	start := flag.String("start", "2023-08-01", "season start date (YYYY-MM-DD)")
	days := flag.Int("days", 10, "season length in days")
	storms := flag.Int("storms", 3, "number of synthetic storms")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if *obsDir == "" || *bestTrack == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -observations-dir, -best-track")
	}

	startTime, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	slots := *days * 4 // 6-hourly

	fixes := makeSeason(rng, startTime, slots, *storms)
	if err := writeBestTrack(*bestTrack, fixes); err != nil {
		return fmt.Errorf("writing best track: %w", err)
	}
	log.Printf("wrote best track: %s (%d fixes, %d storms)", *bestTrack, len(fixes), *storms)

	if err := os.MkdirAll(*obsDir, 0o755); err != nil {
		return err
	}
	for i := 0; i < slots; i++ {
		t := startTime.Add(time.Duration(i) * step)
		path := filepath.Join(*obsDir, "obs_"+t.Format(fileLayout)+".nc")
		if err := writeObservation(path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	log.Printf("wrote %d observation files to %s", slots, *obsDir)
	return nil
}

// makeSeason builds storm tracks snapped to the 6-hourly slot grid so the
// genesis join has timestamps to hit. Roughly two in three storms develop
// into a tropical storm partway through their life.
func makeSeason(rng *rand.Rand, start time.Time, slots, storms int) []fix {
	var fixes []fix
	for i := 0; i < storms; i++ {
		life := 4 + rng.Intn(9) // fixes per storm
		genesisSlot := rng.Intn(max(1, slots-life))
		genesis := start.Add(time.Duration(genesisSlot) * step)

		sid := fmt.Sprintf("%d%03dN%02d%03d", start.Year(), genesis.YearDay(), 10+i, 120+10*i)
		lat := grid.latMin + 5 + rng.Float64()*20
		lon := grid.lonMax - 10 - rng.Float64()*50

		develops := rng.Float64() < 0.67
		developAt := life / 2

		for j := 0; j < life; j++ {
			nature := "DS"
			if develops && j >= developAt {
				nature = "TS"
			}
			fixes = append(fixes, fix{
				sid:    sid,
				t:      genesis.Add(time.Duration(j) * step),
				lat:    lat,
				lon:    lon,
				nature: nature,
			})
			// Drift northwest.
			lat += 0.3 + rng.Float64()*0.4
			lon -= 0.5 + rng.Float64()*0.5
		}
	}

	sort.SliceStable(fixes, func(i, j int) bool { return fixes[i].t.Before(fixes[j].t) })
	return fixes
}

func writeBestTrack(path string, fixes []fix) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"SID", "SEASON", "BASIN", "ISO_TIME", "NATURE", "LAT", "LON"},
		{"", "Year", "", "", "", "degrees_north", "degrees_east"},
	}
	for _, fx := range fixes {
		rows = append(rows, []string{
			fx.sid,
			strconv.Itoa(fx.t.Year()),
			"WP",
			fx.t.Format(isoTimeLayout),
			fx.nature,
			strconv.FormatFloat(fx.lat, 'f', 1, 64),
			strconv.FormatFloat(fx.lon, 'f', 1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// writeObservation creates a minimal grid file carrying just the lat/lon
// coordinate variables the domain reader needs.
func writeObservation(path string) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return err
	}
	defer ds.Close()

	lat := coordRange(grid.latMin, grid.latMax, 1)
	lon := coordRange(grid.lonMin, grid.lonMax, 1)

	latDim, err := ds.AddDim("lat", uint64(len(lat)))
	if err != nil {
		return err
	}
	lonDim, err := ds.AddDim("lon", uint64(len(lon)))
	if err != nil {
		return err
	}

	latVar, err := ds.AddVar("lat", netcdf.DOUBLE, []netcdf.Dim{latDim})
	if err != nil {
		return err
	}
	if err := latVar.WriteFloat64s(lat); err != nil {
		return err
	}

	lonVar, err := ds.AddVar("lon", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	if err != nil {
		return err
	}
	return lonVar.WriteFloat64s(lon)
}

func coordRange(lo, hi, res float64) []float64 {
	n := int((hi-lo)/res) + 1
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = lo + float64(i)*res
	}
	return vals
}
