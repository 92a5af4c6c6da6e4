// Package domain models tropical-cyclone best-track data and the genesis
// labels derived from it.
//
// # Data Source
//
// Storm tracks come from the IBTrACS (International Best Track Archive for
// Climate Stewardship) CSV export, available at
// https://www.ncei.noaa.gov/products/international-best-track-archive. The
// file carries a header row followed by a units row, then one row per storm
// fix. The columns this package reads:
//
//	SID       storm identifier, stable across the storm's lifetime
//	ISO_TIME  fix time, "YYYY-MM-DD HH:MM:SS" UTC
//	LAT, LON  position in degrees; LON may be negative (west of Greenwich)
//	NATURE    classification code at that fix, e.g. "DS", "TS", "ET", "NR"
//
// # Conventions
//
// Longitude:
//
//	Observation grids use [0, 360) longitudes, so catalog longitudes are
//	normalized on load: values <= 0 gain 360. Note that 0 maps to 360, so the
//	normalized range is (0, 360]. See [NormalizeLongitude].
//
// Genesis:
//
//	A storm's genesis is its chronologically earliest track point. Ties on
//	the timestamp resolve to the point that appears first in the catalog.
//
// Lead time:
//
//	Observation timestamps are shifted forward by the lead time before being
//	matched against genesis times, so a label answers "does a storm form
//	<leadtime> hours from now?". Concurrent-storm checks always use the
//	original, unshifted observation time.
//
// Spatial domain:
//
//	The lat/lon extent of the observation grid bounds all track data; points
//	outside the box are invisible to every downstream step.
//
// Observation filenames:
//
//	"<prefix>_YYYYMMDD_HH_MM.<ext>", e.g. "obs_20230801_00_00.nc" for
//	2023-08-01T00:00Z. The prefix must not itself contain underscores.
//	Parsed by [ParseObservationTime].
package domain
