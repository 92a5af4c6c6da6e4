package domain

import "time"

// NatureTropicalStorm is the IBTrACS nature code for a tropical storm; a
// system that ever reaches it counts as developing into a TC.
const NatureTropicalStorm = "TS"

// TrackPoint is one best-track catalog fix: a storm's position and
// classification at an instant. Longitude is already normalized to (0, 360].
type TrackPoint struct {
	StormID string
	Time    time.Time
	Lat     float64
	Lon     float64
	Nature  string
}

// Geo is a latitude/longitude pair.
type Geo struct {
	Lat float64
	Lon float64
}

// SpatialDomain is the bounding box of the observation grid. Track points
// outside it are excluded from all downstream processing.
type SpatialDomain struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Contains reports whether the point lies inside the box, bounds inclusive.
func (d SpatialDomain) Contains(lat, lon float64) bool {
	return lat >= d.LatMin && lat <= d.LatMax &&
		lon >= d.LonMin && lon <= d.LonMax
}

// NormalizeLongitude maps a catalog longitude onto the observation grid's
// (0, 360] convention: values <= 0 gain 360, positive values pass through.
func NormalizeLongitude(lon float64) float64 {
	if lon > 0 {
		return lon
	}
	return lon + 360
}

// FilterDomain returns the track points inside the bounding box, preserving
// catalog order.
func FilterDomain(points []TrackPoint, d SpatialDomain) []TrackPoint {
	var kept []TrackPoint
	for _, p := range points {
		if d.Contains(p.Lat, p.Lon) {
			kept = append(kept, p)
		}
	}
	return kept
}

// GenesisEvents derives one genesis event per storm: its chronologically
// earliest track point. Storms appear in first-seen catalog order, and a
// timestamp tie within a storm resolves to the earlier catalog row, so the
// result is deterministic even for unsorted input.
func GenesisEvents(points []TrackPoint) []TrackPoint {
	earliest := make(map[string]TrackPoint)
	var order []string
	for _, p := range points {
		cur, seen := earliest[p.StormID]
		if !seen {
			earliest[p.StormID] = p
			order = append(order, p.StormID)
			continue
		}
		if p.Time.Before(cur.Time) {
			earliest[p.StormID] = p
		}
	}

	genesis := make([]TrackPoint, 0, len(order))
	for _, id := range order {
		genesis = append(genesis, earliest[id])
	}
	return genesis
}

// TrackIndex provides direct lookups into a track table by storm id and by
// timestamp. Both views preserve catalog order. The index is immutable after
// construction, so concurrent readers need no locking.
type TrackIndex struct {
	byStorm map[string][]TrackPoint
	byTime  map[time.Time][]TrackPoint
}

// NewTrackIndex builds an index over the given track points.
func NewTrackIndex(points []TrackPoint) *TrackIndex {
	ix := &TrackIndex{
		byStorm: make(map[string][]TrackPoint),
		byTime:  make(map[time.Time][]TrackPoint),
	}
	for _, p := range points {
		ix.byStorm[p.StormID] = append(ix.byStorm[p.StormID], p)
		ix.byTime[p.Time] = append(ix.byTime[p.Time], p)
	}
	return ix
}

// Storm returns every track point for the given storm id, in catalog order.
func (ix *TrackIndex) Storm(id string) []TrackPoint {
	return ix.byStorm[id]
}

// At returns every track point with exactly the given timestamp, in catalog
// order.
func (ix *TrackIndex) At(t time.Time) []TrackPoint {
	return ix.byTime[t]
}
