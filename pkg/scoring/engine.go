package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// maxDistanceRatio caps the normalizing radius used by the
// distance-from-center policies at half of the smaller image dimension.
const maxDistanceRatio = 1.0

// zoneTable is the fixed lookup used by PolicyZones: the first threshold
// that is >= the normalized distance wins, in ascending order.
var zoneTable = []struct {
	Threshold float64
	Score     int
}{
	{0.05, 10},
	{0.15, 9},
	{0.25, 8},
	{0.35, 7},
	{0.45, 6},
	{0.55, 5},
	{0.65, 4},
	{0.75, 3},
	{0.85, 2},
	{0.95, 1},
	{1.00, 0},
}

// Score converts one shot coordinate into a ShotScore under the given
// policy. PolicyTarget requires a non-nil target configuration; the other
// policies ignore it and measure from the exact image center. The function
// is pure: identical inputs always produce identical output, and
// out-of-range distances yield score 0 rather than an error. Raw
// coordinates are not bounds-checked here; that belongs to the caller.
func Score(shot ShotCoordinate, width, height int, policy Policy, target *TargetConfiguration) (ShotScore, error) {
	if width <= 0 || height <= 0 {
		return ShotScore{}, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	switch policy {
	case PolicyTarget:
		if target == nil {
			return ShotScore{}, fmt.Errorf("policy %q requires a target configuration", policy)
		}
		return scoreAgainstTarget(shot, width, height, *target), nil
	case PolicyLinear, PolicyExponential, PolicyZones:
		return scoreByDistance(shot, width, height, policy), nil
	}
	return ShotScore{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
}

func scoreAgainstTarget(shot ShotCoordinate, width, height int, target TargetConfiguration) ShotScore {
	cx := target.CenterXRatio * float64(width)
	cy := target.CenterYRatio * float64(height)
	dist := math.Hypot(shot.X-cx, shot.Y-cy)
	radius := float64(min(width, height)) / 2
	ratio := dist / radius

	s := ShotScore{
		Coordinate:     shot,
		DistancePixels: dist,
		DistanceRatio:  ratio,
	}
	if ratio >= 1 {
		s.Zone = ZoneOutside
		return s
	}

	zones := make([]TargetZone, len(target.Zones))
	copy(zones, target.Zones)
	sort.Slice(zones, func(i, j int) bool { return zones[i].RadiusRatio < zones[j].RadiusRatio })
	for _, z := range zones {
		if z.RadiusRatio >= ratio {
			s.Score = z.Score
			s.Zone = zoneLabel(z)
			return s
		}
	}
	s.Zone = ZoneOutside
	return s
}

func scoreByDistance(shot ShotCoordinate, width, height int, policy Policy) ShotScore {
	cx := float64(width) / 2
	cy := float64(height) / 2
	dist := math.Hypot(shot.X-cx, shot.Y-cy)
	radius := float64(min(width, height)) / 2 * maxDistanceRatio
	ratio := dist / radius

	s := ShotScore{
		Coordinate:     shot,
		DistancePixels: dist,
		DistanceRatio:  ratio,
	}
	if ratio >= 1 {
		s.Zone = ZoneOutside
		return s
	}

	var score int
	switch policy {
	case PolicyLinear:
		score = clampScore(math.RoundToEven(10 * (1 - ratio)))
	case PolicyExponential:
		score = clampScore(math.RoundToEven(10 * (1 - ratio) * (1 - ratio)))
	case PolicyZones:
		for _, e := range zoneTable {
			if e.Threshold >= ratio {
				score = e.Score
				break
			}
		}
	}
	s.Score = score
	s.Zone = strconv.Itoa(score)
	return s
}

func clampScore(f float64) int {
	if f < 0 {
		return 0
	}
	if f > 10 {
		return 10
	}
	return int(f)
}

func zoneLabel(z TargetZone) string {
	if z.Label != "" {
		return z.Label
	}
	return strconv.Itoa(z.Score)
}

func sortZonesByScoreDesc(zones []TargetZone) {
	sort.Slice(zones, func(i, j int) bool { return zones[i].Score > zones[j].Score })
}

// Distribution counts scored shots per score value, keyed "0".."10".
// The counts always sum to len(shots).
func Distribution(shots []ShotScore) map[string]int {
	dist := make(map[string]int, 11)
	for _, s := range shots {
		dist[strconv.Itoa(s.Score)]++
	}
	return dist
}
