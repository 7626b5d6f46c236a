package scoring

import "math"

// GroupStatistics describes the spatial cluster formed by the scored shots
// of one exercise.
type GroupStatistics struct {
	CenterX               float64
	CenterY               float64
	Diameter              float64
	AvgDistanceFromCenter float64
	StdDeviation          float64
	ShotsCount            int
}

// CalculateGroup computes the centroid, the maximum pairwise spread and the
// mean/standard deviation of each shot's Euclidean distance from the
// centroid. An empty input yields the zero value, never an error.
//
// The pairwise diameter scan is O(n²); group sizes are tens of shots at
// most, so this stays cheap.
func CalculateGroup(shots []ShotScore) GroupStatistics {
	n := len(shots)
	if n == 0 {
		return GroupStatistics{}
	}

	var sumX, sumY float64
	for _, s := range shots {
		sumX += s.Coordinate.X
		sumY += s.Coordinate.Y
	}
	cx := sumX / float64(n)
	cy := sumY / float64(n)

	var diameter float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(
				shots[i].Coordinate.X-shots[j].Coordinate.X,
				shots[i].Coordinate.Y-shots[j].Coordinate.Y,
			)
			if d > diameter {
				diameter = d
			}
		}
	}

	var sumDist float64
	dists := make([]float64, n)
	for i, s := range shots {
		d := math.Hypot(s.Coordinate.X-cx, s.Coordinate.Y-cy)
		dists[i] = d
		sumDist += d
	}
	avg := sumDist / float64(n)

	var sumSq float64
	for _, d := range dists {
		diff := d - avg
		sumSq += diff * diff
	}

	return GroupStatistics{
		CenterX:               cx,
		CenterY:               cy,
		Diameter:              diameter,
		AvgDistanceFromCenter: avg,
		StdDeviation:          math.Sqrt(sumSq / float64(n)),
		ShotsCount:            n,
	}
}
