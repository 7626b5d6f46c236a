package scoring

import (
	"math"
	"testing"
)

func shotsAt(points ...[2]float64) []ShotScore {
	out := make([]ShotScore, 0, len(points))
	for _, p := range points {
		out = append(out, ShotScore{Coordinate: ShotCoordinate{X: p[0], Y: p[1]}})
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateGroupEmpty(t *testing.T) {
	got := CalculateGroup(nil)
	if got != (GroupStatistics{}) {
		t.Fatalf("expected zero statistics, got %+v", got)
	}
}

func TestCalculateGroupSingleShot(t *testing.T) {
	got := CalculateGroup(shotsAt([2]float64{120, 340}))
	if got.ShotsCount != 1 {
		t.Fatalf("shots count = %d, want 1", got.ShotsCount)
	}
	if got.CenterX != 120 || got.CenterY != 340 {
		t.Fatalf("centroid = (%v,%v), want (120,340)", got.CenterX, got.CenterY)
	}
	if got.Diameter != 0 || got.AvgDistanceFromCenter != 0 || got.StdDeviation != 0 {
		t.Fatalf("single shot should have zero spread, got %+v", got)
	}
}

func TestCalculateGroupTwoShots(t *testing.T) {
	// 3-4-5 triangle: distance is exactly 5.
	got := CalculateGroup(shotsAt([2]float64{0, 0}, [2]float64{3, 4}))
	if !almostEqual(got.Diameter, 5) {
		t.Fatalf("diameter = %v, want 5", got.Diameter)
	}
	if !almostEqual(got.CenterX, 1.5) || !almostEqual(got.CenterY, 2) {
		t.Fatalf("centroid = (%v,%v), want (1.5,2)", got.CenterX, got.CenterY)
	}
	if !almostEqual(got.AvgDistanceFromCenter, 2.5) {
		t.Fatalf("avg distance = %v, want 2.5", got.AvgDistanceFromCenter)
	}
	if !almostEqual(got.StdDeviation, 0) {
		t.Fatalf("two symmetric shots should have zero deviation, got %v", got.StdDeviation)
	}
}

func TestCalculateGroupUsesEuclideanDistance(t *testing.T) {
	// Shots offset purely on one axis from the centroid. The buggy
	// multiplicative formula sqrt(dx²·dy²) would report distance 0 here;
	// true Euclidean distance does not.
	got := CalculateGroup(shotsAt([2]float64{100, 50}, [2]float64{100, 150}))
	if !almostEqual(got.AvgDistanceFromCenter, 50) {
		t.Fatalf("avg distance = %v, want 50", got.AvgDistanceFromCenter)
	}
}

func TestCalculateGroupSquare(t *testing.T) {
	got := CalculateGroup(shotsAt(
		[2]float64{0, 0},
		[2]float64{10, 0},
		[2]float64{0, 10},
		[2]float64{10, 10},
	))
	if !almostEqual(got.CenterX, 5) || !almostEqual(got.CenterY, 5) {
		t.Fatalf("centroid = (%v,%v), want (5,5)", got.CenterX, got.CenterY)
	}
	if !almostEqual(got.Diameter, 10*math.Sqrt2) {
		t.Fatalf("diameter = %v, want %v", got.Diameter, 10*math.Sqrt2)
	}
	if !almostEqual(got.AvgDistanceFromCenter, 5*math.Sqrt2) {
		t.Fatalf("avg distance = %v, want %v", got.AvgDistanceFromCenter, 5*math.Sqrt2)
	}
	if !almostEqual(got.StdDeviation, 0) {
		t.Fatalf("symmetric square should have zero deviation, got %v", got.StdDeviation)
	}
}
