package scoring

import (
	"strconv"
	"testing"
)

// shotAtRatio places a shot horizontally right of the image center at the
// given normalized distance, for a 1000x1000 image (radius 500).
func shotAtRatio(ratio float64) ShotCoordinate {
	return ShotCoordinate{X: 500 + ratio*500, Y: 500, Confidence: 0.9}
}

func TestScoreOutsideForAllPolicies(t *testing.T) {
	target, err := LookupTarget(DefaultTargetName)
	if err != nil {
		t.Fatal(err)
	}

	for _, policy := range []Policy{PolicyTarget, PolicyLinear, PolicyExponential, PolicyZones} {
		for _, ratio := range []float64{1.0, 1.2, 5.0} {
			got, err := Score(shotAtRatio(ratio), 1000, 1000, policy, &target)
			if err != nil {
				t.Fatalf("%s ratio=%v: %v", policy, ratio, err)
			}
			if got.Score != 0 || got.Zone != ZoneOutside {
				t.Fatalf("%s ratio=%v: got score=%d zone=%q, want 0/outside", policy, ratio, got.Score, got.Zone)
			}
		}
	}
}

func TestScoreTargetMonotonicNonIncreasing(t *testing.T) {
	target, err := LookupTarget(DefaultTargetName)
	if err != nil {
		t.Fatal(err)
	}

	prev := 11
	for ratio := 0.01; ratio < 1.0; ratio += 0.02 {
		got, err := Score(shotAtRatio(ratio), 1000, 1000, PolicyTarget, &target)
		if err != nil {
			t.Fatal(err)
		}
		if got.Score > prev {
			t.Fatalf("score increased with distance: ratio=%v score=%d prev=%d", ratio, got.Score, prev)
		}
		prev = got.Score
	}
}

func TestScoreTargetNearestEnclosingRing(t *testing.T) {
	target := TargetConfiguration{
		Name:         "test",
		CenterXRatio: 0.5,
		CenterYRatio: 0.5,
		Zones: []TargetZone{
			{Score: 10, RadiusRatio: 0.10},
			{Score: 5, RadiusRatio: 0.50},
			{Score: 1, RadiusRatio: 1.00},
		},
	}

	cases := []struct {
		ratio float64
		score int
		zone  string
	}{
		{0.05, 10, "10"},
		{0.10, 10, "10"},
		{0.11, 5, "5"},
		{0.50, 5, "5"},
		{0.51, 1, "1"},
		{0.99, 1, "1"},
	}
	for _, c := range cases {
		got, err := Score(shotAtRatio(c.ratio), 1000, 1000, PolicyTarget, &target)
		if err != nil {
			t.Fatal(err)
		}
		if got.Score != c.score || got.Zone != c.zone {
			t.Fatalf("ratio=%v: got score=%d zone=%q, want %d/%q", c.ratio, got.Score, got.Zone, c.score, c.zone)
		}
	}
}

func TestScoreTargetOffCenter(t *testing.T) {
	target, err := LookupTarget("silhouette")
	if err != nil {
		t.Fatal(err)
	}

	// Dead on the silhouette center (0.5, 0.45) of an 800x600 image.
	shot := ShotCoordinate{X: 400, Y: 270, Confidence: 1}
	got, err := Score(shot, 800, 600, PolicyTarget, &target)
	if err != nil {
		t.Fatal(err)
	}
	if got.Score != 10 || got.Zone != "center-mass" {
		t.Fatalf("got score=%d zone=%q, want 10/center-mass", got.Score, got.Zone)
	}
	if got.DistancePixels != 0 {
		t.Fatalf("distance should be 0, got %v", got.DistancePixels)
	}
}

func TestScoreLinearAndExponentialBounds(t *testing.T) {
	for ratio := 0.0; ratio < 1.0; ratio += 0.01 {
		lin, err := Score(shotAtRatio(ratio), 1000, 1000, PolicyLinear, nil)
		if err != nil {
			t.Fatal(err)
		}
		exp, err := Score(shotAtRatio(ratio), 1000, 1000, PolicyExponential, nil)
		if err != nil {
			t.Fatal(err)
		}
		if lin.Score < 0 || lin.Score > 10 || exp.Score < 0 || exp.Score > 10 {
			t.Fatalf("ratio=%v: scores out of [0,10]: lin=%d exp=%d", ratio, lin.Score, exp.Score)
		}
		if exp.Score > lin.Score {
			t.Fatalf("ratio=%v: exponential %d > linear %d", ratio, exp.Score, lin.Score)
		}
	}
}

func TestScoreLinearRoundsHalfToEven(t *testing.T) {
	cases := []struct {
		ratio float64
		want  int
	}{
		{0.25, 8}, // 7.5 rounds to 8
		{0.35, 6}, // 6.5 rounds to 6
		{0.0, 10},
	}
	for _, c := range cases {
		got, err := Score(shotAtRatio(c.ratio), 1000, 1000, PolicyLinear, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got.Score != c.want {
			t.Fatalf("ratio=%v: got %d, want %d", c.ratio, got.Score, c.want)
		}
	}
}

func TestScoreZonesTable(t *testing.T) {
	cases := []struct {
		ratio float64
		want  int
	}{
		{0.01, 10},
		{0.05, 10},
		{0.06, 9},
		{0.50, 5},
		{0.90, 1},
		{0.96, 0},
	}
	for _, c := range cases {
		got, err := Score(shotAtRatio(c.ratio), 1000, 1000, PolicyZones, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got.Score != c.want {
			t.Fatalf("ratio=%v: got %d, want %d", c.ratio, got.Score, c.want)
		}
	}
}

func TestScoreErrors(t *testing.T) {
	if _, err := Score(shotAtRatio(0.1), 1000, 1000, PolicyTarget, nil); err == nil {
		t.Fatal("expected error for target policy without configuration")
	}
	if _, err := Score(shotAtRatio(0.1), 1000, 1000, Policy("bogus"), nil); err == nil {
		t.Fatal("expected error for unknown policy")
	}
	if _, err := Score(shotAtRatio(0.1), 0, 1000, PolicyLinear, nil); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestDistributionSumsToShotCount(t *testing.T) {
	var shots []ShotScore
	for i := 0; i < 37; i++ {
		ratio := float64(i%10) / 10
		s, err := Score(shotAtRatio(ratio), 1000, 1000, PolicyLinear, nil)
		if err != nil {
			t.Fatal(err)
		}
		shots = append(shots, s)
	}

	dist := Distribution(shots)
	total := 0
	for k, v := range dist {
		if _, err := strconv.Atoi(k); err != nil {
			t.Fatalf("non-numeric distribution key %q", k)
		}
		total += v
	}
	if total != len(shots) {
		t.Fatalf("distribution sums to %d, want %d", total, len(shots))
	}
}

func TestValidateTargetConfiguration(t *testing.T) {
	for _, name := range TargetNames() {
		cfg, err := LookupTarget(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("builtin %q invalid: %v", name, err)
		}
	}

	bad := TargetConfiguration{
		Name:         "bad",
		CenterXRatio: 0.5,
		CenterYRatio: 0.5,
		Zones: []TargetZone{
			{Score: 10, RadiusRatio: 0.5},
			{Score: 9, RadiusRatio: 0.5},
		},
	}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for non-increasing radii")
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(" Linear "); err != nil || p != PolicyLinear {
		t.Fatalf("got %q, %v", p, err)
	}
	if _, err := ParsePolicy("nope"); err == nil {
		t.Fatal("expected error")
	}
}
