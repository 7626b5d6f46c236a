package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ShotCoordinate is the pixel location of one detected impact, together
// with the detector's confidence for it.
type ShotCoordinate struct {
	X          float64
	Y          float64
	Confidence float64
}

// TargetZone is one scoring ring: an integer score and the ring radius
// expressed as a fraction of the target's half-size.
type TargetZone struct {
	Score       int
	RadiusRatio float64
	Label       string
}

// TargetConfiguration is a named scoring layout: where the target center
// sits within the image (as width/height ratios) and the ordered ring list.
type TargetConfiguration struct {
	Name         string
	CenterXRatio float64
	CenterYRatio float64
	Zones        []TargetZone
}

// Validate checks the structural invariants of a configuration: center
// ratios within [0,1], a non-empty zone list, every radius in (0,1], and
// strictly increasing radii when zones are ordered by score descending.
func (c TargetConfiguration) Validate() error {
	if c.CenterXRatio < 0 || c.CenterXRatio > 1 || c.CenterYRatio < 0 || c.CenterYRatio > 1 {
		return fmt.Errorf("target %q: center ratios out of [0,1]", c.Name)
	}
	if len(c.Zones) == 0 {
		return fmt.Errorf("target %q: empty zone list", c.Name)
	}
	byScore := make([]TargetZone, len(c.Zones))
	copy(byScore, c.Zones)
	sortZonesByScoreDesc(byScore)
	prev := 0.0
	for _, z := range byScore {
		if z.RadiusRatio <= 0 || z.RadiusRatio > 1 {
			return fmt.Errorf("target %q: zone %d radius %v out of (0,1]", c.Name, z.Score, z.RadiusRatio)
		}
		if z.RadiusRatio <= prev {
			return fmt.Errorf("target %q: zone radii must strictly increase as scores decrease", c.Name)
		}
		prev = z.RadiusRatio
	}
	return nil
}

// ShotScore is the outcome of scoring a single shot.
type ShotScore struct {
	Coordinate     ShotCoordinate
	Score          int
	Zone           string
	DistancePixels float64
	DistanceRatio  float64
}

// ZoneOutside is the zone label assigned to shots that land at or beyond
// the normalizing radius.
const ZoneOutside = "outside"

// Policy selects how a shot coordinate is turned into a score.
type Policy string

const (
	// PolicyTarget scores against a named TargetConfiguration's zone table.
	PolicyTarget Policy = "target"
	// PolicyLinear scores by linear falloff from the image center.
	PolicyLinear Policy = "linear"
	// PolicyExponential scores by quadratic falloff from the image center.
	PolicyExponential Policy = "exponential"
	// PolicyZones scores by a fixed 11-step distance lookup table.
	PolicyZones Policy = "zones"
)

var ErrUnknownPolicy = errors.New("unknown scoring policy")

// ParsePolicy maps a user-supplied policy name onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyTarget:
		return PolicyTarget, nil
	case PolicyLinear:
		return PolicyLinear, nil
	case PolicyExponential:
		return PolicyExponential, nil
	case PolicyZones:
		return PolicyZones, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
