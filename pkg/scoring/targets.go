package scoring

import "fmt"

// DefaultTargetName is used when no target is configured explicitly.
const DefaultTargetName = "precision-10"

// builtinTargets holds the scoring layouts shipped with the engine. Radii
// are fractions of half the smaller image dimension, strictly increasing
// as scores decrease.
var builtinTargets = map[string]TargetConfiguration{
	"precision-10": {
		Name:         "precision-10",
		CenterXRatio: 0.5,
		CenterYRatio: 0.5,
		Zones: []TargetZone{
			{Score: 10, RadiusRatio: 0.10},
			{Score: 9, RadiusRatio: 0.20},
			{Score: 8, RadiusRatio: 0.30},
			{Score: 7, RadiusRatio: 0.40},
			{Score: 6, RadiusRatio: 0.50},
			{Score: 5, RadiusRatio: 0.60},
			{Score: 4, RadiusRatio: 0.70},
			{Score: 3, RadiusRatio: 0.80},
			{Score: 2, RadiusRatio: 0.90},
			{Score: 1, RadiusRatio: 1.00},
		},
	},
	// Silhouette targets hang slightly high on the range backers, so the
	// scoring center sits above the image midpoint.
	"silhouette": {
		Name:         "silhouette",
		CenterXRatio: 0.5,
		CenterYRatio: 0.45,
		Zones: []TargetZone{
			{Score: 10, RadiusRatio: 0.15, Label: "center-mass"},
			{Score: 8, RadiusRatio: 0.40, Label: "inner"},
			{Score: 5, RadiusRatio: 0.70, Label: "outer"},
			{Score: 2, RadiusRatio: 1.00, Label: "edge"},
		},
	},
}

// LookupTarget returns the named built-in target configuration.
func LookupTarget(name string) (TargetConfiguration, error) {
	if name == "" {
		name = DefaultTargetName
	}
	cfg, ok := builtinTargets[name]
	if !ok {
		return TargetConfiguration{}, fmt.Errorf("unknown target configuration %q", name)
	}
	return cfg, nil
}

// TargetNames lists the available built-in configurations.
func TargetNames() []string {
	names := make([]string, 0, len(builtinTargets))
	for n := range builtinTargets {
		names = append(names, n)
	}
	return names
}
