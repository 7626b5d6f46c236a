package reconcile

import (
	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
)

// ExerciseSnapshot is the exercise state the surrounding persistence layer
// hands to the engine. DeclaredUsed of 0 means not yet declared.
type ExerciseSnapshot struct {
	ID           int64
	SessionID    int64
	ShooterID    int64
	Allocated    int
	DeclaredUsed int
	ReactionTime *float64
	HasImage     bool
}

// AnalysisSnapshot is the latest detector analysis for an exercise's
// target image. HasScoring is false on a first pass, before the scoring
// engine has run over the detections.
type AnalysisSnapshot struct {
	TotalImpacts        int
	FreshInside         int
	FreshOutside        int
	HasScoring          bool
	TotalScore          int
	AverageScorePerShot float64
	MaxScore            int
	ScoreDistribution   map[string]int
	GroupDiameter       float64
}

// FreshImpacts is the detector-observed count reconciled against the
// allocated ammunition: only fresh holes belong to the current exercise.
func (a AnalysisSnapshot) FreshImpacts() int {
	return a.FreshInside + a.FreshOutside
}

// MetricsUpdate is the reconciled exercise record. It fully overwrites the
// exercise's stored metrics on every consolidation pass.
type MetricsUpdate struct {
	AmmunitionUsed      int
	Hits                int
	AccuracyPercentage  float64
	TotalScore          int
	AverageScorePerShot float64
	MaxScoreAchieved    int
	ScoreDistribution   map[string]int
	GroupDiameter       float64
}

// CalculateExerciseMetrics derives the reconciled metrics for one
// exercise. The ammunition count is the operator's declared value, falling
// back to the allocation; the reconciliation's recommendation is advisory
// and never substituted here. Scoring fields are copied through from the
// analysis when present.
func CalculateExerciseMetrics(ex ExerciseSnapshot, an AnalysisSnapshot) MetricsUpdate {
	used := ex.DeclaredUsed
	if used == 0 {
		used = ex.Allocated
	}

	m := MetricsUpdate{
		AmmunitionUsed:    used,
		Hits:              an.FreshInside,
		ScoreDistribution: map[string]int{},
	}
	if used > 0 {
		m.AccuracyPercentage = utils.Round2(float64(m.Hits) / float64(used) * 100)
	}
	if an.HasScoring {
		m.TotalScore = an.TotalScore
		m.AverageScorePerShot = an.AverageScorePerShot
		m.MaxScoreAchieved = an.MaxScore
		m.GroupDiameter = an.GroupDiameter
		for k, v := range an.ScoreDistribution {
			m.ScoreDistribution[k] = v
		}
	}
	return m
}
