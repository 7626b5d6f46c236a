package reconcile

import (
	"context"
	"fmt"

	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
)

// SessionTotals is the session-level aggregate over all exercises
// currently attached to the session.
type SessionTotals struct {
	TotalShotsFired         int
	TotalHits               int
	AccuracyPercentage      float64
	TotalSessionScore       int
	AverageScorePerExercise float64
	AverageScorePerShot     float64
	BestShotScore           int
	ExerciseCount           int
}

// ComputeSessionTotals derives session totals from scratch. It is a pure
// function of the exercise metrics, which is what makes the rollup safe to
// re-run: no counter is ever patched incrementally.
func ComputeSessionTotals(metrics []MetricsUpdate) SessionTotals {
	t := SessionTotals{ExerciseCount: len(metrics)}
	for _, m := range metrics {
		t.TotalShotsFired += m.AmmunitionUsed
		t.TotalHits += m.Hits
		t.TotalSessionScore += m.TotalScore
		if m.MaxScoreAchieved > t.BestShotScore {
			t.BestShotScore = m.MaxScoreAchieved
		}
	}
	if t.TotalShotsFired > 0 {
		t.AccuracyPercentage = utils.Round2(float64(t.TotalHits) / float64(t.TotalShotsFired) * 100)
		t.AverageScorePerShot = utils.Round2(float64(t.TotalSessionScore) / float64(t.TotalShotsFired))
	}
	if t.ExerciseCount > 0 {
		t.AverageScorePerExercise = utils.Round2(float64(t.TotalSessionScore) / float64(t.ExerciseCount))
	}
	return t
}

// RecomputeSessionTotals re-derives and persists the totals for one
// session. Idempotent: calling it again without exercise changes writes
// the same values.
func (c *Consolidator) RecomputeSessionTotals(ctx context.Context, sessionID int64) (SessionTotals, error) {
	metrics, err := c.store.ListSessionMetrics(ctx, sessionID)
	if err != nil {
		return SessionTotals{}, fmt.Errorf("session %d: loading exercise metrics: %w", sessionID, err)
	}
	totals := ComputeSessionTotals(metrics)
	if err := c.store.UpdateSessionTotals(ctx, sessionID, totals); err != nil {
		return SessionTotals{}, fmt.Errorf("session %d: persisting totals: %w", sessionID, err)
	}
	return totals, nil
}
