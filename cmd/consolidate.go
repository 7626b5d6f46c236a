package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
)

// consolidateCmd implements: proshooter consolidate
//
// Reconciles declared ammunition against detected impacts and overwrites
// the exercise's stored metrics, either for one exercise or for a whole
// session.
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Reconcile ammunition counts and update exercise metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		exerciseID, _ := cmd.Flags().GetInt64("exercise")
		sessionID, _ := cmd.Flags().GetInt64("session")
		if (exerciseID == 0) == (sessionID == 0) {
			return fmt.Errorf("exactly one of --exercise or --session is required")
		}

		db, cleanup, err := openDB(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		c := reconcile.New(db, utils.Log)
		ctx := context.Background()

		if exerciseID != 0 {
			res, err := c.UpdateExerciseFromAnalysis(ctx, exerciseID)
			if err != nil {
				return err
			}
			printConsolidation(res)
			return nil
		}

		batch, err := c.ConsolidateSessionExercises(ctx, sessionID)
		if err != nil {
			return err
		}
		for _, item := range batch.Items {
			switch {
			case item.Skipped:
				fmt.Printf("exercise %d: skipped (%s)\n", item.ExerciseID, item.Reason)
			case item.Result == nil:
				fmt.Printf("exercise %d: FAILED (%s)\n", item.ExerciseID, item.Reason)
			default:
				printConsolidation(item.Result)
			}
		}
		fmt.Printf("\nSession %d: %d consolidated, %d skipped, %d failed\n",
			batch.SessionID, batch.Consolidated, batch.Skipped, batch.Failed)
		printTotals(batch.Totals)
		return nil
	},
}

func printConsolidation(res *reconcile.ConsolidationResult) {
	v := res.Validation
	fmt.Printf("exercise %d: %s (allocated=%d detected=%d recommended=%d)\n",
		res.ExerciseID, v.Status, v.Allocated, v.DetectedImpacts, v.RecommendedUsed)
	if v.Warning != "" {
		fmt.Printf("  warning: %s\n", v.Warning)
	}
	if v.NeedsManualReview {
		fmt.Println("  NEEDS MANUAL REVIEW")
	}
	m := res.Metrics
	fmt.Printf("  used=%d hits=%d accuracy=%.2f%% score=%d avg=%.2f max=%d group=%.1fpx\n",
		m.AmmunitionUsed, m.Hits, m.AccuracyPercentage, m.TotalScore, m.AverageScorePerShot, m.MaxScoreAchieved, m.GroupDiameter)
}

func printTotals(t reconcile.SessionTotals) {
	fmt.Printf("Totals: shots=%d hits=%d accuracy=%.2f%% score=%d best=%d avg/exercise=%.2f avg/shot=%.2f\n",
		t.TotalShotsFired, t.TotalHits, t.AccuracyPercentage, t.TotalSessionScore,
		t.BestShotScore, t.AverageScorePerExercise, t.AverageScorePerShot)
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().Int64("exercise", 0, "Consolidate a single exercise")
	consolidateCmd.Flags().Int64("session", 0, "Consolidate every exercise of a session")
}
