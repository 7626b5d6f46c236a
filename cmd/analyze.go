package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/detection"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/scoring"
)

// analyzeCmd implements: proshooter analyze
//
// Sends a target image to the configured detector service, scores the
// returned fresh detections under the configured policy and stores the
// analysis snapshot for the exercise.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run detection and scoring over an exercise's target image",
	RunE: func(cmd *cobra.Command, args []string) error {
		exerciseID, _ := cmd.Flags().GetInt64("exercise")
		imagePath, _ := cmd.Flags().GetString("image")
		if exerciseID == 0 || imagePath == "" {
			return fmt.Errorf("both --exercise and --image are required")
		}

		detectorURL := viper.GetString("detector.url")
		if detectorURL == "" {
			return fmt.Errorf("no detector service configured. Set detector.url in ~/.proshooter.yaml")
		}

		policyName, _ := cmd.Flags().GetString("policy")
		if policyName == "" {
			policyName = viper.GetString("scoring.policy")
		}
		policy, err := scoring.ParsePolicy(policyName)
		if err != nil {
			return err
		}
		var target *scoring.TargetConfiguration
		if policy == scoring.PolicyTarget {
			targetName, _ := cmd.Flags().GetString("target")
			if targetName == "" {
				targetName = viper.GetString("scoring.target")
			}
			cfg, err := scoring.LookupTarget(targetName)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			target = &cfg
		}

		db, cleanup, err := openDB(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		if _, err := db.GetExercise(ctx, exerciseID); err != nil {
			return err
		}

		detector := detection.NewHTTPClient(detectorURL, viper.GetString("detector.token"))
		utils.Log.Infof("Analyzing %s for exercise %d...", imagePath, exerciseID)
		res, err := detector.Analyze(ctx, imagePath)
		if err != nil {
			return err
		}
		utils.Log.Infof("Detector found %d impacts (%d fresh inside, %d fresh outside)",
			res.TotalImpacts, res.FreshInside, res.FreshOutside)

		fresh := detection.FilterFresh(res.Detections)
		coords := detection.ToShotCoordinates(fresh, false, utils.Log)

		shots := make([]scoring.ShotScore, 0, len(coords))
		totalScore, maxScore := 0, 0
		for _, c := range coords {
			s, err := scoring.Score(c, res.ImageWidth, res.ImageHeight, policy, target)
			if err != nil {
				return err
			}
			shots = append(shots, s)
			totalScore += s.Score
			if s.Score > maxScore {
				maxScore = s.Score
			}
		}

		group := scoring.CalculateGroup(shots)
		an := reconcile.AnalysisSnapshot{
			TotalImpacts:      res.TotalImpacts,
			FreshInside:       res.FreshInside,
			FreshOutside:      res.FreshOutside,
			HasScoring:        true,
			TotalScore:        totalScore,
			MaxScore:          maxScore,
			ScoreDistribution: scoring.Distribution(shots),
			GroupDiameter:     group.Diameter,
		}
		if len(shots) > 0 {
			an.AverageScorePerShot = utils.Round2(float64(totalScore) / float64(len(shots)))
		}

		if err := db.SetExerciseImage(ctx, exerciseID, imagePath); err != nil {
			return err
		}
		if err := db.SaveAnalysis(ctx, exerciseID, an); err != nil {
			return err
		}

		scored, err := detection.MergeScores(fresh, shots)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "X\tY\tCONF\tSCORE\tZONE\tDIST\t")
		for _, sr := range scored {
			fmt.Fprintf(w, "%.0f\t%.0f\t%.2f\t%d\t%s\t%.1f\t\n",
				sr.CenterX, sr.CenterY, sr.Confidence, sr.Score, sr.Zone, sr.DistancePixels)
		}
		w.Flush()

		fmt.Printf("\nTotal score: %d  Max: %d  Group diameter: %.1fpx  Shots: %d\n",
			totalScore, maxScore, group.Diameter, group.ShotsCount)
		fmt.Printf("Run 'proshooter consolidate --exercise %d' to update the exercise record.\n", exerciseID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int64("exercise", 0, "Exercise ID to analyze")
	analyzeCmd.Flags().String("image", "", "Path to the target image")
	analyzeCmd.Flags().String("policy", "", "Scoring policy: target, linear, exponential, zones (default from config)")
	analyzeCmd.Flags().String("target", "", "Target configuration name for the target policy (default from config)")
}
