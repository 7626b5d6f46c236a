package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/classify"
)

// classifyCmd implements: proshooter classify
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Evaluate a shooter's auto-classification",
	Long: `Inspects the shooter's five most recent finished-session evaluations and
decides whether the shooter advances exactly one level. Without --apply the
decision is only printed, nothing is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shooterID, _ := cmd.Flags().GetInt64("shooter")
		if shooterID == 0 {
			return fmt.Errorf("--shooter is required")
		}
		apply, _ := cmd.Flags().GetBool("apply")

		db, cleanup, err := openDB(cmd, apply)
		if err != nil {
			return err
		}
		defer cleanup()

		c := classify.New(db)
		ctx := context.Background()

		var d classify.Decision
		if apply {
			d, err = c.Apply(ctx, shooterID)
		} else {
			d, err = c.Evaluate(ctx, shooterID)
		}
		if err != nil {
			return err
		}

		if d.Promoted {
			fmt.Printf("shooter %d: %s -> %s (%s)\n", d.ShooterID, d.Current, d.Proposed, d.Reason)
			if !apply {
				fmt.Println("Dry run. Re-run with --apply to persist the promotion.")
			}
		} else {
			fmt.Printf("shooter %d: stays %s (%s)\n", d.ShooterID, d.Current, d.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Int64("shooter", 0, "Shooter ID to classify")
	classifyCmd.Flags().Bool("apply", false, "Persist the promotion if one is due")
}
