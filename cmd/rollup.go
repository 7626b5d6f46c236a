package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whoAngeel/proshooter-backend-sub000/internal/utils"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
)

// rollupCmd implements: proshooter rollup
var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Recompute a session's totals from its exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetInt64("session")
		if sessionID == 0 {
			return fmt.Errorf("--session is required")
		}

		db, cleanup, err := openDB(cmd, true)
		if err != nil {
			return err
		}
		defer cleanup()

		c := reconcile.New(db, utils.Log)
		totals, err := c.RecomputeSessionTotals(context.Background(), sessionID)
		if err != nil {
			return err
		}
		printTotals(totals)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollupCmd)

	rollupCmd.Flags().Int64("session", 0, "Session ID to roll up")
}
