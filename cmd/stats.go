package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the shooters and sessions in the database.",
	Long:  "Prints statistics about the shooters and sessions in the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openDB(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SHOOTER\tLEVEL\tSESSIONS\tHITS\tAVG ACCURACY\t")

		var totalSessions, totalHits int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f%%\t\n", s.Name, s.Level, s.SessionCount, s.ExerciseHits, s.AvgAccuracy)
			totalSessions += s.SessionCount
			totalHits += s.ExerciseHits
		}

		fmt.Fprintln(w, " \t \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t \t%d\t%d\t \t\n", totalSessions, totalHits)

		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
