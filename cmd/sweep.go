package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var skipReview bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the compliance sweep and weekly tier review once",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(loadConfig())
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		sweep, err := rt.sweep.RunOnce(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("compliance sweep: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "compliance: %d checked, %d red, %d amber, %d green, %d reminders\n",
			sweep.Checked, sweep.Red, sweep.Amber, sweep.Green, sweep.Reminders)

		if skipReview {
			return nil
		}
		review, err := rt.review.RunOnce(ctx)
		if err != nil {
			return fmt.Errorf("tier review: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tiers: %d reviewed, %d promoted, %d demoted, %d failed\n",
			review.Reviewed, review.Promoted, review.Demoted, review.Failed)
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&skipReview, "skip-review", false, "Only run the compliance sweep")
}
