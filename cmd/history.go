package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent training sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		drillFlag, _ := cmd.Flags().GetString("drill")

		opts := store.QueryOpts{Limit: limit}
		if drillFlag != "" {
			opts.DrillID = drill.ID(drillFlag)
			if !opts.DrillID.Valid() {
				return fmt.Errorf("unknown drill %q (available: %s)", drillFlag, strings.Join(drillNames(), ", "))
			}
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		history := rt.store.History()
		sessions, err := history.QuerySessions(ctx, opts)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-15s  %4s  %6s  %5s  %5s  %8s\n",
			"Seq", "Started", "Drill", "Diff", "Score", "Stars", "XP", "Duration")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, s := range sessions {
			fmt.Fprintf(out, "%-5d  %-16s  %-15s  %4d  %6d  %5d  %5d  %8s\n",
				s.Sequence,
				s.StartTime.Local().Format("2006-01-02 15:04"),
				s.DrillID.Name(),
				s.Difficulty,
				s.Score,
				s.Stars,
				s.XPAwarded,
				formatDuration(s.Duration().Seconds()),
			)
		}

		summaries, err := history.Summaries(ctx)
		if err != nil {
			return fmt.Errorf("summarize sessions: %w", err)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Totals by Drill")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		fmt.Fprintf(out, "%-15s  %8s  %6s  %8s  %8s\n", "Drill", "Sessions", "Best", "XP", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		var total store.DrillSummary
		for _, sum := range summaries {
			fmt.Fprintf(out, "%-15s  %8d  %6d  %8d  %8s\n",
				sum.DrillID.Name(), sum.Sessions, sum.BestScore, sum.XP, formatDuration(sum.Duration.Seconds()))
			total.Sessions += sum.Sessions
			total.XP += sum.XP
			total.Duration += sum.Duration
		}
		fmt.Fprintln(out, strings.Repeat("─", 56))
		fmt.Fprintf(out, "%-15s  %8d  %6s  %8d  %8s\n",
			"TOTAL", total.Sessions, "", total.XP, formatDuration(total.Duration.Seconds()))
		return nil
	},
}

func formatDuration(seconds float64) string {
	s := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.Flags().StringP("drill", "d", "", "Only show this drill")
}
