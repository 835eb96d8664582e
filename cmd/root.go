package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tramind",
	Short: "Reaction and attention drills in the terminal",
	Long: `tramind trains reflexes, peripheral awareness, impulse control and
sustained focus with short timed drills. Difficulty adapts per drill, and
XP, levels, streaks and achievements track progress over time.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TRAMIND_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: config.yaml in the data dir)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
