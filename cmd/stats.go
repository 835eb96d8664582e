package cmd

import (
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/screens/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		today := profile.DayOf(time.Now())
		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), progress.Report(rt.progress.Profile(), rt.progress.Activity(), today))
		return err
	},
}
