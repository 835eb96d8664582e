package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tramind/internal/drill"
)

var playCmd = &cobra.Command{
	Use:       "play <drill>",
	Short:     "Open a drill directly",
	Long:      "Open a drill directly. Drills: " + strings.Join(drillNames(), ", ") + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: drillNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := drill.ID(args[0])
		if !id.Valid() {
			return fmt.Errorf("unknown drill %q (available: %s)", args[0], strings.Join(drillNames(), ", "))
		}
		return runApp(cmd, id)
	},
}

func drillNames() []string {
	ids := drill.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
