package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewListCmd creates a new list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scripts",
		Long:  `Print the name of every script in the scripts directory, one per line, sorted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			scripts := a.catalog.List()
			if len(scripts) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No scripts found in %s\n", a.catalog.Root())
				return nil
			}

			sort.Strings(scripts)
			for _, name := range scripts {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
