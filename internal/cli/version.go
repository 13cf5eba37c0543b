package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketship-ai/scriptrunner/internal/version"
)

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scriptrunner",
		Long:  `Print the version number of the scriptrunner CLI. SCRIPTRUNNER_VERSION overrides the built-in version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scriptrunner %s\n", version.Get())
		},
	}
}
