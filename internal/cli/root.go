package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates a new root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scriptrunner",
		Short: "Script runner CLI",
		Long: `scriptrunner lists, validates and executes the automation scripts
kept in a single scripts directory.

Examples:
  scriptrunner list
  scriptrunner execute my_script
  scriptrunner execute my_script --env "API_KEY=xyz,DEBUG=true"
  scriptrunner execute my_script --args "--verbose --output /tmp/result"
  scriptrunner execute my_script --json
  scriptrunner validate my_script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := os.Getenv("SCRIPTRUNNER_LOG")
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "DEBUG"
			}
			// Logs go to stderr so stdout stays machine-readable. Commands
			// that load the config re-apply its log_level.
			InitLogging(cmd.ErrOrStderr(), level)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Path to a YAML config file (default $SCRIPTRUNNER_CONFIG)")
	cmd.PersistentFlags().String("scripts-dir", "", "Directory holding the scripts (default $SCRIPTRUNNER_SCRIPTS_DIR or /app/scripts)")
	cmd.PersistentFlags().String("language", "", "Script language: bash, javascript, python or shell")
	cmd.PersistentFlags().Duration("timeout", 0, "Maximum script run time (default 5m)")

	cmd.AddCommand(
		NewListCmd(),
		NewValidateCmd(),
		NewExecuteCmd(),
		NewVersionCmd(),
	)

	return cmd
}
