package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <name>",
		Short: "Check a script's syntax without running it",
		Long: `Parse a script and report syntax errors. The script is never executed.

Exits 0 when the script is valid and 1 when it is invalid or missing.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	res := a.validator.Validate(name)
	Logger.Debug("validated script", "script", name, "valid", res.Valid, "kind", res.Kind)

	if res.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Script '%s' is valid\n", color.GreenString("✓"), name)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Script '%s' has errors:\n", color.RedString("✗"), name)
	fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
	return &ExitError{Code: 1}
}
