package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/rocketship-ai/scriptrunner/internal/runner"
)

// executeOutput is the --json rendering of a result.
type executeOutput struct {
	Success    bool    `json:"success"`
	Output     string  `json:"output"`
	Error      *string `json:"error"`
	ExitCode   int     `json:"exit_code"`
	ScriptName string  `json:"script_name"`
}

func newExecuteOutput(name string, res runner.Result) executeOutput {
	out := executeOutput{
		Success:    res.Success,
		Output:     res.Output,
		ExitCode:   res.ExitCode,
		ScriptName: name,
	}
	if res.Error != "" {
		out.Error = &res.Error
	}
	return out
}

// NewExecuteCmd creates a new execute command
func NewExecuteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute <name>",
		Short: "Execute a script",
		Long: `Run a script as a child process and report its output.

The command exits with the script's own exit code (124 on timeout), so
shells can detect failure.

Examples:
  scriptrunner execute my_script --env "API_KEY=xyz,DEBUG=true"
  scriptrunner execute my_script --args "--verbose --output /tmp/result"
  scriptrunner execute my_script --json
  scriptrunner execute my_script --jq .output`,
		Args: cobra.ExactArgs(1),
		RunE: runExecute,
	}

	cmd.Flags().String("env", "", "Environment variables in key=value,key2=value2 format")
	cmd.Flags().String("env-file", "", "Path to a .env file; --env pairs take precedence")
	cmd.Flags().String("args", "", "Arguments to pass to the script (space-separated)")
	cmd.Flags().Bool("json", false, "Output results in JSON format")
	cmd.Flags().String("jq", "", "Filter the JSON result with a jq expression")

	return cmd
}

func runExecute(cmd *cobra.Command, args []string) error {
	name := args[0]
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	envFlag, _ := cmd.Flags().GetString("env")
	envFile, _ := cmd.Flags().GetString("env-file")
	argsFlag, _ := cmd.Flags().GetString("args")
	asJSON, _ := cmd.Flags().GetBool("json")
	jqExpr, _ := cmd.Flags().GetString("jq")

	var query *gojq.Query
	if jqExpr != "" {
		q, err := gojq.Parse(jqExpr)
		if err != nil {
			return fmt.Errorf("failed to parse jq expression %q: %w", jqExpr, err)
		}
		query = q
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	env := make(map[string]string)
	if envFile != "" {
		fileEnv, err := loadEnvFile(envFile)
		if err != nil {
			return err
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}
	pairs, invalid := ParseEnvPairs(envFlag)
	for _, bad := range invalid {
		fmt.Fprintf(stderr, "Warning: Invalid environment variable format: %s\n", bad)
	}
	for k, v := range pairs {
		env[k] = v
	}

	res := a.engine.Execute(cmd.Context(), runner.Request{
		Name: name,
		Env:  env,
		Args: strings.Fields(argsFlag),
	})

	if res.Kind == runner.KindPreconditionFailed {
		fmt.Fprintf(stderr, "Error: %s\n", res.Error)
		return &ExitError{Code: 1}
	}

	out := newExecuteOutput(name, res)
	switch {
	case query != nil:
		if err := renderJQ(stdout, query, out); err != nil {
			return err
		}
	case asJSON:
		if err := renderJSON(stdout, out); err != nil {
			return err
		}
	default:
		renderHuman(stdout, stderr, out)
	}

	if res.ExitCode != 0 {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

func renderJSON(w io.Writer, out executeOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderJQ runs query over the JSON result. String results are printed raw,
// everything else as compact JSON.
func renderJQ(w io.Writer, query *gojq.Query, out executeOutput) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	var input map[string]interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}

	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("jq evaluation error: %w", err)
		}
		if s, ok := v.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode jq result: %w", err)
		}
		fmt.Fprintln(w, string(encoded))
	}
}

func renderHuman(stdout, stderr io.Writer, out executeOutput) {
	if out.Success {
		fmt.Fprintf(stdout, "%s Script '%s' executed successfully\n", color.GreenString("✓"), out.ScriptName)
		if out.Output != "" {
			fmt.Fprintf(stdout, "\n--- Script Output ---\n%s\n", out.Output)
		}
		return
	}

	fmt.Fprintf(stdout, "%s Script '%s' failed (exit code: %d)\n", color.RedString("✗"), out.ScriptName, out.ExitCode)
	if out.Error != nil {
		fmt.Fprintln(stdout, "\n--- Error Output ---")
		fmt.Fprintln(stderr, *out.Error)
	}
	if out.Output != "" {
		fmt.Fprintf(stdout, "\n--- Standard Output ---\n%s\n", out.Output)
	}
}
