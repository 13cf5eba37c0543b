package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// newScriptsDir isolates the command from the caller's configuration and
// returns an empty shell scripts directory.
func newScriptsDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("cli tests run shell scripts")
	}
	for _, key := range []string{
		"SCRIPTRUNNER_CONFIG",
		"SCRIPTRUNNER_SCRIPTS_DIR",
		"SCRIPTRUNNER_LANGUAGE",
		"SCRIPTRUNNER_INTERPRETER",
		"SCRIPTRUNNER_TIMEOUT",
		"SCRIPTRUNNER_KILL_GRACE",
		"SCRIPTRUNNER_CREDENTIAL_KEY",
		"SCRIPTRUNNER_MAX_CONCURRENT",
		"SCRIPTRUNNER_LOG",
		"SCRIPTRUNNER_VERSION",
		"HOST",
		"PORT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NOVA_ACT_API_KEY", "cli-key")
	return t.TempDir()
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".sh"), []byte(body), 0o755))
}

func runCLI(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--scripts-dir", dir, "--language", "shell"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
	return exitErr.Code
}

func TestParseEnvPairs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		invalid []string
	}{
		{"empty", "", map[string]string{}, nil},
		{"two pairs", "A=1,B=2", map[string]string{"A": "1", "B": "2"}, nil},
		{"malformed pair skipped", "A=1,garbage,B=2", map[string]string{"A": "1", "B": "2"}, []string{"garbage"}},
		{"value keeps equals", "URL=http://x?a=b", map[string]string{"URL": "http://x?a=b"}, nil},
		{"trimmed", " A = 1 , B=2 ", map[string]string{"A": "1", "B": "2"}, nil},
		{"empty value", "A=", map[string]string{"A": ""}, nil},
		{"empty key", "=1,B=2", map[string]string{"B": "2"}, []string{"=1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, invalid := ParseEnvPairs(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.invalid, invalid)
		})
	}
}

func TestListCommand(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "zeta", "echo z\n")
	writeScript(t, dir, "alpha", "echo a\n")
	writeScript(t, dir, "__init__", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	stdout, _, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "alpha\nzeta\n", stdout)
}

func TestListCommandEmpty(t *testing.T) {
	dir := newScriptsDir(t)

	stdout, stderr, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No scripts found in "+dir)
}

func TestValidateCommand(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "good", "echo fine\n")
	writeScript(t, dir, "bad", "if true; then\n  echo unterminated\n")
	marker := filepath.Join(dir, "side-effect")
	writeScript(t, dir, "writer", "touch "+marker+"\n")

	t.Run("valid", func(t *testing.T) {
		stdout, _, err := runCLI(t, dir, "validate", "good")
		require.NoError(t, err)
		assert.Contains(t, stdout, "✓ Script 'good' is valid")
	})

	t.Run("syntax error", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, dir, "validate", "bad")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stdout, "✗ Script 'bad' has errors:")
		assert.Contains(t, stderr, "bad.sh:")
	})

	t.Run("not found", func(t *testing.T) {
		_, stderr, err := runCLI(t, dir, "validate", "nope")
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "Script 'nope' not found")
	})

	t.Run("never runs the script", func(t *testing.T) {
		_, _, err := runCLI(t, dir, "validate", "writer")
		require.NoError(t, err)
		assert.NoFileExists(t, marker)
	})
}

func TestExecuteCommandSuccess(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "hello", "echo hello\n")

	stdout, _, err := runCLI(t, dir, "execute", "hello")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Script 'hello' executed successfully")
	assert.Contains(t, stdout, "--- Script Output ---\nhello\n")
}

func TestExecuteCommandPropagatesExitCode(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "fail", "echo partial\necho broken >&2\nexit 3\n")

	stdout, stderr, err := runCLI(t, dir, "execute", "fail")
	assert.Equal(t, 3, exitCode(t, err))
	assert.Contains(t, stdout, "✗ Script 'fail' failed (exit code: 3)")
	assert.Contains(t, stdout, "--- Error Output ---")
	assert.Contains(t, stdout, "--- Standard Output ---\npartial\n")
	assert.Contains(t, stderr, "broken")
}

func TestExecuteCommandJSON(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "hello", "echo hello\n")
	writeScript(t, dir, "fail", "echo oops >&2\nexit 2\n")

	stdout, _, err := runCLI(t, dir, "execute", "hello", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "output": "hello\n", "error": null, "exit_code": 0, "script_name": "hello"}`, stdout)
	assert.True(t, strings.HasPrefix(stdout, "{\n  \"success\""), "expected indented JSON, got %q", stdout)

	stdout, _, err = runCLI(t, dir, "execute", "fail", "--json")
	assert.Equal(t, 2, exitCode(t, err))
	var out executeOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Success)
	require.NotNil(t, out.Error)
	assert.Equal(t, "oops\n", *out.Error)
}

func TestExecuteCommandNotFound(t *testing.T) {
	dir := newScriptsDir(t)

	stdout, _, err := runCLI(t, dir, "execute", "ghost", "--json")
	assert.Equal(t, 1, exitCode(t, err))
	assert.JSONEq(t, `{"success": false, "output": "", "error": "Script 'ghost' not found", "exit_code": 1, "script_name": "ghost"}`, stdout)
}

func TestExecuteCommandJQ(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "hello", "printf hello\n")

	stdout, _, err := runCLI(t, dir, "execute", "hello", "--jq", ".output")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)

	stdout, _, err = runCLI(t, dir, "execute", "hello", "--jq", "{code: .exit_code, ok: .success}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": 0, "ok": true}`, stdout)

	_, _, err = runCLI(t, dir, "execute", "hello", "--jq", ".[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse jq expression")
}

func TestExecuteCommandEnvAndArgs(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "show", "printf '%s|%s|%s|%s' \"$A\" \"$B\" \"$1\" \"$2\"\n")

	stdout, stderr, err := runCLI(t, dir, "execute", "show", "--env", "A=1,garbage,B=2", "--args", "--verbose  out.txt", "--jq", ".output")
	require.NoError(t, err)
	assert.Equal(t, "1|2|--verbose|out.txt\n", stdout)
	assert.Contains(t, stderr, "Warning: Invalid environment variable format: garbage")
}

func TestExecuteCommandEnvFile(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "show", "printf '%s|%s' \"$FROM_FILE\" \"$SHARED\"\n")
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("# settings\nFROM_FILE=\"file value\"\nSHARED=file\n"), 0o600))

	stdout, _, err := runCLI(t, dir, "execute", "show", "--env-file", envPath, "--env", "SHARED=flag", "--jq", ".output")
	require.NoError(t, err)
	assert.Equal(t, "file value|flag\n", stdout)

	_, _, err = runCLI(t, dir, "execute", "show", "--env-file", filepath.Join(dir, "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open env file")
}

func TestExecuteCommandMissingCredential(t *testing.T) {
	dir := newScriptsDir(t)
	t.Setenv("SCRIPTRUNNER_CREDENTIAL_KEY", "SCRIPTRUNNER_TEST_UNSET_KEY")
	marker := filepath.Join(dir, "ran")
	writeScript(t, dir, "guarded", "touch "+marker+"\n")

	stdout, stderr, err := runCLI(t, dir, "execute", "guarded")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: SCRIPTRUNNER_TEST_UNSET_KEY environment variable is required")
	assert.NoFileExists(t, marker)

	_, _, err = runCLI(t, dir, "execute", "guarded", "--env", "SCRIPTRUNNER_TEST_UNSET_KEY=supplied")
	require.NoError(t, err)
	assert.FileExists(t, marker)
}

func TestExecuteCommandTimeout(t *testing.T) {
	dir := newScriptsDir(t)
	t.Setenv("SCRIPTRUNNER_KILL_GRACE", "100ms")
	writeScript(t, dir, "slow", "echo started\nsleep 30\n")

	stdout, _, err := runCLI(t, dir, "execute", "slow", "--timeout", "200ms", "--json")
	assert.Equal(t, 124, exitCode(t, err))
	var out executeOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "", out.Output)
	assert.Equal(t, 124, out.ExitCode)
}

func TestConfigFileLogLevel(t *testing.T) {
	dir := newScriptsDir(t)
	writeScript(t, dir, "hello", "echo hello\n")

	_, stderr, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "configuration loaded")

	configPath := filepath.Join(t.TempDir(), "scriptrunner.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: DEBUG\n"), 0o600))

	stdout, stderr, err := runCLI(t, dir, "list", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
	assert.Contains(t, stderr, "level=DEBUG msg=\"configuration loaded\"")

	t.Setenv("SCRIPTRUNNER_LOG", "ERROR")
	_, stderr, err = runCLI(t, dir, "list", "--config", configPath)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "configuration loaded", "environment overrides the file")

	_, stderr, err = runCLI(t, dir, "list", "--config", configPath, "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration loaded")
}

func TestInvalidLanguageFlag(t *testing.T) {
	dir := newScriptsDir(t)
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"list", "--scripts-dir", dir, "--language", "cobol"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestVersionCommand(t *testing.T) {
	dir := newScriptsDir(t)

	stdout, _, err := runCLI(t, dir, "version")
	require.NoError(t, err)
	assert.Equal(t, "scriptrunner 1.0.0\n", stdout)

	t.Setenv("SCRIPTRUNNER_VERSION", "2.5.0-test")
	stdout, _, err = runCLI(t, dir, "version")
	require.NoError(t, err)
	assert.Equal(t, "scriptrunner 2.5.0-test\n", stdout)
}

func TestExitError(t *testing.T) {
	err := error(&ExitError{Code: 124})
	assert.Equal(t, "exit status 124", err.Error())
}
