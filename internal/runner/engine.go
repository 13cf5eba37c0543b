package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/rocketship-ai/scriptrunner/internal/catalog"
)

const (
	// DefaultTimeout bounds a single execution from spawn to exit.
	DefaultTimeout = 5 * time.Minute
	// DefaultKillGrace is how long a timed-out process group gets between SIGTERM and SIGKILL.
	DefaultKillGrace = 2 * time.Second
	// DefaultCredentialKey must be present in the child environment.
	DefaultCredentialKey = "NOVA_ACT_API_KEY"
)

// Config controls how the engine spawns scripts.
type Config struct {
	Timeout       time.Duration
	KillGrace     time.Duration
	CredentialKey string
	// Interpreter replaces the language's default interpreter command when set.
	Interpreter []string
	Logger      *slog.Logger
	// Environ supplies the inherited environment; defaults to os.Environ.
	Environ func() []string
}

// Engine runs catalog scripts as isolated child processes. It holds no
// per-call state, so Execute may be called concurrently.
type Engine struct {
	catalog       *catalog.Catalog
	interpreter   []string
	timeout       time.Duration
	killGrace     time.Duration
	credentialKey string
	logger        *slog.Logger
	environ       func() []string
}

// NewEngine creates an engine for scripts of the given language.
func NewEngine(cat *catalog.Catalog, lang Language, cfg Config) *Engine {
	e := &Engine{
		catalog:       cat,
		interpreter:   lang.Interpreter,
		timeout:       cfg.Timeout,
		killGrace:     cfg.KillGrace,
		credentialKey: cfg.CredentialKey,
		logger:        cfg.Logger,
		environ:       cfg.Environ,
	}
	if len(cfg.Interpreter) > 0 {
		e.interpreter = cfg.Interpreter
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.killGrace <= 0 {
		e.killGrace = DefaultKillGrace
	}
	if e.credentialKey == "" {
		e.credentialKey = DefaultCredentialKey
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.environ == nil {
		e.environ = os.Environ
	}
	return e
}

// CredentialKey returns the environment variable required by every execution.
func (e *Engine) CredentialKey() string {
	return e.credentialKey
}

// Timeout returns the wall-clock budget for one execution.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Execute runs the requested script and classifies the outcome. It never
// retries. Cancelling ctx does not stop a running script; only the timeout does.
func (e *Engine) Execute(ctx context.Context, req Request) Result {
	logger := e.logger.With("script", req.Name)

	env, res, ok := e.precheck(req)
	if !ok {
		logger.Debug("execution rejected", "kind", res.Kind, "error", res.Error)
		return res
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	args := make([]string, 0, len(e.interpreter)+len(req.Args))
	args = append(args, e.interpreter[1:]...)
	args = append(args, e.catalog.Resolve(req.Name))
	args = append(args, req.Args...)

	cmd := exec.CommandContext(runCtx, e.interpreter[0], args...)
	cmd.Dir = e.catalog.Root()
	cmd.Env = env.List()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	group := newProcessGroup(cmd, e.killGrace)
	cmd.Cancel = group.terminate
	cmd.WaitDelay = e.killGrace

	logger.Info("executing script", "args", len(req.Args), "timeout", e.timeout)
	start := time.Now()

	if err := cmd.Start(); err != nil {
		logger.Error("failed to start script", "error", err)
		res = failure(KindSpawnFailed, 1, fmt.Sprintf("Failed to execute script: %v", err))
		res.Duration = time.Since(start)
		return res
	}

	waitErr := group.wait()
	duration := time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case group.cancelled():
		// Partial output is discarded on timeout.
		res = failure(KindTimeout, TimeoutExitCode, fmt.Sprintf("Script execution timed out after %s", e.timeout))
	case waitErr == nil:
		res = completed(0, stdout.String(), stderr.String())
	case errors.As(waitErr, &exitErr):
		res = completed(exitCode(exitErr.ProcessState), stdout.String(), stderr.String())
	case errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		// The script exited but a descendant kept its output open past the grace period.
		res = completed(exitCode(cmd.ProcessState), stdout.String(), stderr.String())
	default:
		res = failure(KindSpawnFailed, 1, fmt.Sprintf("Failed to execute script: %v", waitErr))
	}
	res.Duration = duration

	logger.Info("script finished", "exit_code", res.ExitCode, "kind", res.Kind, "duration", duration)
	return res
}

// Check runs the pre-spawn checks of Execute (script exists, credential
// present) without spawning anything. ok is false when Execute would reject
// the request, in which case res holds the rejection.
func (e *Engine) Check(req Request) (res Result, ok bool) {
	_, res, ok = e.precheck(req)
	return res, ok
}

func (e *Engine) precheck(req Request) (Env, Result, bool) {
	if !e.catalog.Exists(req.Name) {
		return nil, failure(KindNotFound, 1, fmt.Sprintf("Script '%s' not found", req.Name)), false
	}
	env := MergeEnv(e.environ(), req.Env)
	if !env.Has(e.credentialKey) {
		return nil, failure(KindPreconditionFailed, 1, fmt.Sprintf("%s environment variable is required", e.credentialKey)), false
	}
	return env, Result{}, true
}

func completed(code int, stdout, stderr string) Result {
	res := Result{
		Success:  code == 0,
		Output:   stdout,
		Error:    stderr,
		ExitCode: code,
	}
	if code != 0 {
		res.Kind = KindScriptFailure
	}
	return res
}
