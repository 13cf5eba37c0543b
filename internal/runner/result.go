package runner

import "time"

// Kind classifies why an execution or validation did not succeed.
type Kind string

const (
	KindNone               Kind = ""
	KindNotFound           Kind = "not_found"
	KindPreconditionFailed Kind = "precondition_failed"
	KindSyntaxError        Kind = "syntax_error"
	KindSpawnFailed        Kind = "spawn_failed"
	KindTimeout            Kind = "timeout"
	KindScriptFailure      Kind = "script_failure"
	KindIOError            Kind = "io_error"
)

// TimeoutExitCode is reported when a script exceeds its wall-clock budget.
const TimeoutExitCode = 124

// Infrastructure reports whether the failure originated in the engine rather
// than in the script itself.
func (k Kind) Infrastructure() bool {
	switch k {
	case KindNotFound, KindPreconditionFailed, KindSpawnFailed, KindTimeout, KindIOError:
		return true
	}
	return false
}

// Request is a single execution request.
type Request struct {
	// Name is the script name without extension.
	Name string
	// Env overrides the inherited environment; overrides win on collision.
	Env map[string]string
	// Args are appended verbatim after the script path.
	Args []string
}

// Result is the outcome of one execution attempt.
type Result struct {
	Success  bool
	Output   string
	Error    string
	ExitCode int
	Kind     Kind
	Duration time.Duration
}

// ValidationResult is the outcome of a syntax check.
type ValidationResult struct {
	Valid   bool
	Message string
	Kind    Kind
}

func failure(kind Kind, exitCode int, msg string) Result {
	return Result{
		Success:  false,
		Error:    msg,
		ExitCode: exitCode,
		Kind:     kind,
	}
}
