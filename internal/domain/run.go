package domain

import (
	"context"
	"errors"
	"time"
)

// HookStatus is the outcome of a single hook execution.
type HookStatus string

const (
	StatusPassed  HookStatus = "passed"
	StatusFailed  HookStatus = "failed"
	StatusSkipped HookStatus = "skipped"
	StatusErrored HookStatus = "errored"
)

// RunErrorKind is a high-level classification of runtime errors.
type RunErrorKind string

const (
	RunErrorUnknown     RunErrorKind = "unknown"
	RunErrorTimeout     RunErrorKind = "timeout"
	RunErrorCanceled    RunErrorKind = "canceled"
	RunErrorClone       RunErrorKind = "clone"
	RunErrorMissingHook RunErrorKind = "missing_hook"
	RunErrorLanguage    RunErrorKind = "language"
	RunErrorExec        RunErrorKind = "exec"
)

// RunError represents a structured error produced while running a hook.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// NewRunError classifies an arbitrary error into a RunError.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	kind := RunErrorUnknown
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = RunErrorTimeout
	case errors.Is(err, context.Canceled):
		kind = RunErrorCanceled
	case IsKind(err, KindUnsupported):
		kind = RunErrorLanguage
	case IsKind(err, KindNotFound):
		kind = RunErrorMissingHook
	case IsKind(err, KindGit):
		kind = RunErrorClone
	case IsKind(err, KindExecution):
		kind = RunErrorExec
	}
	return &RunError{Kind: kind, Message: err.Error()}
}

// HookResult is the outcome of one hook over its file set.
type HookResult struct {
	ID      string
	Name    string
	RepoURL string

	Status     HookStatus
	FileCount  int
	DurationMS int64
	ExitCode   int

	// Output is combined stdout+stderr, bounded by settings.
	Output    []byte
	Truncated bool

	Error *RunError
}

// Failed reports whether the hook result counts against the run.
func (r HookResult) Failed() bool {
	return r.Status == StatusFailed || r.Status == StatusErrored
}

// RunResult represents one invocation of a set of hooks.
type RunResult struct {
	ConfigPath string
	RepoRoot   string
	Stage      Stage
	AllFiles   bool

	StartedAt time.Time
	EndedAt   time.Time

	Results []HookResult
}

// Failures counts hooks that failed or errored.
func (r RunResult) Failures() int {
	n := 0
	for _, hr := range r.Results {
		if hr.Failed() {
			n++
		}
	}
	return n
}

// RunRef is a lightweight reference to a persisted run artifact.
type RunRef struct {
	ID        string
	File      string
	Stage     Stage
	StartedAt time.Time
	Failures  int
}
