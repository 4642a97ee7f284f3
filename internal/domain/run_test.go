package domain

import (
	"context"
	"testing"
)

func TestNewRunError_Nil(t *testing.T) {
	if got := NewRunError(nil); got != nil {
		t.Fatalf("expected nil, got=%v", got)
	}
}

func TestNewRunError_ContextDeadline(t *testing.T) {
	if got := NewRunError(context.DeadlineExceeded); got.Kind != RunErrorTimeout {
		t.Fatalf("expected timeout, got=%s", got.Kind)
	}
}

func TestNewRunError_ContextCanceled(t *testing.T) {
	if got := NewRunError(context.Canceled); got.Kind != RunErrorCanceled {
		t.Fatalf("expected canceled, got=%s", got.Kind)
	}
}

func TestNewRunError_OpErrorKinds(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want RunErrorKind
	}{
		{KindUnsupported, RunErrorLanguage},
		{KindNotFound, RunErrorMissingHook},
		{KindGit, RunErrorClone},
		{KindExecution, RunErrorExec},
	}
	for _, c := range cases {
		err := &OpError{Op: "test", Kind: c.kind}
		if got := NewRunError(err); got.Kind != c.want {
			t.Errorf("NewRunError(kind=%s) = %s, want %s", c.kind, got.Kind, c.want)
		}
	}
}

func TestRunResultFailures(t *testing.T) {
	run := RunResult{
		Results: []HookResult{
			{Status: StatusPassed},
			{Status: StatusSkipped},
			{Status: StatusFailed},
			{Status: StatusErrored},
		},
	}
	if got := run.Failures(); got != 2 {
		t.Fatalf("expected 2 failures, got=%d", got)
	}
}

func TestHookResultFailed(t *testing.T) {
	if (HookResult{Status: StatusPassed}).Failed() {
		t.Fatal("passed should not count as failed")
	}
	if (HookResult{Status: StatusSkipped}).Failed() {
		t.Fatal("skipped should not count as failed")
	}
	if !(HookResult{Status: StatusFailed}).Failed() {
		t.Fatal("failed should count")
	}
	if !(HookResult{Status: StatusErrored}).Failed() {
		t.Fatal("errored should count")
	}
}
