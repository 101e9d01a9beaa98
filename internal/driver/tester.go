package driver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

// Tester decides whether a candidate file still shows the behavior being
// reduced for.
type Tester interface {
	Interesting(ctx context.Context, candidate string) (bool, error)
}

// TestFunc adapts a function to Tester.
type TestFunc func(ctx context.Context, candidate string) (bool, error)

// Interesting implements Tester.
func (f TestFunc) Interesting(ctx context.Context, candidate string) (bool, error) {
	return f(ctx, candidate)
}

// ScriptTest runs an executable interestingness test. The script runs in the
// directory holding the candidate and gets the candidate's path as its only
// argument. Exit status 0 means interesting; any other exit status, or
// running past Timeout, means not interesting.
type ScriptTest struct {
	Script  string
	Timeout time.Duration
}

// Interesting implements Tester.
func (s ScriptTest) Interesting(ctx context.Context, candidate string) (bool, error) {
	script, err := filepath.Abs(s.Script)
	if err != nil {
		return false, fmt.Errorf("interestingness test: %w", err)
	}

	runCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, script, candidate)
	cmd.Dir = filepath.Dir(candidate)
	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.As(err, &exitErr):
		return false, nil
	default:
		return false, fmt.Errorf("interestingness test: %w", err)
	}
}
