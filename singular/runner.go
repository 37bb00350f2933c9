// SPDX-License-Identifier: MIT

package singular

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one Singular script and returns its standard output.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, script string) (string, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, script string) (string, error) { return f(ctx, script) }

// ExecRunner runs the script with "<Binary> -q --no-warn", feeding it on
// standard input. The process is killed when ctx is done.
type ExecRunner struct {
	Binary string
}

// Run implements Runner.
func (e ExecRunner) Run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Binary, "-q", "--no-warn")
	cmd.Stdin = strings.NewReader(script + "\nquit;\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v: %s", ErrProcess, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
