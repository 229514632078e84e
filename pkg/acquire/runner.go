package acquire

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes an external binary and returns its combined output.
// Production code uses ExecRunner; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec, capturing stdout and stderr
// together so failures carry the tool's diagnostics.
type ExecRunner struct{}

// Run executes the command and waits for completion.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	return output.String(), err
}
