package tasks

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/executor"

	"github.com/hile/soundforest/internal/shared"
)

// ProcessRunner executes an external transfer tool and reports its exit code
// and captured output. It is an explicit collaborator so rsync jobs can be
// tested without spawning real subprocesses.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args []string) (exitCode int, output string, err error)
}

// ExecRunner is the production ProcessRunner backed by os/exec.
type ExecRunner struct{}

// Run executes the named program, capturing combined output. A non-zero exit
// is reported through the exit code, not as an error.
func (ExecRunner) Run(ctx context.Context, name string, args []string) (int, string, error) {
	result, err := executor.New(name, args...).Execute(ctx)
	if result != nil {
		output := result.Stdout
		if result.Stderr != "" {
			output += result.Stderr
		}
		if err != nil && result.ExitCode == 0 {
			return -1, output, fmt.Errorf("%w: %s: %v", shared.ErrExternalTool, name, err)
		}
		return result.ExitCode, output, nil
	}
	if err != nil {
		return -1, "", fmt.Errorf("%w: %s: %v", shared.ErrExternalTool, name, err)
	}
	return 0, "", nil
}
