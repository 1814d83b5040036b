package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// Deletion options rsync understands. When the target's delete flag is set
// and none of these is present in the flag list, DefaultDeleteFlag is added.
var rsyncDeleteFlags = map[string]bool{
	"--del":             true,
	"--delete":          true,
	"--delete-before":   true,
	"--delete-during":   true,
	"--delete-after":    true,
	"--delete-delay":    true,
	"--delete-excluded": true,
}

// DefaultDeleteFlag is the deletion option used when the target requests
// deletion without naming one.
const DefaultDeleteFlag = "--delete-before"

// RsyncJob delegates one sync target's transfer to the external rsync tool.
// The engine only constructs the argument list and supervises the process.
type RsyncJob struct {
	target    *models.SyncTarget
	rsyncPath string
	runner    ProcessRunner
	logger    *log.Logger
}

// NewRsyncJob builds the executor for an rsync-kind target.
func NewRsyncJob(target *models.SyncTarget, rsyncPath string, runner ProcessRunner, logger *log.Logger) *RsyncJob {
	if rsyncPath == "" {
		rsyncPath = "rsync"
	}
	return &RsyncJob{
		target:    target,
		rsyncPath: rsyncPath,
		runner:    runner,
		logger:    logger,
	}
}

// Args returns the argument list for the rsync invocation. Source and
// destination get trailing slashes so rsync transfers directory contents.
func (j *RsyncJob) Args() []string {
	flags := make([]string, 0, len(j.target.Flags)+1)

	if j.target.Delete && !hasDeleteFlag(j.target.Flags) {
		flags = append(flags, DefaultDeleteFlag)
	}
	flags = append(flags, j.target.Flags...)

	if j.target.DryRun && !contains(flags, "--dry-run") && !contains(flags, "-n") {
		flags = append(flags, "--dry-run")
	}

	args := append([]string{"-av"}, flags...)
	src := shared.NormalizePath(j.target.Src) + "/"
	dst := strings.TrimRight(j.target.Dst, "/") + "/"
	return append(args, src, dst)
}

// Command returns the full command line for logging.
func (j *RsyncJob) Command() string {
	return j.rsyncPath + " " + strings.Join(j.Args(), " ")
}

// Run executes the transfer, mapping a non-zero exit to an external tool
// error carrying the captured diagnostic output.
func (j *RsyncJob) Run(ctx context.Context) error {
	args := j.Args()
	j.logger.Infof("running: %s", j.Command())

	exitCode, output, err := j.runner.Run(ctx, j.rsyncPath, args)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		detail := strings.TrimSpace(output)
		if detail == "" {
			detail = "no output"
		}
		return fmt.Errorf("%w: %s exited with %d: %s", shared.ErrExternalTool, j.rsyncPath, exitCode, detail)
	}

	j.logger.Infof("finished: %s", j.Command())
	return nil
}

func hasDeleteFlag(flags []string) bool {
	for _, flag := range flags {
		if rsyncDeleteFlags[flag] {
			return true
		}
	}
	return false
}

func contains(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
