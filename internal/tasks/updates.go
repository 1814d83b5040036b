package tasks

import "fmt"

// SyncUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI layer for display.
type SyncUpdate struct {
	Phase   Phase  // Operation phase
	Target  string // Logical name of the sync target
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	TargetQueued Phase = iota
	TargetStarted
	CopyFiles
	DeleteFiles
	RunTransfer
	TargetFinished
)

func (p Phase) String() string {
	switch p {
	case TargetQueued:
		return "target_queued"
	case TargetStarted:
		return "target_started"
	case CopyFiles:
		return "copy_files"
	case DeleteFiles:
		return "delete_files"
	case RunTransfer:
		return "run_transfer"
	case TargetFinished:
		return "target_finished"
	default:
		return ""
	}
}

func startedUpdate(target string, step, total int) SyncUpdate {
	return SyncUpdate{
		Phase:   TargetStarted,
		Target:  target,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Syncing %s (%d/%d)...", target, step, total),
	}
}

func finishedUpdate(target string, step, total int, status string) SyncUpdate {
	return SyncUpdate{
		Phase:   TargetFinished,
		Target:  target,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Finished %s: %s", target, status),
	}
}

func copyUpdate(target, relPath string, step, total int) SyncUpdate {
	return SyncUpdate{
		Phase:   CopyFiles,
		Target:  target,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Copying %s...", relPath),
	}
}

func transferUpdate(target, command string) SyncUpdate {
	return SyncUpdate{
		Phase:   RunTransfer,
		Target:  target,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Running: %s", command),
	}
}
