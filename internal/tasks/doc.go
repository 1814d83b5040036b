// Package tasks implements the synchronization engine.
//
// The core abstraction is SyncManager, which owns a queue of resolved sync
// targets and a fixed-size worker pool. Each target is executed exactly once
// by the job executor matching its kind: directory targets are reconciled on
// the local filesystem using content checksums, rsync targets delegate the
// transfer to the external rsync tool. Operations emit progress updates via
// channels for non-blocking status reporting to the CLI layer.
package tasks
