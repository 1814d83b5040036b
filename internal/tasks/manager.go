package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/hile/soundforest/internal/library"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// DefaultThreads is the worker pool size used when none is configured.
const DefaultThreads = 2

// SyncManager owns a queue of sync targets and a fixed-size worker pool.
//
// Targets are handed off to the pool exactly once during Run; one target's
// failure never blocks or cancels sibling targets. The queue is the only
// shared mutable structure and is guarded by a mutex; workers otherwise
// operate on their own target with no shared state.
type SyncManager struct {
	threads   int
	delete    bool
	debug     bool
	rateLimit float64
	rsyncPath string

	lib    *library.Library
	runner ProcessRunner
	logger *log.Logger

	mu    sync.Mutex
	queue []*models.SyncTarget
}

// SyncManagerOpts contains configuration options for creating a SyncManager.
type SyncManagerOpts struct {
	Threads   int     // Concurrent workers (default: DefaultThreads)
	Delete    bool    // Default delete flag applied to enqueued targets
	Debug     bool    // Surface transfer command lines at debug level
	RateLimit float64 // Job dispatches per second, 0 disables
	RsyncPath string  // Path to the rsync binary (default: "rsync")
	Library   *library.Library
	Runner    ProcessRunner
	Logger    *log.Logger
}

// NewSyncManager creates a SyncManager with the provided options.
func NewSyncManager(opts SyncManagerOpts) *SyncManager {
	if opts.Threads <= 0 {
		opts.Threads = DefaultThreads
	}
	if opts.Library == nil {
		opts.Library = library.New(library.Opts{Logger: opts.Logger})
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Debug {
		shared.SetLogLevel(opts.Logger, log.DebugLevel)
	}

	return &SyncManager{
		threads:   opts.Threads,
		delete:    opts.Delete,
		debug:     opts.Debug,
		rateLimit: opts.RateLimit,
		rsyncPath: opts.RsyncPath,
		lib:       opts.Library,
		runner:    opts.Runner,
		logger:    opts.Logger,
	}
}

// Enqueue appends a target to the pending queue. Duplicate targets run twice;
// callers are responsible for de-duplication. The manager's delete default is
// applied to targets that do not set their own.
func (m *SyncManager) Enqueue(target *models.SyncTarget) error {
	if target == nil {
		return fmt.Errorf("%w: nil sync target", shared.ErrInvalidTarget)
	}
	if !target.Kind.Valid() {
		return fmt.Errorf("%w: %s", shared.ErrUnknownKind, target.Kind)
	}
	// Unknown rename callbacks are rejected at enqueue, before any worker runs.
	if _, err := RenameCallback(target.Rename); err != nil {
		return err
	}
	if m.delete {
		target.Delete = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, target)
	return nil
}

// Len returns the count of pending targets.
func (m *SyncManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Run drains the queue across the worker pool and returns one result per
// enqueued target. It returns only after every target has reached a terminal
// state; execution and completion order are not guaranteed. Progress updates
// are sent to the optional channel without ever blocking a worker.
func (m *SyncManager) Run(ctx context.Context, progress chan<- SyncUpdate) ([]models.SyncResult, error) {
	m.mu.Lock()
	pending := m.queue
	m.queue = nil
	m.mu.Unlock()

	if len(pending) == 0 {
		return nil, shared.ErrEmptyQueue
	}

	jobs := make(chan *models.SyncTarget, len(pending))
	results := make(chan models.SyncResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < m.threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				results <- m.executeTarget(ctx, target, progress)
			}
		}()
	}

	var limiter *rate.Limiter
	if m.rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.rateLimit), 1)
	}

	for i, target := range pending {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				// Remaining targets are reported as skipped, not dropped.
				for _, rest := range pending[i:] {
					results <- models.SyncResult{Target: rest.Name, Status: models.SyncSkipped, Err: err}
				}
				break
			}
		}
		m.sendProgress(progress, startedUpdate(target.Name, i+1, len(pending)))
		jobs <- target
	}
	close(jobs)

	collected := make([]models.SyncResult, 0, len(pending))
	for range pending {
		collected = append(collected, <-results)
	}
	wg.Wait()

	return collected, nil
}

// executeTarget dispatches one target to the job executor matching its kind.
// Executor panics are caught and converted to failed results so sibling
// targets keep running.
func (m *SyncManager) executeTarget(ctx context.Context, target *models.SyncTarget, progress chan<- SyncUpdate) (result models.SyncResult) {
	started := time.Now()
	result = models.SyncResult{Target: target.Name, Status: models.SyncOK}

	defer func() {
		if r := recover(); r != nil {
			result.Status = models.SyncFailed
			result.Err = fmt.Errorf("sync target %s panicked: %v", target.Name, r)
			m.logger.Errorf("%v", result.Err)
		}
		result.Duration = time.Since(started)
		m.sendProgress(progress, finishedUpdate(target.Name, 1, 1, string(result.Status)))
	}()

	logger := shared.WithLogger(m.logger, "target", target.Name, "kind", string(target.Kind))

	switch target.Kind {
	case models.DirectoryTarget:
		job, err := NewDirectoryJob(target, m.lib, logger, func(u SyncUpdate) {
			m.sendProgress(progress, u)
		})
		if err != nil {
			result.Status = models.SyncFailed
			result.Err = err
			return result
		}
		copied, deleted, err := job.Run(ctx)
		result.Copied = copied
		result.Deleted = deleted
		if err != nil {
			result.Status = models.SyncFailed
			result.Err = err
		}

	case models.RsyncTarget:
		job := NewRsyncJob(target, m.rsyncPath, m.runner, logger)
		if m.debug {
			logger.Debugf("transfer command: %s", job.Command())
		}
		m.sendProgress(progress, transferUpdate(target.Name, job.Command()))
		if err := job.Run(ctx); err != nil {
			result.Status = models.SyncFailed
			result.Err = err
		}

	default:
		// Enqueue validates kinds, so this only fires on a programming error.
		result.Status = models.SyncFailed
		result.Err = fmt.Errorf("%w: %s", shared.ErrUnknownKind, target.Kind)
	}

	if result.Err != nil {
		logger.Errorf("sync failed: %v", result.Err)
	}
	return result
}

// sendProgress sends a progress update through the channel without blocking.
func (m *SyncManager) sendProgress(progress chan<- SyncUpdate, update SyncUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
