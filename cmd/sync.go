package main

import (
	"context"
	"fmt"

	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
	"github.com/hile/soundforest/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun resolves the given tokens to sync targets and drains them through
// the worker pool, streaming per-target progress to the output.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	tokens := cmd.Args().Slice()
	if len(tokens) == 0 {
		return fmt.Errorf("%w: sync target names or tree paths", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	store, closeStore, err := r.openCatalog(config)
	if err != nil {
		return err
	}
	defer closeStore()

	resolver := tasks.NewTargetResolver(store, r.logger)
	targets, unknown, err := resolver.ParseTargets(tokens)
	if err != nil {
		return err
	}
	for _, token := range unknown {
		r.writePlain("no sync target for %s\n", token)
	}
	if len(targets) == 0 {
		r.writePlain("Nothing to sync\n")
		return nil
	}

	threads := cmd.Int("threads")
	if threads <= 0 {
		threads = config.Sync.Threads
	}

	manager := tasks.NewSyncManager(tasks.SyncManagerOpts{
		Threads:   threads,
		Delete:    cmd.Bool("delete") || config.Sync.Delete,
		Debug:     cmd.Bool("debug"),
		RateLimit: config.Sync.RateLimit,
		RsyncPath: config.Sync.RsyncPath,
		Library:   r.newLibrary(config),
		Logger:    r.logger,
	})

	dryRun := cmd.Bool("dry-run")
	for _, target := range targets {
		if dryRun {
			target.DryRun = true
		}
		if err := manager.Enqueue(target); err != nil {
			return fmt.Errorf("failed to enqueue %s: %w", target.Name, err)
		}
	}

	r.writePlain("Syncing %d targets with %d workers...\n\n", manager.Len(), threads)

	progress := make(chan tasks.SyncUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.TargetStarted:
				r.writePlain("%s\n", update.Message)
			case tasks.RunTransfer:
				if cmd.Bool("debug") {
					r.writePlain("  %s\n", update.Message)
				}
			case tasks.TargetFinished:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	results, err := manager.Run(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
		}
	}

	r.writePlainln("Sync complete: %d ok, %d failed", len(results)-failed, failed)
	for _, result := range results {
		line := fmt.Sprintf("  %s: %s (%.1fs)", result.Target, result.Status, result.Duration.Seconds())
		if result.Status == models.SyncOK && (result.Copied > 0 || result.Deleted > 0) {
			line += fmt.Sprintf(", %d copied, %d deleted", result.Copied, result.Deleted)
		}
		if result.Err != nil {
			line += fmt.Sprintf(": %v", result.Err)
		}
		r.writePlain("%s\n", line)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d sync targets failed", shared.ErrExternalTool, failed)
	}
	return nil
}
