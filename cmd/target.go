package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
	"github.com/hile/soundforest/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TargetAdd persists a named sync target descriptor.
func (r *Runner) TargetAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: target name", shared.ErrMissingArgument)
	}

	kind := models.TargetKind(cmd.String("kind"))
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", shared.ErrUnknownKind, kind)
	}

	if rename := cmd.String("rename"); rename != "" {
		if _, err := tasks.RenameCallback(rename); err != nil {
			return fmt.Errorf("%w (known callbacks: %s)", err, strings.Join(tasks.RenameCallbackNames(), ", "))
		}
	}

	target := &models.SyncTarget{
		ID:     shared.GenerateID(),
		Name:   name,
		Kind:   kind,
		Src:    shared.NormalizePath(cmd.String("src")),
		Dst:    cmd.String("dst"),
		Flags:  strings.Fields(cmd.String("flags")),
		Rename: cmd.String("rename"),
		Delete: cmd.Bool("delete"),
	}
	if kind == models.DirectoryTarget {
		target.Dst = shared.NormalizePath(target.Dst)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.AddSyncTarget(target); err != nil {
		return fmt.Errorf("failed to add sync target: %w", err)
	}

	r.writePlain("Added %s target %s: %s -> %s\n", target.Kind, target.Name, target.Src, target.Dst)
	return nil
}

// TargetRemove deletes a configured sync target.
func (r *Runner) TargetRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: target name", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.DeleteSyncTarget(name); err != nil {
		return fmt.Errorf("failed to remove sync target: %w", err)
	}

	r.writePlain("Removed sync target %s\n", name)
	return nil
}

// TargetList lists configured sync targets.
func (r *Runner) TargetList(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	targets, err := store.SyncTargets()
	if err != nil {
		return fmt.Errorf("failed to list sync targets: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(targets, true)
	}

	if len(targets) == 0 {
		r.writePlain("No sync targets configured\n")
		return nil
	}
	for _, target := range targets {
		r.writePlain("%s\t%s\t%s -> %s\n", target.Name, target.Kind, target.Src, target.Dst)
	}
	return nil
}
