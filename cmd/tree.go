package main

import (
	"context"
	"fmt"

	"github.com/hile/soundforest/internal/library"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
	"github.com/urfave/cli/v3"
)

// TreeAdd registers an audio tree root in the catalog.
func (r *Runner) TreeAdd(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: tree path", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	treeType := cmd.String("type")
	if treeType == "" {
		treeType = config.Library.DefaultTreeType
	}

	store, closeStore, err := r.openCatalog(config)
	if err != nil {
		return err
	}
	defer closeStore()

	tree := &models.Tree{
		ID:   shared.GenerateID(),
		Path: shared.NormalizePath(path),
		Type: treeType,
	}
	if err := store.AddTree(tree); err != nil {
		return fmt.Errorf("failed to register tree: %w", err)
	}

	r.logger.Info("tree registered", "path", tree.Path, "type", tree.Type)
	r.writePlain("Registered tree %s (%s)\n", tree.Path, tree.Type)
	return nil
}

// TreeRemove unregisters a tree and drops its catalogued tracks.
func (r *Runner) TreeRemove(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: tree path", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.RemoveTree(path); err != nil {
		return fmt.Errorf("failed to remove tree: %w", err)
	}

	r.writePlain("Removed tree %s\n", shared.NormalizePath(path))
	return nil
}

// TreeList lists registered trees.
func (r *Runner) TreeList(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	trees, err := store.Trees()
	if err != nil {
		return fmt.Errorf("failed to list trees: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(trees, true)
	}

	if len(trees) == 0 {
		r.writePlain("No trees registered\n")
		return nil
	}
	for _, tree := range trees {
		r.writePlain("%s\t%s\n", tree.Type, tree.Path)
	}
	return nil
}

// TreeUpdate scans a tree and reconciles its catalogued track set.
func (r *Runner) TreeUpdate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: tree path", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	store, closeStore, err := r.openCatalog(config)
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := store.GetTree(path)
	if err != nil {
		return err
	}

	lib := r.newLibrary(config)
	changes, err := lib.Update(tree, cmd.Bool("checksums"))
	if err != nil {
		return fmt.Errorf("failed to update tree: %w", err)
	}

	if err := store.SaveTracks(tree); err != nil {
		return fmt.Errorf("failed to save tracks: %w", err)
	}

	r.writePlain("Updated %s: %d tracks (%d added, %d removed)\n",
		tree.Path, len(tree.Tracks), len(changes.Added), len(changes.Removed))
	for relPath, fileErr := range changes.Failed {
		r.logger.Warn("checksum failed", "path", relPath, "error", fileErr)
	}
	return nil
}

// TreeTracks lists catalogued tracks under a path.
func (r *Runner) TreeTracks(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	tracks, err := store.FindTracks(path)
	if err != nil {
		return fmt.Errorf("failed to find tracks: %w", err)
	}
	if patterns := cmd.StringSlice("filter"); len(patterns) > 0 {
		tracks = library.Filter(&models.Tree{Tracks: tracks}, patterns)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		r.writePlain("No tracks found under %s\n", path)
		return nil
	}
	for _, track := range tracks {
		r.writePlain("%s\n", track.Path)
	}
	return nil
}

// TreeMirror configures the mirror destination for a registered tree.
func (r *Runner) TreeMirror(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	destination := cmd.StringArg("destination")
	if path == "" || destination == "" {
		return fmt.Errorf("%w: tree path and mirror destination", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	tree, err := store.GetTree(path)
	if err != nil {
		return err
	}

	if err := store.SetTreeMirror(tree.ID, shared.NormalizePath(destination)); err != nil {
		return fmt.Errorf("failed to set mirror: %w", err)
	}

	r.writePlain("Mirror for %s set to %s\n", tree.Path, shared.NormalizePath(destination))
	return nil
}
