package main

import (
	"context"
	"fmt"

	"github.com/hile/soundforest/internal/catalog"
	"github.com/hile/soundforest/internal/checksum"
	"github.com/hile/soundforest/internal/library"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
	"github.com/urfave/cli/v3"
)

// resolveTree maps an arbitrary path to the registered tree containing it.
func (r *Runner) resolveTree(store catalog.Catalog, path string) (*models.Tree, error) {
	trees, err := store.Trees()
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}

	resolver := library.NewPrefixResolver(trees...)
	tree := resolver.Match(path)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s is not inside a registered tree", shared.ErrTreeNotFound, path)
	}

	relPath, _ := resolver.RelativePath(path)
	r.logger.Debug("resolved path", "tree", tree.Path, "rel", relPath)
	return tree, nil
}

// ChecksumUpdate recomputes and stores checksums for catalogued tracks under a path.
func (r *Runner) ChecksumUpdate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := r.resolveTree(store, path); err != nil {
		return err
	}

	tracks, err := store.FindTracks(path)
	if err != nil {
		return fmt.Errorf("failed to find tracks: %w", err)
	}
	if len(tracks) == 0 {
		r.writePlain("No tracks found under %s\n", path)
		return nil
	}

	updated := 0
	failed := 0
	for _, track := range tracks {
		if _, err := store.UpdateTrackChecksum(track); err != nil {
			r.logger.Warn("checksum update failed", "path", track.Path, "error", err)
			failed++
			continue
		}
		updated++
	}

	r.writePlain("Updated checksums for %d tracks", updated)
	if failed > 0 {
		r.writePlain(", %d failed", failed)
	}
	r.writePlain("\n")
	return nil
}

// ChecksumVerify verifies stored checksums against current file contents.
func (r *Runner) ChecksumVerify(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openCatalog(r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := r.resolveTree(store, path); err != nil {
		return err
	}

	tracks, err := store.FindTracks(path)
	if err != nil {
		return fmt.Errorf("failed to find tracks: %w", err)
	}
	if len(tracks) == 0 {
		r.writePlain("No tracks found under %s\n", path)
		return nil
	}

	verified := 0
	mismatched := 0
	missing := 0
	for _, track := range tracks {
		if track.Checksum == "" {
			missing++
			continue
		}
		ok, err := checksum.Verify(track.Path, track.Checksum)
		if err != nil {
			r.logger.Warn("verification failed", "path", track.Path, "error", err)
			mismatched++
			continue
		}
		if !ok {
			r.writePlain("MISMATCH %s\n", track.Path)
			mismatched++
			continue
		}
		verified++
	}

	r.writePlain("Verified %d/%d tracks", verified, len(tracks))
	if missing > 0 {
		r.writePlain(", %d without stored checksum", missing)
	}
	r.writePlain("\n")

	if mismatched > 0 {
		return fmt.Errorf("%w: %d tracks failed verification", shared.ErrInvalidInput, mismatched)
	}
	return nil
}
