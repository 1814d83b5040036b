package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hile/soundforest/internal/checksum"
	"github.com/hile/soundforest/internal/library"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// DirectoryJob reconciles one sync target between two local directory trees.
//
// The file set to transfer is decided by content checksums: a source file is
// copied when it is absent from the destination or its fingerprint differs.
// With the target's delete flag set, destination audio files absent from the
// source are removed. An optional rename callback remaps destination relative
// paths before the copy and delete decisions.
type DirectoryJob struct {
	target *models.SyncTarget
	lib    *library.Library
	rename RenameFunc
	logger *log.Logger
	emit   func(SyncUpdate)
}

// NewDirectoryJob builds the executor for a directory-kind target. An unknown
// rename callback identifier is a configuration error.
func NewDirectoryJob(target *models.SyncTarget, lib *library.Library, logger *log.Logger, emit func(SyncUpdate)) (*DirectoryJob, error) {
	rename, err := RenameCallback(target.Rename)
	if err != nil {
		return nil, err
	}
	if emit == nil {
		emit = func(SyncUpdate) {}
	}
	return &DirectoryJob{
		target: target,
		lib:    lib,
		rename: rename,
		logger: logger,
		emit:   emit,
	}, nil
}

// Run executes the reconciliation. Per-file copy failures are logged,
// aggregated and reported after the remaining files are processed.
func (j *DirectoryJob) Run(ctx context.Context) (copied, deleted int, err error) {
	src := shared.NormalizePath(j.target.Src)
	dst := shared.NormalizePath(j.target.Dst)

	if !isDir(src) {
		return 0, 0, fmt.Errorf("%w: source %s", shared.ErrTreeMissing, src)
	}
	if !isDir(dst) {
		return 0, 0, fmt.Errorf("%w: destination %s", shared.ErrTreeMissing, dst)
	}

	tracks, err := j.lib.Scan(src)
	if err != nil {
		return 0, 0, err
	}

	var fileErrs []error
	sourceSet := make(map[string]bool, len(tracks))

	for i, track := range tracks {
		if ctx.Err() != nil {
			return copied, deleted, ctx.Err()
		}

		dstRel := track.RelPath
		if j.rename != nil {
			dstRel = j.rename(dstRel)
		}
		sourceSet[dstRel] = true

		dstPath := filepath.Join(dst, dstRel)
		modified, reason, err := j.needsCopy(track, dstPath)
		if err != nil {
			j.logger.Warnf("skipping %s: %v", track.RelPath, err)
			fileErrs = append(fileErrs, err)
			continue
		}
		if !modified {
			continue
		}

		j.logger.Infof("%6d %s: %s", i+1, reason, dstPath)
		j.emit(copyUpdate(j.target.Name, dstRel, i+1, len(tracks)))

		if j.target.DryRun {
			copied++
			continue
		}
		if err := copyFile(track.Path, dstPath); err != nil {
			j.logger.Warnf("error writing %s: %v", dstPath, err)
			fileErrs = append(fileErrs, err)
			continue
		}
		copied++
	}

	if j.target.Delete {
		n, errs := j.deleteExtraneous(ctx, dst, sourceSet)
		deleted = n
		fileErrs = append(fileErrs, errs...)
	}

	if len(fileErrs) > 0 {
		return copied, deleted, fmt.Errorf("%d files failed: %w", len(fileErrs), errors.Join(fileErrs...))
	}
	return copied, deleted, nil
}

// needsCopy decides whether the source track must be transferred.
func (j *DirectoryJob) needsCopy(track *models.Track, dstPath string) (bool, string, error) {
	if _, err := os.Stat(dstPath); err != nil {
		if os.IsNotExist(err) {
			return true, "new", nil
		}
		return false, "", fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, dstPath, err)
	}

	srcSum := track.Checksum
	if srcSum == "" {
		sum, err := checksum.Compute(track.Path)
		if err != nil {
			return false, "", err
		}
		srcSum = sum
	}

	dstSum, err := checksum.Compute(dstPath)
	if err != nil {
		return false, "", err
	}

	if srcSum != dstSum {
		return true, "modified", nil
	}
	return false, "", nil
}

// deleteExtraneous removes destination audio files whose remapped relative
// path does not exist in the source set.
func (j *DirectoryJob) deleteExtraneous(ctx context.Context, dst string, sourceSet map[string]bool) (int, []error) {
	extraneous, err := j.lib.Scan(dst)
	if err != nil {
		return 0, []error{err}
	}

	deleted := 0
	var errs []error
	for _, track := range extraneous {
		if ctx.Err() != nil {
			break
		}
		if sourceSet[track.RelPath] {
			continue
		}

		j.logger.Infof("remove: %s", track.Path)
		j.emit(SyncUpdate{Phase: DeleteFiles, Target: j.target.Name, Message: fmt.Sprintf("Removing %s...", track.RelPath)})

		if j.target.DryRun {
			deleted++
			continue
		}
		if err := os.Remove(track.Path); err != nil {
			j.logger.Warnf("error removing %s: %v", track.Path, err)
			errs = append(errs, fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, track.Path, err))
			continue
		}
		deleted++
	}
	return deleted, errs
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: %s: %v", shared.ErrUnreadableFile, dst, err)
	}
	return out.Close()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
