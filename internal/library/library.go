// package library implements the tree model: scanning registered root
// directories for audio files, reconciling scans against the catalog and
// filtering tracks by path.
package library

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hile/soundforest/internal/checksum"
	"github.com/hile/soundforest/internal/codecs"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// Some special filenames inside music trees cause problems during scans.
var defaultIgnoredFiles = []string{"Icon\r"}

// Library walks registered tree roots and keeps their track sets current.
type Library struct {
	classifier codecs.Classifier
	ignored    map[string]bool
	logger     *log.Logger
}

// Opts contains configuration options for creating a Library.
type Opts struct {
	Classifier   codecs.Classifier
	IgnoredFiles []string
	Logger       *log.Logger
}

// New creates a Library with the provided options.
func New(opts Opts) *Library {
	if opts.Classifier == nil {
		opts.Classifier = codecs.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.IgnoredFiles == nil {
		opts.IgnoredFiles = defaultIgnoredFiles
	}

	ignored := make(map[string]bool, len(opts.IgnoredFiles))
	for _, name := range opts.IgnoredFiles {
		ignored[name] = true
	}

	return &Library{
		classifier: opts.Classifier,
		ignored:    ignored,
		logger:     opts.Logger,
	}
}

// Scan walks the filesystem subtree under root and returns one track per
// recognized audio file, ordered by relative path. Unreadable subdirectories
// are logged and skipped.
func (l *Library) Scan(root string) ([]*models.Track, error) {
	root = shared.NormalizePath(root)

	var tracks []*models.Track
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warnf("skipping unreadable path %s: %v", path, err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			// iTunes LP bundles contain media assets that are not tracks.
			if strings.EqualFold(filepath.Ext(entry.Name()), ".itlp") {
				return filepath.SkipDir
			}
			return nil
		}

		if l.ignored[entry.Name()] {
			return nil
		}

		if !l.classifier.Recognize(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to resolve relative path for %s: %w", path, err)
		}

		tracks = append(tracks, &models.Track{Path: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].RelPath < tracks[j].RelPath })
	return tracks, nil
}

// Changes summarizes one tree update.
type Changes struct {
	Added   []string
	Removed []string
	Failed  map[string]error
}

// Empty reports whether the update found no filesystem changes.
func (c *Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Update re-scans the tree root and reconciles the tree's track set against
// the filesystem. Paths unseen before are added, vanished paths are removed
// and survivors keep their catalogued fingerprint. With recomputeChecksums
// every surviving and added track gets a fresh fingerprint.
//
// Per-track checksum failures are collected in Changes.Failed and do not
// abort the update.
func (l *Library) Update(tree *models.Tree, recomputeChecksums bool) (*Changes, error) {
	scanned, err := l.Scan(tree.Path)
	if err != nil {
		return nil, err
	}

	previous := make(map[string]*models.Track, len(tree.Tracks))
	for _, track := range tree.Tracks {
		previous[track.RelPath] = track
	}

	changes := &Changes{Failed: make(map[string]error)}
	next := make([]*models.Track, 0, len(scanned))

	for _, track := range scanned {
		if existing, ok := previous[track.RelPath]; ok {
			existing.Path = track.Path
			track = existing
			delete(previous, track.RelPath)
		} else {
			track.TreeID = tree.ID
			changes.Added = append(changes.Added, track.RelPath)
		}

		if recomputeChecksums || track.Checksum == "" {
			sum, err := checksum.Compute(track.Path)
			if err != nil {
				l.logger.Warnf("checksum failed for %s: %v", track.RelPath, err)
				changes.Failed[track.RelPath] = err
			} else {
				track.Checksum = sum
			}
		}

		next = append(next, track)
	}

	for relPath := range previous {
		changes.Removed = append(changes.Removed, relPath)
	}
	sort.Strings(changes.Removed)

	tree.Tracks = next
	return changes, nil
}

// Filter returns the tree's tracks whose relative or absolute path matches
// any of the given literal paths or path prefixes. An empty pattern set
// matches every track.
func Filter(tree *models.Tree, patterns []string) []*models.Track {
	if len(patterns) == 0 {
		return tree.Tracks
	}

	var matched []*models.Track
	for _, track := range tree.Tracks {
		if matchesAny(track, patterns) {
			matched = append(matched, track)
		}
	}
	return matched
}

func matchesAny(track *models.Track, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = shared.NormalizePath(pattern)
		for _, path := range []string{track.RelPath, track.Path} {
			if path == pattern || strings.HasPrefix(path, pattern+string(filepath.Separator)) {
				return true
			}
		}
	}
	return false
}
