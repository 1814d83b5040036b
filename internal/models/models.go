// package models defines the data model for the soundforest audio catalog
package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Tag is one (name, value) metadata pair attached to a track.
// Tags keep their insertion order within a track.
type Tag struct {
	Name  string
	Value string
}

// Track is one catalogued audio file under a registered tree root.
//
// RelPath is unique within the owning tree. Checksum is empty until the
// first checksum pass computes it.
type Track struct {
	ID       string
	TreeID   string
	Path     string // absolute path
	RelPath  string // path relative to the tree root
	Checksum string
	MTime    int64
	Tags     []Tag
}

// Tag returns the value of the named tag and whether it is set.
func (t *Track) Tag(name string) (string, bool) {
	for _, tag := range t.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// SetTag sets or replaces the named tag, preserving tag order.
func (t *Track) SetTag(name, value string) {
	for i, tag := range t.Tags {
		if tag.Name == name {
			t.Tags[i].Value = value
			return
		}
	}
	t.Tags = append(t.Tags, Tag{Name: name, Value: value})
}

// Extension returns the lowercased file extension without the leading dot.
func (t *Track) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(t.Path)), ".")
}

// Tree is a registered root directory representing one audio collection.
type Tree struct {
	ID        string
	Path      string
	Type      string
	Tracks    []*Track
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Track returns the track with the given relative path, or nil.
func (t *Tree) Track(relPath string) *Track {
	for _, track := range t.Tracks {
		if track.RelPath == relPath {
			return track
		}
	}
	return nil
}

// Contains reports whether the given absolute path is under the tree root.
func (t *Tree) Contains(path string) bool {
	if path == t.Path {
		return true
	}
	return strings.HasPrefix(path, t.Path+string(filepath.Separator))
}

// TargetKind discriminates sync target job kinds.
type TargetKind string

const (
	DirectoryTarget TargetKind = "directory"
	RsyncTarget     TargetKind = "rsync"
)

// Valid reports whether the kind is one of the closed set of job kinds.
func (k TargetKind) Valid() bool {
	return k == DirectoryTarget || k == RsyncTarget
}

// SyncTarget is a resolved synchronization job descriptor.
//
// Consumed exactly once by the sync manager and never mutated after enqueue.
type SyncTarget struct {
	ID     string
	Name   string
	Kind   TargetKind
	Src    string
	Dst    string
	Flags  []string
	Rename string // rename callback identifier for directory targets
	Delete bool
	DryRun bool
}

// SyncStatus is the terminal state of one sync target.
type SyncStatus string

const (
	SyncOK      SyncStatus = "ok"
	SyncFailed  SyncStatus = "failed"
	SyncSkipped SyncStatus = "skipped"
)

// SyncResult is the per-target outcome of one sync run.
type SyncResult struct {
	Target   string
	Status   SyncStatus
	Err      error
	Copied   int
	Deleted  int
	Duration time.Duration
}

// OK reports whether the target completed successfully.
func (r SyncResult) OK() bool {
	return r.Status == SyncOK
}
