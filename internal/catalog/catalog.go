// package catalog provides the persistence layer for trees, tracks, tags and
// sync targets.
//
// Components consume the [Catalog] interface rather than a concrete store so
// the sync engine can be tested against in-memory fakes. The production
// implementation is [SQLiteCatalog].
package catalog

import "github.com/hile/soundforest/internal/models"

// Catalog defines the data access operations the rest of the system consumes.
//
// Read methods are safe for concurrent use; writes happen outside the sync
// engine's critical path.
type Catalog interface {
	// Trees returns all registered trees without their track sets.
	Trees() ([]*models.Tree, error)
	// GetTree retrieves a registered tree by root path, including tracks.
	GetTree(path string) (*models.Tree, error)
	// AddTree registers a tree. Root paths are unique across the catalog.
	AddTree(tree *models.Tree) error
	// RemoveTree drops a tree and all of its catalogued tracks and tags.
	RemoveTree(path string) error

	// SaveTracks replaces the catalogued track set of a tree with the
	// tree's current in-memory track set.
	SaveTracks(tree *models.Tree) error
	// FindTracks returns catalogued tracks whose absolute path matches the
	// given literal path or path prefix.
	FindTracks(path string) ([]*models.Track, error)
	// UpdateTrackChecksum recomputes the track's content fingerprint from
	// the file, persists it and returns the new fingerprint.
	UpdateTrackChecksum(track *models.Track) (string, error)

	// SyncTargets returns all persisted sync target descriptors.
	SyncTargets() ([]*models.SyncTarget, error)
	// GetSyncTarget retrieves a sync target by logical name.
	GetSyncTarget(name string) (*models.SyncTarget, error)
	// AddSyncTarget persists a sync target descriptor.
	AddSyncTarget(target *models.SyncTarget) error
	// DeleteSyncTarget removes a sync target by logical name.
	DeleteSyncTarget(name string) error

	// TreeMirror returns the configured mirror destination for a tree.
	TreeMirror(treeID string) (string, error)
	// SetTreeMirror configures the mirror destination for a tree.
	SetTreeMirror(treeID, destination string) error

	// Setting reads a catalog setting by key.
	Setting(key string) (string, error)
	// SetSetting writes a catalog setting.
	SetSetting(key, value string) error

	// Close releases the underlying store.
	Close() error
}
