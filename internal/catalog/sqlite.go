package catalog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hile/soundforest/internal/checksum"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// SQLiteCatalog implements Catalog on top of a sqlite database.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog opens the catalog database at path, applies pending
// migrations and returns the catalog. The path can be ":memory:" in tests.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// DB exposes the underlying connection for pool configuration.
func (c *SQLiteCatalog) DB() *sql.DB {
	return c.db
}

// Trees returns all registered trees ordered by path, without track sets.
func (c *SQLiteCatalog) Trees() ([]*models.Tree, error) {
	rows, err := c.db.Query("SELECT id, path, tree_type, created_at, updated_at FROM trees ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query trees: %w", err)
	}
	defer rows.Close()

	var trees []*models.Tree
	for rows.Next() {
		tree, err := scanTree(rows)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, rows.Err()
}

// GetTree retrieves a tree by its normalized root path, including its tracks.
func (c *SQLiteCatalog) GetTree(path string) (*models.Tree, error) {
	path = shared.NormalizePath(path)

	row := c.db.QueryRow("SELECT id, path, tree_type, created_at, updated_at FROM trees WHERE path = ?", path)
	tree, err := scanTree(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTreeNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	tracks, err := c.treeTracks(tree)
	if err != nil {
		return nil, err
	}
	tree.Tracks = tracks
	return tree, nil
}

// AddTree registers a tree. Registering an already known root path fails.
func (c *SQLiteCatalog) AddTree(tree *models.Tree) error {
	if tree.ID == "" {
		tree.ID = shared.GenerateID()
	}
	tree.Path = shared.NormalizePath(tree.Path)
	if tree.Type == "" {
		tree.Type = "Songs"
	}

	now := time.Now()
	tree.CreatedAt = now
	tree.UpdatedAt = now

	_, err := c.db.Exec(
		"INSERT INTO trees (id, path, tree_type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		tree.ID, tree.Path, tree.Type, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: tree %s", shared.ErrDuplicateEntry, tree.Path)
		}
		return fmt.Errorf("failed to insert tree: %w", err)
	}
	return nil
}

// RemoveTree unregisters a tree; catalogued tracks and tags cascade, the
// files themselves are untouched.
func (c *SQLiteCatalog) RemoveTree(path string) error {
	path = shared.NormalizePath(path)

	result, err := c.db.Exec("DELETE FROM trees WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("failed to delete tree: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTreeNotFound, path)
	}
	return nil
}

// SaveTracks replaces the catalogued track set of the tree with the tree's
// in-memory track set, preserving tag order.
func (c *SQLiteCatalog) SaveTracks(tree *models.Tree) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tracks WHERE tree_id = ?", tree.ID); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	now := time.Now()
	for _, track := range tree.Tracks {
		if track.ID == "" {
			track.ID = shared.GenerateID()
		}
		track.TreeID = tree.ID

		_, err := tx.Exec(
			"INSERT INTO tracks (id, tree_id, relative_path, checksum, mtime, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			track.ID, track.TreeID, track.RelPath, nullable(track.Checksum), track.MTime, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert track %s: %w", track.RelPath, err)
		}

		for position, tag := range track.Tags {
			_, err := tx.Exec(
				"INSERT INTO track_tags (id, track_id, tag, value, position) VALUES (?, ?, ?, ?, ?)",
				shared.GenerateID(), track.ID, tag.Name, tag.Value, position,
			)
			if err != nil {
				return fmt.Errorf("failed to insert tag %s for %s: %w", tag.Name, track.RelPath, err)
			}
		}
	}

	if _, err := tx.Exec("UPDATE trees SET updated_at = ? WHERE id = ?", now, tree.ID); err != nil {
		return fmt.Errorf("failed to touch tree: %w", err)
	}

	return tx.Commit()
}

// FindTracks returns catalogued tracks whose absolute path matches the given
// literal path or path prefix, across all trees.
func (c *SQLiteCatalog) FindTracks(path string) ([]*models.Track, error) {
	path = shared.NormalizePath(path)

	trees, err := c.Trees()
	if err != nil {
		return nil, err
	}

	var matched []*models.Track
	for _, tree := range trees {
		tracks, err := c.treeTracks(tree)
		if err != nil {
			return nil, err
		}
		for _, track := range tracks {
			if track.Path == path || strings.HasPrefix(track.Path, path+"/") {
				matched = append(matched, track)
			}
		}
	}
	return matched, nil
}

// UpdateTrackChecksum recomputes the track fingerprint from file content and
// persists it.
func (c *SQLiteCatalog) UpdateTrackChecksum(track *models.Track) (string, error) {
	sum, err := checksum.Compute(track.Path)
	if err != nil {
		return "", err
	}

	result, err := c.db.Exec(
		"UPDATE tracks SET checksum = ?, updated_at = ? WHERE id = ?",
		sum, time.Now(), track.ID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to update checksum: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return "", fmt.Errorf("%w: %s", shared.ErrTrackNotFound, track.RelPath)
	}

	track.Checksum = sum
	return sum, nil
}

// SyncTargets returns all persisted sync targets ordered by name.
func (c *SQLiteCatalog) SyncTargets() ([]*models.SyncTarget, error) {
	rows, err := c.db.Query(
		"SELECT id, name, kind, src, dst, flags, rename_callback, delete_extraneous FROM sync_targets ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync targets: %w", err)
	}
	defer rows.Close()

	var targets []*models.SyncTarget
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// GetSyncTarget retrieves a sync target by logical name.
func (c *SQLiteCatalog) GetSyncTarget(name string) (*models.SyncTarget, error) {
	row := c.db.QueryRow(
		"SELECT id, name, kind, src, dst, flags, rename_callback, delete_extraneous FROM sync_targets WHERE name = ?",
		name,
	)
	target, err := scanTarget(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: sync target %s", shared.ErrNotFound, name)
	}
	return target, err
}

// AddSyncTarget persists a sync target descriptor.
func (c *SQLiteCatalog) AddSyncTarget(target *models.SyncTarget) error {
	if !target.Kind.Valid() {
		return fmt.Errorf("%w: %s", shared.ErrUnknownKind, target.Kind)
	}
	if target.Name == "" || target.Src == "" || target.Dst == "" {
		return fmt.Errorf("%w: target requires name, source and destination", shared.ErrInvalidTarget)
	}
	if target.ID == "" {
		target.ID = shared.GenerateID()
	}

	_, err := c.db.Exec(
		"INSERT INTO sync_targets (id, name, kind, src, dst, flags, rename_callback, delete_extraneous) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		target.ID, target.Name, string(target.Kind), target.Src, target.Dst,
		strings.Join(target.Flags, " "), target.Rename, boolInt(target.Delete),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: sync target %s", shared.ErrDuplicateEntry, target.Name)
		}
		return fmt.Errorf("failed to insert sync target: %w", err)
	}
	return nil
}

// DeleteSyncTarget removes a persisted sync target by logical name.
func (c *SQLiteCatalog) DeleteSyncTarget(name string) error {
	result, err := c.db.Exec("DELETE FROM sync_targets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete sync target: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: sync target %s", shared.ErrNotFound, name)
	}
	return nil
}

// TreeMirror returns the configured mirror destination for the tree.
func (c *SQLiteCatalog) TreeMirror(treeID string) (string, error) {
	var destination string
	err := c.db.QueryRow("SELECT destination FROM tree_mirrors WHERE tree_id = ?", treeID).Scan(&destination)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: mirror for tree %s", shared.ErrNotFound, treeID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query tree mirror: %w", err)
	}
	return destination, nil
}

// SetTreeMirror sets or replaces the mirror destination for the tree.
func (c *SQLiteCatalog) SetTreeMirror(treeID, destination string) error {
	_, err := c.db.Exec(
		"INSERT INTO tree_mirrors (id, tree_id, destination) VALUES (?, ?, ?) ON CONFLICT (tree_id) DO UPDATE SET destination = excluded.destination",
		shared.GenerateID(), treeID, shared.NormalizePath(destination),
	)
	if err != nil {
		return fmt.Errorf("failed to set tree mirror: %w", err)
	}
	return nil
}

// Setting reads a catalog setting by key.
func (c *SQLiteCatalog) Setting(key string) (string, error) {
	var value string
	err := c.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: setting %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting: %w", err)
	}
	return value, nil
}

// SetSetting writes a catalog setting.
func (c *SQLiteCatalog) SetSetting(key, value string) error {
	_, err := c.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write setting: %w", err)
	}
	return nil
}

func (c *SQLiteCatalog) treeTracks(tree *models.Tree) ([]*models.Track, error) {
	rows, err := c.db.Query(
		"SELECT id, relative_path, checksum, mtime FROM tracks WHERE tree_id = ? ORDER BY relative_path",
		tree.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track := &models.Track{TreeID: tree.ID}
		var sum sql.NullString
		if err := rows.Scan(&track.ID, &track.RelPath, &sum, &track.MTime); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		track.Checksum = sum.String
		track.Path = tree.Path + "/" + track.RelPath
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, track := range tracks {
		tags, err := c.trackTags(track.ID)
		if err != nil {
			return nil, err
		}
		track.Tags = tags
	}
	return tracks, nil
}

func (c *SQLiteCatalog) trackTags(trackID string) ([]models.Tag, error) {
	rows, err := c.db.Query(
		"SELECT tag, value FROM track_tags WHERE track_id = ? ORDER BY position",
		trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.Name, &tag.Value); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTree(row scanner) (*models.Tree, error) {
	tree := &models.Tree{}
	if err := row.Scan(&tree.ID, &tree.Path, &tree.Type, &tree.CreatedAt, &tree.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan tree: %w", err)
	}
	return tree, nil
}

func scanTarget(row scanner) (*models.SyncTarget, error) {
	target := &models.SyncTarget{}
	var kind, flags string
	var deleteExtraneous int

	err := row.Scan(&target.ID, &target.Name, &kind, &target.Src, &target.Dst, &flags, &target.Rename, &deleteExtraneous)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan sync target: %w", err)
	}

	target.Kind = models.TargetKind(kind)
	if flags != "" {
		target.Flags = strings.Fields(flags)
	}
	target.Delete = deleteExtraneous != 0
	return target, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
