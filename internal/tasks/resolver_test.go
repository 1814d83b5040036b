package tasks

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// mockCatalog is a test double for catalog.Catalog backed by maps.
type mockCatalog struct {
	trees   map[string]*models.Tree
	mirrors map[string]string
	targets map[string]*models.SyncTarget
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		trees:   make(map[string]*models.Tree),
		mirrors: make(map[string]string),
		targets: make(map[string]*models.SyncTarget),
	}
}

func (m *mockCatalog) Trees() ([]*models.Tree, error) {
	var trees []*models.Tree
	for _, tree := range m.trees {
		trees = append(trees, tree)
	}
	return trees, nil
}

func (m *mockCatalog) GetTree(path string) (*models.Tree, error) {
	if tree, ok := m.trees[shared.NormalizePath(path)]; ok {
		return tree, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrTreeNotFound, path)
}

func (m *mockCatalog) AddTree(tree *models.Tree) error {
	m.trees[shared.NormalizePath(tree.Path)] = tree
	return nil
}

func (m *mockCatalog) RemoveTree(path string) error {
	delete(m.trees, shared.NormalizePath(path))
	return nil
}

func (m *mockCatalog) SaveTracks(tree *models.Tree) error { return nil }

func (m *mockCatalog) FindTracks(path string) ([]*models.Track, error) { return nil, nil }

func (m *mockCatalog) UpdateTrackChecksum(track *models.Track) (string, error) {
	return "", shared.ErrNotImplemented
}

func (m *mockCatalog) SyncTargets() ([]*models.SyncTarget, error) {
	var targets []*models.SyncTarget
	for _, target := range m.targets {
		targets = append(targets, target)
	}
	return targets, nil
}

func (m *mockCatalog) GetSyncTarget(name string) (*models.SyncTarget, error) {
	if target, ok := m.targets[name]; ok {
		return target, nil
	}
	return nil, fmt.Errorf("%w: sync target %s", shared.ErrNotFound, name)
}

func (m *mockCatalog) AddSyncTarget(target *models.SyncTarget) error {
	m.targets[target.Name] = target
	return nil
}

func (m *mockCatalog) DeleteSyncTarget(name string) error {
	delete(m.targets, name)
	return nil
}

func (m *mockCatalog) TreeMirror(treeID string) (string, error) {
	if dst, ok := m.mirrors[treeID]; ok {
		return dst, nil
	}
	return "", fmt.Errorf("%w: mirror for tree %s", shared.ErrNotFound, treeID)
}

func (m *mockCatalog) SetTreeMirror(treeID, destination string) error {
	m.mirrors[treeID] = destination
	return nil
}

func (m *mockCatalog) Setting(key string) (string, error) {
	return "", fmt.Errorf("%w: setting %s", shared.ErrNotFound, key)
}

func (m *mockCatalog) SetSetting(key, value string) error { return nil }

func (m *mockCatalog) Close() error { return nil }

func TestParseTarget(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("configured target resolves by name", func(t *testing.T) {
		store := newMockCatalog()
		store.AddSyncTarget(&models.SyncTarget{
			Name: "laptop",
			Kind: models.RsyncTarget,
			Src:  "/music/flac",
			Dst:  "user@laptop:/music",
		})

		resolver := NewTargetResolver(store, logger)
		target, err := resolver.ParseTarget("laptop")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if target == nil || target.Kind != models.RsyncTarget {
			t.Fatalf("expected configured rsync target, got %+v", target)
		}
	})

	t.Run("registered tree with mirror synthesizes directory target", func(t *testing.T) {
		store := newMockCatalog()
		store.AddTree(&models.Tree{ID: "t1", Path: "/music/flac"})
		store.SetTreeMirror("t1", "/backup/flac")

		resolver := NewTargetResolver(store, logger)
		target, err := resolver.ParseTarget("/music/flac")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if target == nil {
			t.Fatal("expected synthesized target")
		}
		if target.Kind != models.DirectoryTarget {
			t.Errorf("expected directory kind, got %s", target.Kind)
		}
		if target.Src != "/music/flac" || target.Dst != "/backup/flac" {
			t.Errorf("unexpected locators: %s -> %s", target.Src, target.Dst)
		}
	})

	t.Run("tree without mirror resolves to none", func(t *testing.T) {
		store := newMockCatalog()
		store.AddTree(&models.Tree{ID: "t1", Path: "/music/flac"})

		resolver := NewTargetResolver(store, logger)
		target, err := resolver.ParseTarget("/music/flac")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if target != nil {
			t.Errorf("expected nil target, got %+v", target)
		}
	})

	t.Run("unknown token resolves to none without error", func(t *testing.T) {
		resolver := NewTargetResolver(newMockCatalog(), logger)

		target, err := resolver.ParseTarget("nonexistent")
		if err != nil {
			t.Fatalf("unknown token should not error: %v", err)
		}
		if target != nil {
			t.Errorf("expected nil target, got %+v", target)
		}
	})

	t.Run("configured target wins over derivable mirror", func(t *testing.T) {
		store := newMockCatalog()
		store.AddTree(&models.Tree{ID: "t1", Path: "/music/flac"})
		store.SetTreeMirror("t1", "/backup/flac")
		store.AddSyncTarget(&models.SyncTarget{
			Name: "/music/flac",
			Kind: models.RsyncTarget,
			Src:  "/music/flac",
			Dst:  "remote:/flac",
		})

		resolver := NewTargetResolver(store, logger)
		target, err := resolver.ParseTarget("/music/flac")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if target.Kind != models.RsyncTarget {
			t.Errorf("expected configured target to take precedence, got kind %s", target.Kind)
		}
	})

	t.Run("malformed configured descriptor is rejected", func(t *testing.T) {
		store := newMockCatalog()
		store.AddSyncTarget(&models.SyncTarget{Name: "broken", Kind: models.RsyncTarget, Src: "/music"})

		resolver := NewTargetResolver(store, logger)
		if _, err := resolver.ParseTarget("broken"); !errors.Is(err, shared.ErrInvalidTarget) {
			t.Errorf("expected ErrInvalidTarget, got %v", err)
		}
	})
}

func TestParseTargets(t *testing.T) {
	store := newMockCatalog()
	store.AddSyncTarget(&models.SyncTarget{
		Name: "laptop",
		Kind: models.RsyncTarget,
		Src:  "/music/flac",
		Dst:  "remote:/flac",
	})

	resolver := NewTargetResolver(store, shared.NewLogger(nil))
	targets, unknown, err := resolver.ParseTargets([]string{"laptop", "nonexistent", "also-missing"})
	if err != nil {
		t.Fatalf("batch parse failed: %v", err)
	}
	if len(targets) != 1 {
		t.Errorf("expected 1 resolved target, got %d", len(targets))
	}
	if len(unknown) != 2 {
		t.Errorf("expected 2 unknown tokens, got %v", unknown)
	}
}
