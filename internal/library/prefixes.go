package library

import (
	"path/filepath"
	"strings"

	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// PrefixResolver maps arbitrary filesystem paths to the best matching
// registered tree root. With nested or overlapping roots the longest
// matching prefix wins.
type PrefixResolver struct {
	trees []*models.Tree
}

// NewPrefixResolver creates a resolver over the given registered trees.
func NewPrefixResolver(trees ...*models.Tree) *PrefixResolver {
	r := &PrefixResolver{}
	for _, tree := range trees {
		r.Add(tree)
	}
	return r
}

// Add registers a tree root with the resolver.
func (r *PrefixResolver) Add(tree *models.Tree) {
	r.trees = append(r.trees, tree)
}

// Match returns the tree whose root is the longest prefix of path, or nil
// when no registered root is a prefix of the input. Trailing separators are
// normalized before comparison.
func (r *PrefixResolver) Match(path string) *models.Tree {
	path = shared.NormalizePath(path)

	var best *models.Tree
	for _, tree := range r.trees {
		root := shared.NormalizePath(tree.Path)
		if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
			continue
		}
		if best == nil || len(root) > len(shared.NormalizePath(best.Path)) {
			best = tree
		}
	}
	return best
}

// RelativePath resolves path against its best matching tree root and returns
// the path relative to that root. The second return value reports whether a
// registered root matched.
func (r *PrefixResolver) RelativePath(path string) (string, bool) {
	tree := r.Match(path)
	if tree == nil {
		return "", false
	}

	path = shared.NormalizePath(path)
	root := shared.NormalizePath(tree.Path)
	if path == root {
		return ".", true
	}
	return strings.TrimPrefix(path, root+string(filepath.Separator)), true
}
