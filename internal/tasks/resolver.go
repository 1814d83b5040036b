package tasks

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/hile/soundforest/internal/catalog"
	"github.com/hile/soundforest/internal/models"
	"github.com/hile/soundforest/internal/shared"
)

// TargetResolver turns user supplied tokens into sync target descriptors.
type TargetResolver struct {
	catalog catalog.Catalog
	logger  *log.Logger
}

// NewTargetResolver creates a resolver over the given catalog.
func NewTargetResolver(store catalog.Catalog, logger *log.Logger) *TargetResolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TargetResolver{catalog: store, logger: logger}
}

// ParseTarget resolves a token to a sync target descriptor.
//
// Resolution order: a configured sync target by name wins, then a local path
// pointing at a registered tree with a configured mirror synthesizes a
// directory target. An unknown token resolves to (nil, nil); absence is a
// normal, reportable outcome, not an error. Malformed configured descriptors
// are the only error case.
func (r *TargetResolver) ParseTarget(token string) (*models.SyncTarget, error) {
	target, err := r.catalog.GetSyncTarget(token)
	if err == nil {
		if target.Src == "" {
			return nil, fmt.Errorf("%w: target %s missing source", shared.ErrInvalidTarget, token)
		}
		if target.Dst == "" {
			return nil, fmt.Errorf("%w: target %s missing destination", shared.ErrInvalidTarget, token)
		}
		if !target.Kind.Valid() {
			return nil, fmt.Errorf("%w: %s", shared.ErrUnknownKind, target.Kind)
		}
		return target, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	return r.treeMirrorTarget(token)
}

// ParseTargets resolves a batch of tokens, reporting unknown tokens without
// aborting the remaining inputs.
func (r *TargetResolver) ParseTargets(tokens []string) ([]*models.SyncTarget, []string, error) {
	var targets []*models.SyncTarget
	var unknown []string

	for _, token := range tokens {
		target, err := r.ParseTarget(token)
		if err != nil {
			return nil, nil, err
		}
		if target == nil {
			r.logger.Warnf("no such sync target: %s", token)
			unknown = append(unknown, token)
			continue
		}
		targets = append(targets, target)
	}
	return targets, unknown, nil
}

func (r *TargetResolver) treeMirrorTarget(token string) (*models.SyncTarget, error) {
	tree, err := r.catalog.GetTree(token)
	if err != nil {
		if errors.Is(err, shared.ErrTreeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	mirror, err := r.catalog.TreeMirror(tree.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &models.SyncTarget{
		Name: token,
		Kind: models.DirectoryTarget,
		Src:  tree.Path,
		Dst:  mirror,
	}, nil
}
