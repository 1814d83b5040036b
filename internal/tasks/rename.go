package tasks

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hile/soundforest/internal/shared"
)

// RenameFunc remaps a destination relative path before the copy and delete
// decisions of a directory sync.
type RenameFunc func(path string) string

var ntfsReplacements = []struct {
	from string
	to   string
}{
	{"|", "-"},
	{">", "-"},
	{"<", "-"},
	{"\"", ""},
	{":", " - "},
	{"?", ""},
	{"!", ""},
	{"*", ""},
}

// NTFSRename substitutes characters NTFS filesystems reject and strips
// trailing dots and spaces from path components.
func NTFSRename(path string) string {
	for _, r := range ntfsReplacements {
		path = strings.ReplaceAll(path, r.from, r.to)
	}

	sep := string(filepath.Separator)
	parts := strings.Split(path, sep)
	for i, part := range parts {
		parts[i] = strings.TrimRight(part, ". ")
	}
	return strings.Join(parts, sep)
}

// renameCallbacks is the closed set of rename callback identifiers accepted
// in sync target descriptors.
var renameCallbacks = map[string]RenameFunc{
	"ntfs": NTFSRename,
}

// RenameCallback resolves a rename callback identifier. An empty name
// resolves to nil without error.
func RenameCallback(name string) (RenameFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := renameCallbacks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownRename, name)
	}
	return fn, nil
}

// RenameCallbackNames returns the accepted rename callback identifiers.
func RenameCallbackNames() []string {
	names := make([]string, 0, len(renameCallbacks))
	for name := range renameCallbacks {
		names = append(names, name)
	}
	return names
}
