package tasks

import (
	"errors"
	"testing"

	"github.com/hile/soundforest/internal/shared"
)

func TestNTFSRename(t *testing.T) {
	tc := []struct {
		name string
		path string
		want string
	}{
		{name: "colon becomes dash", path: "artist/album: live/track.flac", want: "artist/album -  live/track.flac"},
		{name: "question mark dropped", path: "artist/what?/track.flac", want: "artist/what/track.flac"},
		{name: "pipe and angle brackets", path: "a|b/c>d/e<f.flac", want: "a-b/c-d/e-f.flac"},
		{name: "trailing dots stripped", path: "album./track.flac", want: "album/track.flac"},
		{name: "trailing spaces stripped", path: "album /track.flac", want: "album/track.flac"},
		{name: "clean path unchanged", path: "artist/album/track.flac", want: "artist/album/track.flac"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NTFSRename(tt.path); got != tt.want {
				t.Errorf("NTFSRename(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRenameCallback(t *testing.T) {
	if fn, err := RenameCallback(""); err != nil || fn != nil {
		t.Errorf("empty name should resolve to nil callback, got %v %v", fn, err)
	}

	fn, err := RenameCallback("ntfs")
	if err != nil {
		t.Fatalf("ntfs callback should resolve: %v", err)
	}
	if fn == nil {
		t.Fatal("expected non-nil callback")
	}

	if _, err := RenameCallback("vfat"); !errors.Is(err, shared.ErrUnknownRename) {
		t.Errorf("expected ErrUnknownRename, got %v", err)
	}
}
