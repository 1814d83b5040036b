package library

import (
	"testing"

	"github.com/hile/soundforest/internal/models"
)

func TestPrefixResolver(t *testing.T) {
	music := &models.Tree{Path: "/music"}
	flac := &models.Tree{Path: "/music/flac"}
	volumes := &models.Tree{Path: "/Volumes/Media/"}

	r := NewPrefixResolver(music, flac, volumes)

	t.Run("Match", func(t *testing.T) {
		tc := []struct {
			name string
			path string
			want *models.Tree
		}{
			{name: "longest prefix wins", path: "/music/flac/artist/song.flac", want: flac},
			{name: "shorter root for sibling", path: "/music/mp3/artist/song.mp3", want: music},
			{name: "exact root", path: "/music/flac", want: flac},
			{name: "trailing separator on input", path: "/music/flac/", want: flac},
			{name: "trailing separator on root", path: "/Volumes/Media/disc", want: volumes},
			{name: "no registered prefix", path: "/home/user/song.flac", want: nil},
			{name: "prefix is not path component", path: "/musical/song.flac", want: nil},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got := r.Match(tt.path)
				if got != tt.want {
					t.Errorf("Match(%s) = %v, want %v", tt.path, got, tt.want)
				}
			})
		}
	})

	t.Run("RelativePath", func(t *testing.T) {
		rel, ok := r.RelativePath("/music/flac/artist/song.flac")
		if !ok {
			t.Fatal("expected match")
		}
		if rel != "artist/song.flac" {
			t.Errorf("RelativePath = %s, want artist/song.flac", rel)
		}

		rel, ok = r.RelativePath("/music/flac")
		if !ok || rel != "." {
			t.Errorf("RelativePath for root = %s ok=%v, want . true", rel, ok)
		}

		if _, ok := r.RelativePath("/elsewhere"); ok {
			t.Error("expected no match outside registered roots")
		}
	})

	t.Run("non-overlapping roots match at most once", func(t *testing.T) {
		a := &models.Tree{Path: "/a"}
		b := &models.Tree{Path: "/b"}
		r := NewPrefixResolver(a, b)

		if got := r.Match("/a/x"); got != a {
			t.Errorf("Match(/a/x) = %v, want tree a", got)
		}
		if got := r.Match("/b/x"); got != b {
			t.Errorf("Match(/b/x) = %v, want tree b", got)
		}
	})
}
