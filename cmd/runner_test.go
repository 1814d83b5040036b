package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hile/soundforest/internal/catalog"
	"github.com/hile/soundforest/internal/codecs"
	"github.com/hile/soundforest/internal/shared"
	"github.com/urfave/cli/v3"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	store, err := catalog.NewSQLiteCatalog(":memory:")
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Catalog: store,
		Logger:  shared.NewLogger(nil),
		Output:  output,
	})
	return runner, output
}

func runApp(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "soundforest",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"soundforest"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			registry := codecs.NewRegistry()

			runner := NewRunner(RunnerOpts{
				Config: config,
				Codecs: registry,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.codecs != registry {
				t.Error("expected codec registry to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.config.Sync.Threads <= 0 {
				t.Error("expected default sync thread count")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlain("hello %s\n", "world")
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestTreeCommands(t *testing.T) {
	t.Run("add, list and remove", func(t *testing.T) {
		runner, output := newTestRunner(t)
		root := t.TempDir()

		if err := runApp(t, runner, "tree", "add", root); err != nil {
			t.Fatalf("tree add failed: %v", err)
		}
		if !strings.Contains(output.String(), "Registered tree") {
			t.Errorf("missing registration output: %s", output.String())
		}

		output.Reset()
		if err := runApp(t, runner, "tree", "list"); err != nil {
			t.Fatalf("tree list failed: %v", err)
		}
		if !strings.Contains(output.String(), root) {
			t.Errorf("registered tree missing from list: %s", output.String())
		}

		output.Reset()
		if err := runApp(t, runner, "tree", "remove", root); err != nil {
			t.Fatalf("tree remove failed: %v", err)
		}
		if err := runApp(t, runner, "tree", "remove", root); err == nil {
			t.Error("expected removing an unknown tree to fail")
		}
	})

	t.Run("update scans recognized audio files", func(t *testing.T) {
		runner, output := newTestRunner(t)
		root := t.TempDir()

		trackPath := filepath.Join(root, "album", "track.flac")
		if err := os.MkdirAll(filepath.Dir(trackPath), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(trackPath, []byte("flac-data"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not audio"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := runApp(t, runner, "tree", "add", root); err != nil {
			t.Fatalf("tree add failed: %v", err)
		}
		output.Reset()

		if err := runApp(t, runner, "tree", "update", root); err != nil {
			t.Fatalf("tree update failed: %v", err)
		}
		if !strings.Contains(output.String(), "1 tracks (1 added, 0 removed)") {
			t.Errorf("unexpected update summary: %s", output.String())
		}

		output.Reset()
		if err := runApp(t, runner, "tree", "tracks", root); err != nil {
			t.Fatalf("tree tracks failed: %v", err)
		}
		if !strings.Contains(output.String(), "track.flac") {
			t.Errorf("catalogued track missing: %s", output.String())
		}
		if strings.Contains(output.String(), "notes.txt") {
			t.Errorf("unrecognized file catalogued: %s", output.String())
		}
	})
}

func TestTargetCommands(t *testing.T) {
	runner, output := newTestRunner(t)

	err := runApp(t, runner, "target", "add", "laptop",
		"--src", "/music/flac", "--dst", "remote:/flac", "--kind", "rsync", "--delete")
	if err != nil {
		t.Fatalf("target add failed: %v", err)
	}

	output.Reset()
	if err := runApp(t, runner, "target", "list"); err != nil {
		t.Fatalf("target list failed: %v", err)
	}
	if !strings.Contains(output.String(), "laptop") {
		t.Errorf("configured target missing from list: %s", output.String())
	}

	if err := runApp(t, runner, "target", "add", "tape",
		"--src", "/a", "--dst", "/b", "--kind", "tape"); err == nil {
		t.Error("expected unknown kind to be rejected")
	}

	if err := runApp(t, runner, "target", "remove", "laptop"); err != nil {
		t.Fatalf("target remove failed: %v", err)
	}
	if err := runApp(t, runner, "target", "remove", "laptop"); err == nil {
		t.Error("expected removing an unknown target to fail")
	}
}

func TestSyncRunCommand(t *testing.T) {
	t.Run("directory target syncs through the engine", func(t *testing.T) {
		runner, output := newTestRunner(t)
		src := t.TempDir()
		dst := t.TempDir()

		if err := os.WriteFile(filepath.Join(src, "track.mp3"), []byte("mp3-data"), 0644); err != nil {
			t.Fatal(err)
		}

		err := runApp(t, runner, "target", "add", "mirror", "--src", src, "--dst", dst)
		if err != nil {
			t.Fatalf("target add failed: %v", err)
		}
		output.Reset()

		if err := runApp(t, runner, "sync", "run", "mirror"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}
		if !strings.Contains(output.String(), "1 ok, 0 failed") {
			t.Errorf("unexpected sync summary: %s", output.String())
		}
		if _, err := os.Stat(filepath.Join(dst, "track.mp3")); err != nil {
			t.Errorf("file not mirrored: %v", err)
		}
	})

	t.Run("unknown token reports nothing to sync", func(t *testing.T) {
		runner, output := newTestRunner(t)

		if err := runApp(t, runner, "sync", "run", "nonexistent"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}
		if !strings.Contains(output.String(), "Nothing to sync") {
			t.Errorf("expected nothing-to-sync notice: %s", output.String())
		}
	})
}

func TestChecksumCommands(t *testing.T) {
	runner, output := newTestRunner(t)
	root := t.TempDir()

	trackPath := filepath.Join(root, "track.flac")
	if err := os.WriteFile(trackPath, []byte("flac-data"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := runApp(t, runner, "tree", "add", root); err != nil {
		t.Fatalf("tree add failed: %v", err)
	}
	if err := runApp(t, runner, "tree", "update", root); err != nil {
		t.Fatalf("tree update failed: %v", err)
	}
	output.Reset()

	if err := runApp(t, runner, "checksum", "update", root); err != nil {
		t.Fatalf("checksum update failed: %v", err)
	}
	if !strings.Contains(output.String(), "Updated checksums for 1 tracks") {
		t.Errorf("unexpected update output: %s", output.String())
	}

	output.Reset()
	if err := runApp(t, runner, "checksum", "verify", root); err != nil {
		t.Fatalf("checksum verify failed: %v", err)
	}
	if !strings.Contains(output.String(), "Verified 1/1 tracks") {
		t.Errorf("unexpected verify output: %s", output.String())
	}

	// Content drift is detected on the next verification pass.
	if err := os.WriteFile(trackPath, []byte("modified"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runApp(t, runner, "checksum", "verify", root); err == nil {
		t.Error("expected verification to fail after content change")
	}

	// Paths outside any registered tree are rejected.
	if err := runApp(t, runner, "checksum", "update", t.TempDir()); err == nil {
		t.Error("expected unregistered path to be rejected")
	}
}

func TestCodecListCommand(t *testing.T) {
	runner, output := newTestRunner(t)

	if err := runApp(t, runner, "codec", "list"); err != nil {
		t.Fatalf("codec list failed: %v", err)
	}
	for _, name := range []string{"mp3", "flac", "vorbis"} {
		if !strings.Contains(output.String(), name) {
			t.Errorf("codec %s missing from listing: %s", name, output.String())
		}
	}
}
