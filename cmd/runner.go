package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/hile/soundforest/internal/catalog"
	"github.com/hile/soundforest/internal/codecs"
	"github.com/hile/soundforest/internal/library"
	"github.com/hile/soundforest/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog catalog.Catalog
	codecs  *codecs.Registry
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog catalog.Catalog
	Codecs  *codecs.Registry
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Codecs == nil {
		opts.Codecs = codecs.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		codecs:  opts.Codecs,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, treeCommand, checksumCommand, targetCommand, syncCommand, codecCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reloads configuration from the command's --config flag, falling
// back to the runner's current config when the file is absent or unreadable.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}
	if _, err := os.Stat(configPath); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return r.config
	}
	r.config = config
	return config
}

// openCatalog returns the injected catalog or opens the configured SQLite
// store. The returned closer is a no-op for injected catalogs so tests can
// reuse one store across actions.
func (r *Runner) openCatalog(config *shared.Config) (catalog.Catalog, func(), error) {
	if r.catalog != nil {
		return r.catalog, func() {}, nil
	}

	store, err := catalog.NewSQLiteCatalog(config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// newLibrary builds a scanner honoring the configured ignored file names.
func (r *Runner) newLibrary(config *shared.Config) *library.Library {
	return library.New(library.Opts{
		Classifier:   r.codecs,
		IgnoredFiles: config.Library.IgnoredFiles,
		Logger:       r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
