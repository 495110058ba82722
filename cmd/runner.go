package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/oliverjern/genregenius/internal/library"
	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/shared"
	"github.com/oliverjern/genregenius/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	metadata  services.MetadataService
	streaming services.StreamingService
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Metadata  services.MetadataService
	Streaming services.StreamingService
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:    opts.Config,
		metadata:  opts.Metadata,
		streaming: opts.Streaming,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, discoverCommand, curateCommand, runCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// seedSource picks seed artists from the --artist flags when given, otherwise
// from the library directory.
func (r *Runner) seedSource(cmd *cli.Command) (library.SeedSource, error) {
	if artists := cmd.StringSlice("artist"); len(artists) > 0 {
		return library.NewStaticSeedSource(artists), nil
	}

	dir := cmd.String("library")
	if dir == "" {
		dir = r.config.Library.Dir
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: no --artist flags and no library directory configured", shared.ErrMissingArgument)
	}
	return library.NewDirectorySeedSource(dir), nil
}

// loadSeeds reads seed artists and applies the configured source limit.
func (r *Runner) loadSeeds(cmd *cli.Command) ([]string, error) {
	source, err := r.seedSource(cmd)
	if err != nil {
		return nil, err
	}

	seeds, err := source.Seeds()
	if err != nil {
		return nil, err
	}

	if max := r.config.Discovery.MaxSourceArtists; max > 0 && len(seeds) > max {
		r.logger.Info("limiting source artists", "found", len(seeds), "max", max)
		seeds = seeds[:max]
	}
	return seeds, nil
}

// artifactPath resolves where the recommendation artifact lives: the --artifact
// flag wins, then the configured path, optionally relative to the library
// directory.
func (r *Runner) artifactPath(cmd *cli.Command) string {
	if path := cmd.String("artifact"); path != "" {
		return path
	}

	path := r.config.Discovery.ArtifactPath
	if path == "" {
		path = "recommendations.json"
	}
	if r.config.Discovery.SaveInLibraryDir && r.config.Library.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.config.Library.Dir, path)
	}
	return path
}

// streamProgress consumes progress updates onto the runner's output until the
// returned stop function is called.
func (r *Runner) streamProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
		close(done)
	}()

	return progress, func() {
		close(progress)
		<-done
	}
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
