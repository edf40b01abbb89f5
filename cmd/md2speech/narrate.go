package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	md2speech "github.com/alnah/go-md2speech"
	"github.com/alnah/go-md2speech/internal/config"
	"github.com/alnah/go-md2speech/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrInvalidTimeout   = errors.New("invalid timeout")
)

// Narrator is the interface for the narration service.
type Narrator interface {
	Narrate(ctx context.Context, input md2speech.Input) (*md2speech.Result, error)
}

// Compile-time interface implementation check.
var _ Narrator = (*md2speech.Narrator)(nil)

// Pool abstracts narrator pool operations for testability.
type Pool interface {
	Acquire() Narrator
	Release(Narrator)
	Size() int
}

// poolAdapter wraps md2speech.NarratorPool to the CLI Pool interface.
type poolAdapter struct {
	pool *md2speech.NarratorPool
}

func (a *poolAdapter) Acquire() Narrator { return a.pool.Acquire() }

func (a *poolAdapter) Release(n Narrator) {
	nar, ok := n.(*md2speech.Narrator)
	if !ok {
		panic(fmt.Sprintf("poolAdapter: unexpected type %T", n))
	}
	a.pool.Release(nar)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

// FileToNarrate represents a single file to process.
type FileToNarrate struct {
	InputPath string
	Name      string
	OutputDir string
}

// NarrationResult holds the outcome of a single narration.
type NarrationResult struct {
	InputPath string
	TrackPath string
	Chunks    int
	Err       error
	Duration  time.Duration
}

// runNarrate orchestrates the narration process.
func runNarrate(ctx context.Context, positionalArgs []string, flags *narrateFlags, deps *Dependencies) error {
	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output directory
	outputDir := resolveOutputDir(flags.output, cfg)

	// Discover files to narrate
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	// Build narrator options from config and flags (flags win)
	opts, err := buildNarratorOptions(flags, cfg)
	if err != nil {
		return err
	}

	// One pooled narrator per document; concurrency within a document is
	// governed by the workers option.
	poolSize := 1
	if len(files) > 1 && flags.chunking.workers > 1 {
		poolSize = flags.chunking.workers
	}
	pool, err := md2speech.NewNarratorPool(poolSize, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	results := narrateBatch(ctx, &poolAdapter{pool: pool}, files)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, deps)
	if failedCount > 0 {
		// Surface the first failure so the exit code reflects the cause.
		for _, r := range results {
			if r.Err != nil {
				return fmt.Errorf("%s: %w", r.InputPath, r.Err)
			}
		}
	}

	// Auto-play only makes sense for a single final track.
	if shouldPlay(flags, cfg) && len(results) == 1 {
		if err := md2speech.PlayTrack(ctx, results[0].TrackPath); err != nil {
			return err
		}
	}

	return nil
}

// shouldPlay merges the play flag and config.
func shouldPlay(flags *narrateFlags, cfg *config.Config) bool {
	return flags.play || cfg.Playback.Enabled
}

// buildNarratorOptions converts config and flags into library options.
// CLI values override config values; zero values fall through to library
// defaults.
func buildNarratorOptions(flags *narrateFlags, cfg *config.Config) ([]md2speech.Option, error) {
	var opts []md2speech.Option

	if u := firstNonEmpty(flags.backend.url, cfg.Backend.URL); u != "" {
		opts = append(opts, md2speech.WithBackendURL(u))
	}
	if m := firstNonEmpty(flags.backend.model, cfg.Backend.Model); m != "" {
		opts = append(opts, md2speech.WithModel(m))
	}
	if v := firstNonEmpty(flags.backend.voice, cfg.Backend.Voice); v != "" {
		opts = append(opts, md2speech.WithVoice(v))
	}

	if t := firstNonEmpty(flags.backend.timeout, cfg.Backend.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeout, t)
		}
		opts = append(opts, md2speech.WithTimeout(d))
	}

	tempo := flags.audio.tempo
	if tempo == 0 {
		tempo = cfg.Audio.Tempo
	}
	if tempo != 0 {
		opts = append(opts, md2speech.WithTempo(tempo))
	}

	lines := flags.chunking.lines
	if lines == 0 {
		lines = cfg.Chunking.MaxLines
	}
	if lines != 0 {
		opts = append(opts, md2speech.WithChunkLines(lines))
	}

	workers := flags.chunking.workers
	if workers == 0 {
		workers = cfg.Chunking.Workers
	}
	if workers != 0 {
		opts = append(opts, md2speech.WithWorkers(workers))
	}

	if dir := firstNonEmpty(flags.workDir, cfg.Output.WorkDir); dir != "" {
		opts = append(opts, md2speech.WithWorkspace(md2speech.NewWorkspace(dir)))
	}

	if flags.keepWork {
		opts = append(opts, md2speech.WithKeepWork(true))
	}

	return opts, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles finds all markdown files to narrate.
func discoverFiles(inputPath, outputDir string) ([]FileToNarrate, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		return []FileToNarrate{{
			InputPath: inputPath,
			Name:      fileutil.BaseName(inputPath),
			OutputDir: outputDir,
		}}, nil
	}

	var files []FileToNarrate
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".markdown" {
			return nil
		}
		files = append(files, FileToNarrate{
			InputPath: path,
			Name:      fileutil.BaseName(path),
			OutputDir: outputDir,
		})
		return nil
	})

	return files, err
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// narrateBatch processes files concurrently using the narrator pool.
func narrateBatch(ctx context.Context, pool Pool, files []FileToNarrate) []NarrationResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]NarrationResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			nar := pool.Acquire()
			defer pool.Release(nar)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = NarrationResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = narrateFile(ctx, nar, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// narrateFile processes a single file and returns the result.
func narrateFile(ctx context.Context, nar Narrator, f FileToNarrate) NarrationResult {
	start := time.Now()
	result := NarrationResult{InputPath: f.InputPath}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	if f.OutputDir != "" {
		if err := os.MkdirAll(f.OutputDir, 0o750); err != nil {
			result.Err = fmt.Errorf("creating output directory: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	}

	res, err := nar.Narrate(ctx, md2speech.Input{
		Markdown:  string(content),
		Name:      f.Name,
		OutputDir: f.OutputDir,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.TrackPath = res.TrackPath
	result.Chunks = res.Chunks
	result.Duration = time.Since(start)
	return result
}

// printResults outputs narration results using the provided writers.
func printResults(results []NarrationResult, quiet, verbose bool, deps *Dependencies) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(deps.Stdout, "%s -> %s (%d chunks, %v)\n",
				r.InputPath, r.TrackPath, r.Chunks, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(deps.Stdout, "Created %s\n", r.TrackPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(deps.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
