package md2speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ Normalizer    = (*markdownNormalizer)(nil)
	_ Punctuator    = (*narrationPunctuator)(nil)
	_ Synthesizer   = (*httpSynthesizer)(nil)
	_ PostProcessor = (*ffmpegPostProcessor)(nil)
	_ Assembler     = (*ffmpegAssembler)(nil)
)

// Narrator orchestrates the markdown-to-audio pipeline.
// Create with NewNarrator(), use Narrate() per document, and Close() when
// done.
type Narrator struct {
	cfg           narratorConfig
	workspace     *Workspace
	normalizer    Normalizer
	punctuator    Punctuator
	synthesizer   Synthesizer
	postProcessor PostProcessor
	assembler     Assembler
}

// NewNarrator creates a Narrator with default configuration.
// Use options to customize behavior (e.g., WithChunkLines, WithWorkers,
// WithSynthesizer for tests). Returns an error when the configuration is
// out of bounds.
func NewNarrator(opts ...Option) (*Narrator, error) {
	n := &Narrator{
		cfg: narratorConfig{
			chunkLines: DefaultChunkLines,
			workers:    DefaultWorkers,
			tempo:      DefaultTempo,
			timeout:    defaultTimeout,
			backendURL: DefaultBackendURL,
			model:      DefaultModel,
			voice:      DefaultVoice,
		},
		normalizer: &markdownNormalizer{},
		punctuator: &narrationPunctuator{},
	}

	for _, opt := range opts {
		opt(n)
	}

	if err := n.cfg.validate(); err != nil {
		return nil, err
	}

	if n.workspace == nil {
		n.workspace = DefaultWorkspace()
	}

	// Create production collaborators if not injected (e.g., by tests)
	if n.synthesizer == nil {
		n.synthesizer = newHTTPSynthesizer(n.cfg.backendURL, n.cfg.model, n.cfg.voice, n.cfg.timeout)
	}
	if n.postProcessor == nil {
		n.postProcessor = newFFmpegPostProcessor(n.cfg.tempo)
	}
	if n.assembler == nil {
		n.assembler = newFFmpegAssembler()
	}

	return n, nil
}

// Narrate runs the full pipeline for one document and writes the final
// track to input.OutputDir (empty = current directory), named after the
// document. Any chunk-level failure aborts the whole document; a partial
// narration is never produced.
func (n *Narrator) Narrate(ctx context.Context, input Input) (*Result, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if err := n.workspace.ensure(); err != nil {
		return nil, err
	}
	if err := n.workspace.RemoveStale(input.Name); err != nil {
		return nil, err
	}

	chunks := splitChunks(input.Markdown, n.cfg.chunkLines)
	log.Debug().Str("document", input.Name).Int("chunks", len(chunks)).Msg("document chunked")

	if err := n.processChunks(ctx, input.Name, chunks); err != nil {
		return nil, err
	}

	trackPath := filepath.Join(input.OutputDir, input.Name+".mp3")
	segments := make([]string, len(chunks))
	for i, c := range chunks {
		segments[i] = n.workspace.SegmentPath(input.Name, c)
	}
	if err := n.assembler.Assemble(ctx, segments, trackPath); err != nil {
		// Segments stay on disk for diagnosis.
		return nil, err
	}

	if !n.cfg.keepWork {
		for _, c := range chunks {
			n.workspace.removeChunkArtifacts(input.Name, c)
		}
	}

	return &Result{TrackPath: trackPath, Chunks: len(chunks)}, nil
}

// processChunks runs the per-chunk pipeline across a bounded worker group.
// The first failure cancels the group; no new synthesis calls are issued
// and the whole document fails identifying the chunk.
func (n *Narrator) processChunks(ctx context.Context, name string, chunks []Chunk) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := n.cfg.workers
	if concurrency > len(chunks) {
		concurrency = len(chunks)
	}

	errs := make([]error, len(chunks))
	jobs := make(chan int, len(chunks))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					errs[idx] = ctx.Err()
					continue
				}
				if err := n.processChunk(ctx, name, chunks[idx]); err != nil {
					errs[idx] = err
					n.workspace.removeChunkArtifacts(name, chunks[idx])
					cancel()
				}
			}
		}()
	}

	for i := range chunks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Prefer the chunk that actually failed over chunks that were only
	// cancelled in its wake.
	var firstErr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("chunk %d: %w", i, err)
		}
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return firstErr
}

// processChunk normalizes, punctuates, synthesizes, and post-processes one
// chunk, leaving exactly one playable audio artifact behind.
func (n *Narrator) processChunk(ctx context.Context, name string, c Chunk) error {
	narration := n.punctuator.Punctuate(n.normalizer.Normalize(c.Content))

	textPath := n.workspace.TextPath(name, c)
	if err := os.WriteFile(textPath, []byte(narration), filePermissions); err != nil {
		return fmt.Errorf("writing narration text: %w", err)
	}

	rawPath := n.workspace.RawAudioPath(name, c)
	if err := n.synthesizer.Synthesize(ctx, narration, rawPath); err != nil {
		return err
	}

	segmentPath := n.workspace.SegmentPath(name, c)
	if err := n.postProcessor.Process(ctx, rawPath, segmentPath); err != nil {
		return err
	}

	// The playable segment exists; its inputs are disposable now.
	if !n.cfg.keepWork {
		_ = os.Remove(textPath)
		_ = os.Remove(rawPath)
	}
	return nil
}

// Close releases narrator resources. Present for symmetry with pooled use;
// the production collaborators hold no persistent connections.
func (n *Narrator) Close() error {
	return nil
}
