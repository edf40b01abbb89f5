package md2speech

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Chunking bounds in lines per chunk.
const (
	MinChunkLines     = 1
	MaxChunkLines     = 1000
	DefaultChunkLines = 20
)

// Tempo bounds for the atempo audio filter.
// ffmpeg accepts 0.5-100.0 for a single atempo pass; 2.0 is already
// unintelligible for narration, so the upper bound is conservative.
const (
	MinTempo     = 0.5
	MaxTempo     = 2.0
	DefaultTempo = 1.0
)

// Worker bounds for per-document chunk processing.
const (
	MaxWorkers     = 8
	DefaultWorkers = 1
)

// Synthesis backend defaults.
const (
	DefaultBackendURL = "http://localhost:8080"
	DefaultModel      = "en-us-amy-low.onnx"
	DefaultVoice      = ""
)

// Input contains narration parameters for one document.
type Input struct {
	Markdown  string // Markdown content (required)
	Name      string // Document name, used for artifact and track naming (required)
	OutputDir string // Final track directory (optional, empty = current directory)
}

// Result describes the outcome of a successful narration.
type Result struct {
	TrackPath string // Final audio track location
	Chunks    int    // Number of chunks the document was split into
}

// validate checks that the input is processable.
func (in Input) validate() error {
	if in.Markdown == "" {
		return ErrEmptyDocument
	}
	if !utf8.ValidString(in.Markdown) {
		return fmt.Errorf("%w: content is not valid UTF-8", ErrDecode)
	}
	if in.Name == "" {
		return fmt.Errorf("document name is required")
	}
	return nil
}

// Option configures a Narrator.
type Option func(*Narrator)

// narratorConfig holds internal configuration for Narrator.
type narratorConfig struct {
	chunkLines int
	workers    int
	tempo      float64
	timeout    time.Duration
	backendURL string
	model      string
	voice      string
	keepWork   bool
}

// defaultTimeout bounds a single synthesis call.
const defaultTimeout = 2 * time.Minute

// WithChunkLines sets the maximum number of lines per chunk.
func WithChunkLines(n int) Option {
	return func(nr *Narrator) {
		nr.cfg.chunkLines = n
	}
}

// WithWorkers sets the number of chunks processed concurrently.
// The default of 1 issues one synthesis call at a time.
func WithWorkers(n int) Option {
	return func(nr *Narrator) {
		nr.cfg.workers = n
	}
}

// WithTempo sets the playback tempo applied during post-processing.
// 1.0 leaves the synthesized pace unchanged.
func WithTempo(t float64) Option {
	return func(nr *Narrator) {
		nr.cfg.tempo = t
	}
}

// WithTimeout sets the per-synthesis-call timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2speech: WithTimeout duration must be positive")
	}
	return func(nr *Narrator) {
		nr.cfg.timeout = d
	}
}

// WithBackendURL sets the TTS backend base URL.
func WithBackendURL(u string) Option {
	return func(nr *Narrator) {
		nr.cfg.backendURL = u
	}
}

// WithModel sets the TTS model identifier sent to the backend.
func WithModel(m string) Option {
	return func(nr *Narrator) {
		nr.cfg.model = m
	}
}

// WithVoice sets the voice/speaker identifier sent to the backend.
func WithVoice(v string) Option {
	return func(nr *Narrator) {
		nr.cfg.voice = v
	}
}

// WithKeepWork preserves per-chunk intermediates after a successful merge.
func WithKeepWork(keep bool) Option {
	return func(nr *Narrator) {
		nr.cfg.keepWork = keep
	}
}

// WithWorkspace sets the workspace holding intermediate artifacts.
func WithWorkspace(ws *Workspace) Option {
	return func(nr *Narrator) {
		nr.workspace = ws
	}
}

// WithSynthesizer injects a speech synthesizer (e.g., a fake in tests).
func WithSynthesizer(s Synthesizer) Option {
	return func(nr *Narrator) {
		nr.synthesizer = s
	}
}

// WithPostProcessor injects an audio post-processor.
func WithPostProcessor(p PostProcessor) Option {
	return func(nr *Narrator) {
		nr.postProcessor = p
	}
}

// WithAssembler injects a track assembler.
func WithAssembler(a Assembler) Option {
	return func(nr *Narrator) {
		nr.assembler = a
	}
}

// validateConfig checks narrator configuration bounds.
func (c narratorConfig) validate() error {
	if c.chunkLines < MinChunkLines || c.chunkLines > MaxChunkLines {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidChunkLines, c.chunkLines, MinChunkLines, MaxChunkLines)
	}
	if c.tempo < MinTempo || c.tempo > MaxTempo {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidTempo, c.tempo, MinTempo, MaxTempo)
	}
	if c.workers < 1 || c.workers > MaxWorkers {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidWorkerCount, c.workers, MaxWorkers)
	}
	if c.backendURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBackendURL)
	}
	return nil
}
