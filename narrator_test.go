package md2speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeSynthesizer writes a marker file per call and can fail on demand.
type fakeSynthesizer struct {
	mu     sync.Mutex
	texts  []string
	failOn string // fail when the narration text contains this substring
	err    error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text, dstPath string) error {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return f.err
	}
	return os.WriteFile(dstPath, []byte("raw:"+text), 0o644)
}

func (f *fakeSynthesizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

// fakePostProcessor copies the raw file to the segment path.
type fakePostProcessor struct{}

func (f *fakePostProcessor) Process(_ context.Context, rawPath, outPath string) error {
	data, err := os.ReadFile(rawPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// fakeAssembler concatenates segment contents into the track.
type fakeAssembler struct{}

func (f *fakeAssembler) Assemble(_ context.Context, segmentPaths []string, trackPath string) error {
	var b strings.Builder
	for _, p := range segmentPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMerge, err)
		}
		b.Write(data)
	}
	return os.WriteFile(trackPath, []byte(b.String()), 0o644)
}

// newTestNarrator builds a narrator with fake collaborators and a temp
// workspace.
func newTestNarrator(t *testing.T, synth Synthesizer, opts ...Option) *Narrator {
	t.Helper()
	all := append([]Option{
		WithWorkspace(NewWorkspace(t.TempDir())),
		WithSynthesizer(synth),
		WithPostProcessor(&fakePostProcessor{}),
		WithAssembler(&fakeAssembler{}),
	}, opts...)
	n, err := NewNarrator(all...)
	if err != nil {
		t.Fatalf("NewNarrator() error: %v", err)
	}
	return n
}

func TestNewNarratorValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "chunk lines too low", opts: []Option{WithChunkLines(0)}, wantErr: ErrInvalidChunkLines},
		{name: "chunk lines too high", opts: []Option{WithChunkLines(1001)}, wantErr: ErrInvalidChunkLines},
		{name: "tempo too low", opts: []Option{WithTempo(0.4)}, wantErr: ErrInvalidTempo},
		{name: "tempo too high", opts: []Option{WithTempo(2.1)}, wantErr: ErrInvalidTempo},
		{name: "too many workers", opts: []Option{WithWorkers(MaxWorkers + 1)}, wantErr: ErrInvalidWorkerCount},
		{name: "zero workers", opts: []Option{WithWorkers(0)}, wantErr: ErrInvalidWorkerCount},
		{name: "empty backend URL", opts: []Option{WithBackendURL("")}, wantErr: ErrInvalidBackendURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNarrator(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewNarrator() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewNarratorDefaults(t *testing.T) {
	n, err := NewNarrator()
	if err != nil {
		t.Fatalf("NewNarrator() error: %v", err)
	}
	if n.cfg.chunkLines != DefaultChunkLines {
		t.Errorf("chunkLines = %d, want %d", n.cfg.chunkLines, DefaultChunkLines)
	}
	if n.cfg.workers != DefaultWorkers {
		t.Errorf("workers = %d, want %d", n.cfg.workers, DefaultWorkers)
	}
	if n.cfg.tempo != DefaultTempo {
		t.Errorf("tempo = %f, want %f", n.cfg.tempo, DefaultTempo)
	}
	if n.workspace == nil {
		t.Error("workspace not defaulted")
	}
	if n.synthesizer == nil || n.postProcessor == nil || n.assembler == nil {
		t.Error("production collaborators not created")
	}
}

func TestNarrateInputValidation(t *testing.T) {
	n := newTestNarrator(t, &fakeSynthesizer{})

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty document", input: Input{Markdown: "", Name: "doc"}, wantErr: ErrEmptyDocument},
		{name: "invalid utf8", input: Input{Markdown: "abc\xff\xfe", Name: "doc"}, wantErr: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Narrate(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Narrate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing name", func(t *testing.T) {
		_, err := n.Narrate(context.Background(), Input{Markdown: "hello"})
		if err == nil {
			t.Error("Narrate() succeeded without a document name")
		}
	})
}

func TestNarrateSingleChunk(t *testing.T) {
	synth := &fakeSynthesizer{}
	n := newTestNarrator(t, synth)
	outDir := t.TempDir()

	res, err := n.Narrate(context.Background(), Input{
		Markdown:  "# Title\n\nHello world.",
		Name:      "doc",
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}

	if res.Chunks != 1 {
		t.Errorf("Chunks = %d, want 1", res.Chunks)
	}
	if want := filepath.Join(outDir, "doc.mp3"); res.TrackPath != want {
		t.Errorf("TrackPath = %q, want %q", res.TrackPath, want)
	}
	if _, err := os.Stat(res.TrackPath); err != nil {
		t.Errorf("final track missing: %v", err)
	}
	if synth.callCount() != 1 {
		t.Errorf("synthesizer called %d times, want 1", synth.callCount())
	}

	// Narration text went through normalization and punctuation.
	text := synth.texts[0]
	if strings.Contains(text, "#") {
		t.Errorf("narration text still contains markdown: %q", text)
	}
	if !strings.Contains(text, "....") {
		t.Errorf("narration text missing per-line pause: %q", text)
	}
}

func TestNarrateMultiChunk(t *testing.T) {
	synth := &fakeSynthesizer{}
	n := newTestNarrator(t, synth, WithChunkLines(1), WithWorkers(2))
	outDir := t.TempDir()

	res, err := n.Narrate(context.Background(), Input{
		Markdown:  "alpha\nbravo\ncharlie",
		Name:      "doc",
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}

	if res.Chunks != 3 {
		t.Errorf("Chunks = %d, want 3", res.Chunks)
	}
	if synth.callCount() != 3 {
		t.Errorf("synthesizer called %d times, want 3", synth.callCount())
	}

	// The fake assembler concatenates segments in index order.
	data, err := os.ReadFile(res.TrackPath)
	if err != nil {
		t.Fatalf("reading track: %v", err)
	}
	track := string(data)
	ia, ib, ic := strings.Index(track, "alpha"), strings.Index(track, "bravo"), strings.Index(track, "charlie")
	if ia < 0 || ib < 0 || ic < 0 || !(ia < ib && ib < ic) {
		t.Errorf("segments out of order in track: %q", track)
	}

	// Intermediates are removed after a successful merge.
	for _, dir := range []string{n.workspace.TextDir, n.workspace.AudioDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("reading %s: %v", dir, err)
		}
		if len(entries) != 0 {
			t.Errorf("%s not cleaned up: %d entries remain", dir, len(entries))
		}
	}
}

func TestNarrateChunkFailure(t *testing.T) {
	synth := &fakeSynthesizer{
		failOn: "bravo",
		err:    fmt.Errorf("%w: backend said no", ErrSynthesis),
	}
	n := newTestNarrator(t, synth, WithChunkLines(1))
	outDir := t.TempDir()

	_, err := n.Narrate(context.Background(), Input{
		Markdown:  "alpha\nbravo\ncharlie",
		Name:      "doc",
		OutputDir: outDir,
	})
	if err == nil {
		t.Fatal("Narrate() succeeded despite chunk failure")
	}
	if !errors.Is(err, ErrSynthesis) {
		t.Errorf("error = %v, want ErrSynthesis", err)
	}
	if !strings.Contains(err.Error(), "chunk 1") {
		t.Errorf("error does not identify the failing chunk: %v", err)
	}

	if _, statErr := os.Stat(filepath.Join(outDir, "doc.mp3")); !os.IsNotExist(statErr) {
		t.Error("partial track produced despite failure")
	}
}

func TestNarrateKeepWork(t *testing.T) {
	synth := &fakeSynthesizer{}
	n := newTestNarrator(t, synth, WithChunkLines(1), WithKeepWork(true))
	outDir := t.TempDir()

	res, err := n.Narrate(context.Background(), Input{
		Markdown:  "alpha\nbravo",
		Name:      "doc",
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}
	if res.Chunks != 2 {
		t.Fatalf("Chunks = %d, want 2", res.Chunks)
	}

	for i := 0; i < 2; i++ {
		c := Chunk{Index: i}
		for _, p := range []string{
			n.workspace.TextPath("doc", c),
			n.workspace.RawAudioPath("doc", c),
			n.workspace.SegmentPath("doc", c),
		} {
			if _, err := os.Stat(p); err != nil {
				t.Errorf("intermediate %s missing with keepWork: %v", p, err)
			}
		}
	}
}

func TestNarrateRemovesStaleArtifacts(t *testing.T) {
	synth := &fakeSynthesizer{}
	n := newTestNarrator(t, synth)
	outDir := t.TempDir()

	if err := n.workspace.ensure(); err != nil {
		t.Fatalf("ensure() error: %v", err)
	}
	stale := filepath.Join(n.workspace.AudioDir, "doc_99999.mp3")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("writing stale artifact: %v", err)
	}

	if _, err := n.Narrate(context.Background(), Input{
		Markdown:  "hello",
		Name:      "doc",
		OutputDir: outDir,
	}); err != nil {
		t.Fatalf("Narrate() error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale artifact from a previous run survived")
	}
}

func TestNarrateCancelledContext(t *testing.T) {
	synth := &fakeSynthesizer{}
	n := newTestNarrator(t, synth, WithChunkLines(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := n.Narrate(ctx, Input{
		Markdown:  "alpha\nbravo",
		Name:      "doc",
		OutputDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("Narrate() succeeded with cancelled context")
	}
}

func TestNarratorClose(t *testing.T) {
	n := newTestNarrator(t, &fakeSynthesizer{})
	if err := n.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
