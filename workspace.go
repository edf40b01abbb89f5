package md2speech

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file permissions for workspace artifacts.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Workspace holds the intermediate artifact areas for narration runs.
// Text chunks live in the input area, audio artifacts in the output area,
// both keyed by document name plus zero-padded chunk index. Passing an
// explicit Workspace (rather than ambient process-wide temp state) keeps
// the pipeline re-entrant and parallel-testable.
type Workspace struct {
	TextDir  string // Chunk narration text artifacts
	AudioDir string // Chunk audio artifacts
}

// NewWorkspace creates a workspace rooted at dir, with input and output
// areas created on demand.
func NewWorkspace(dir string) *Workspace {
	return &Workspace{
		TextDir:  filepath.Join(dir, "input"),
		AudioDir: filepath.Join(dir, "output"),
	}
}

// DefaultWorkspace returns a workspace under the system temp directory.
func DefaultWorkspace() *Workspace {
	return NewWorkspace(filepath.Join(os.TempDir(), "md2speech"))
}

// ensure creates both areas if they do not exist yet.
func (w *Workspace) ensure() error {
	for _, dir := range []string{w.TextDir, w.AudioDir} {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating workspace directory: %w", err)
		}
	}
	return nil
}

// TextPath returns the narration text artifact path for one chunk.
func (w *Workspace) TextPath(name string, c Chunk) string {
	return filepath.Join(w.TextDir, fmt.Sprintf("%s_%s.txt", name, c.Label()))
}

// RawAudioPath returns the raw synthesized audio path for one chunk.
func (w *Workspace) RawAudioPath(name string, c Chunk) string {
	return filepath.Join(w.AudioDir, fmt.Sprintf("%s_%s.wav", name, c.Label()))
}

// SegmentPath returns the playable per-chunk audio path for one chunk.
func (w *Workspace) SegmentPath(name string, c Chunk) string {
	return filepath.Join(w.AudioDir, fmt.Sprintf("%s_%s.mp3", name, c.Label()))
}

// RemoveStale deletes chunk artifacts left by a previous run with the same
// document name, so a new run never mixes segments across runs.
func (w *Workspace) RemoveStale(name string) error {
	globs := []string{
		filepath.Join(w.TextDir, name+"_*.txt"),
		filepath.Join(w.AudioDir, name+"_*.wav"),
		filepath.Join(w.AudioDir, name+"_*.mp3"),
	}
	for _, g := range globs {
		matches, err := filepath.Glob(g)
		if err != nil {
			return fmt.Errorf("listing stale artifacts: %w", err)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing stale artifact %s: %w", m, err)
			}
		}
	}
	return nil
}

// removeChunkArtifacts deletes the intermediates belonging to one chunk.
// Missing files are ignored; cleanup runs after failures too.
func (w *Workspace) removeChunkArtifacts(name string, c Chunk) {
	_ = os.Remove(w.TextPath(name, c))
	_ = os.Remove(w.RawAudioPath(name, c))
	_ = os.Remove(w.SegmentPath(name, c))
}
