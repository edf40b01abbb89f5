package md2speech

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// PostProcessor abstracts per-chunk audio normalization: re-encoding raw
// synthesized audio into the playable target format, tempo included.
type PostProcessor interface {
	// Process re-encodes the raw audio at rawPath into a playable file at
	// outPath.
	Process(ctx context.Context, rawPath, outPath string) error
}

// ffmpegPostProcessor converts raw WAV segments to MP3 via ffmpeg,
// applying an atempo filter when the tempo differs from 1.0.
type ffmpegPostProcessor struct {
	tempo float64
	run   ffmpegRunner
}

// Compile-time interface check.
var _ PostProcessor = (*ffmpegPostProcessor)(nil)

// newFFmpegPostProcessor creates a post-processor with the given tempo.
func newFFmpegPostProcessor(tempo float64) *ffmpegPostProcessor {
	return &ffmpegPostProcessor{tempo: tempo, run: runFFmpeg}
}

// Process validates the raw segment as parseable WAV, then re-encodes it.
// Malformed synthesizer output fails fast before ffmpeg runs, so a backend
// that returned an error page instead of audio is reported clearly.
func (p *ffmpegPostProcessor) Process(ctx context.Context, rawPath, outPath string) error {
	if err := validateWAV(rawPath); err != nil {
		return fmt.Errorf("%w: %v", ErrPostProcess, err)
	}

	args := []string{"-y", "-i", rawPath, "-vn"}
	if p.tempo != DefaultTempo {
		args = append(args, "-filter:a", fmt.Sprintf("atempo=%.2f", p.tempo))
	}
	args = append(args, outPath)

	out, err := p.run(ctx, args)
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrPostProcess, err, out)
	}
	return nil
}

// validateWAV checks that path holds a decodable WAV file.
func validateWAV(path string) error {
	f, err := os.Open(path) // #nosec G304 -- workspace-internal path
	if err != nil {
		return fmt.Errorf("opening raw audio: %v", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("raw audio %s is not a valid WAV file", path)
	}
	return nil
}
