package md2speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2speech/internal/fileutil"
	"github.com/rs/zerolog/log"
)

// Assembler abstracts merging per-chunk playable files into the final
// track.
type Assembler interface {
	// Assemble merges segmentPaths, in the given order, into trackPath.
	Assemble(ctx context.Context, segmentPaths []string, trackPath string) error
}

// ffmpegAssembler concatenates MP3 segments with the ffmpeg concat
// demuxer. Stream copy keeps the concatenation lossless for the format
// and the container metadata valid, unlike byte-level concatenation.
type ffmpegAssembler struct {
	run ffmpegRunner
}

// Compile-time interface check.
var _ Assembler = (*ffmpegAssembler)(nil)

// newFFmpegAssembler creates the production assembler.
func newFFmpegAssembler() *ffmpegAssembler {
	return &ffmpegAssembler{run: runFFmpeg}
}

// Assemble merges the segments in order into trackPath. A single segment
// is moved directly; no re-encode, no ffmpeg. On failure no partial track
// is left behind and the segments are untouched for diagnosis.
func (a *ffmpegAssembler) Assemble(ctx context.Context, segmentPaths []string, trackPath string) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("%w: no segments to merge", ErrMerge)
	}

	if len(segmentPaths) == 1 {
		if err := fileutil.MoveFile(segmentPaths[0], trackPath); err != nil {
			return fmt.Errorf("%w: %v", ErrMerge, err)
		}
		return nil
	}

	listPath, cleanup, err := writeConcatList(segmentPaths)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMerge, err)
	}
	defer cleanup()

	out, err := a.run(ctx, []string{
		"-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", trackPath,
	})
	if err != nil {
		_ = os.Remove(trackPath)
		return fmt.Errorf("%w: %v: %s", ErrMerge, err, out)
	}

	log.Debug().Int("segments", len(segmentPaths)).Str("track", trackPath).Msg("segments merged")
	return nil
}

// writeConcatList writes the ffmpeg concat demuxer input file listing the
// segments in merge order.
func writeConcatList(segmentPaths []string) (string, func(), error) {
	var b strings.Builder
	for _, p := range segmentPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", nil, fmt.Errorf("resolving segment path: %w", err)
		}
		// Single quotes in the path would break the quoting below.
		if strings.ContainsRune(abs, '\'') {
			return "", nil, fmt.Errorf("segment path contains quote: %s", abs)
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	return fileutil.WriteTempFile(b.String(), "txt")
}
