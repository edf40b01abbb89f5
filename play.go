package md2speech

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// PlayTrack plays an audio file through ffplay, blocking until playback
// finishes or the context is cancelled. ffplay ships with ffmpeg, which
// the pipeline already requires.
func PlayTrack(ctx context.Context, trackPath string) error {
	log.Debug().Str("track", trackPath).Msg("playing final track")
	cmd := exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "error", trackPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrPlayback, err, out)
	}
	return nil
}
