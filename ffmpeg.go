package md2speech

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// ffmpegRunner executes an ffmpeg invocation and returns its combined
// output. Swappable so audio processing can be tested without ffmpeg.
type ffmpegRunner func(ctx context.Context, args []string) (string, error)

// runFFmpeg is the production runner.
// Constrained to the ffmpeg binary so the invocation stays auditable.
func runFFmpeg(ctx context.Context, args []string) (string, error) {
	log.Debug().Strs("args", args).Msg("ffmpeg")
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
