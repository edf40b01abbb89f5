package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// backendFlags holds TTS backend connection flags.
type backendFlags struct {
	url     string
	model   string
	voice   string
	timeout string
}

// audioFlags holds audio post-processing flags.
type audioFlags struct {
	tempo float64
}

// chunkFlags holds document splitting flags.
type chunkFlags struct {
	lines   int
	workers int
}

// narrateFlags holds all flags for the narrate command.
type narrateFlags struct {
	common   commonFlags
	backend  backendFlags
	audio    audioFlags
	chunking chunkFlags
	output   string
	workDir  string
	play     bool
	keepWork bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
}

// addBackendFlags adds TTS backend flags to a FlagSet.
func addBackendFlags(fs *flag.FlagSet, f *backendFlags) {
	fs.StringVar(&f.url, "backend-url", "", "TTS backend base URL")
	fs.StringVar(&f.model, "model", "", "TTS model identifier")
	fs.StringVar(&f.voice, "voice", "", "voice/speaker identifier")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-synthesis timeout (e.g., 30s, 2m)")
}

// addAudioFlags adds audio flags to a FlagSet.
func addAudioFlags(fs *flag.FlagSet, f *audioFlags) {
	fs.Float64Var(&f.tempo, "tempo", 0, "playback tempo (0.5-2.0, 1.0 = unchanged)")
}

// addChunkFlags adds chunking flags to a FlagSet.
func addChunkFlags(fs *flag.FlagSet, f *chunkFlags) {
	fs.IntVar(&f.lines, "chunk-lines", 0, "max lines per chunk (default 20)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent chunk processors (0 = sequential)")
}

// parseNarrateFlags parses narrate command flags and returns positional args.
func parseNarrateFlags(args []string) (*narrateFlags, []string, error) {
	fs := flag.NewFlagSet("narrate", flag.ContinueOnError)
	f := &narrateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory for final tracks")
	fs.StringVar(&f.workDir, "work-dir", "", "intermediate artifact directory")
	fs.BoolVar(&f.play, "play", false, "play the final track after narration")
	fs.BoolVar(&f.keepWork, "keep-work", false, "keep per-chunk intermediates")

	addCommonFlags(fs, &f.common)
	addBackendFlags(fs, &f.backend)
	addAudioFlags(fs, &f.audio)
	addChunkFlags(fs, &f.chunking)

	fs.Usage = func() { printNarrateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
