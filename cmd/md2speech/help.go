package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2speech <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  narrate    Convert markdown files to narrated audio")
	fmt.Fprintln(w, "  doctor     Check backend and audio tooling readiness")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2speech help <command>' for details on a specific command.")
}

// printNarrateUsage prints usage for the narrate command.
func printNarrateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2speech narrate <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to narrated audio tracks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory for final tracks")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --work-dir <path>     Intermediate artifact directory")
	fmt.Fprintln(w, "      --keep-work           Keep per-chunk text and audio files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backend:")
	fmt.Fprintln(w, "      --backend-url <url>   TTS backend base URL (default http://localhost:8080)")
	fmt.Fprintln(w, "      --model <s>           TTS model identifier")
	fmt.Fprintln(w, "      --voice <s>           Voice/speaker identifier")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-synthesis timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Audio:")
	fmt.Fprintln(w, "      --tempo <f>           Playback tempo (0.5-2.0, 1.0 = unchanged)")
	fmt.Fprintln(w, "      --play                Play the final track after narration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Chunking:")
	fmt.Fprintln(w, "      --chunk-lines <n>     Max lines per chunk (default 20)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent chunk processors (default 1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-chunk timing and debug logging")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case "narrate":
		printNarrateUsage(deps.Stdout)
	case "doctor":
		fmt.Fprintln(deps.Stdout, "Usage: md2speech doctor [--json]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Check that ffmpeg, ffplay, and the TTS backend are available.")
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: md2speech version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: md2speech help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
