package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], DefaultDeps()))
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, deps *Dependencies) int {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "narrate":
		return runNarrateCmd(args[1:], deps)
	case "doctor":
		return runDoctorCmd(args[1:], deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "md2speech %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(args[1:], deps)
		return ExitSuccess
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
		return ExitUsage
	}
}

// runNarrateCmd parses flags, configures logging and the runtime, and
// executes narration.
func runNarrateCmd(args []string, deps *Dependencies) int {
	flags, positional, err := parseNarrateFlags(args)
	if err != nil {
		fmt.Fprintln(deps.Stderr, err)
		return ExitUsage
	}

	setupLogging(deps, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runNarrate(ctx, positional, flags, deps); err != nil {
		fmt.Fprintln(deps.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// setupLogging configures the global zerolog logger from verbosity flags.
func setupLogging(deps *Dependencies, quiet, verbose bool) {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: deps.Stderr}).With().Timestamp().Logger()
}
