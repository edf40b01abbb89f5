package main

import (
	"errors"
	"os"

	md2speech "github.com/alnah/go-md2speech"
	"github.com/alnah/go-md2speech/internal/config"
)

// Exit codes for md2speech CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Final track produced
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBackend = 4 // TTS backend errors
	ExitAudio   = 5 // Post-processing or merge errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Backend errors (exit 4)
	if errors.Is(err, md2speech.ErrSynthesis) ||
		errors.Is(err, md2speech.ErrBackendUnreachable) {
		return ExitBackend
	}

	// Audio errors (exit 5)
	if errors.Is(err, md2speech.ErrPostProcess) ||
		errors.Is(err, md2speech.ErrMerge) ||
		errors.Is(err, md2speech.ErrPlayback) {
		return ExitAudio
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, md2speech.ErrEmptyDocument) ||
		errors.Is(err, md2speech.ErrDecode) ||
		errors.Is(err, md2speech.ErrInvalidChunkLines) ||
		errors.Is(err, md2speech.ErrInvalidTempo) ||
		errors.Is(err, md2speech.ErrInvalidWorkerCount) ||
		errors.Is(err, md2speech.ErrInvalidBackendURL) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
