package md2speech

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDocument      = errors.New("document content cannot be empty")
	ErrDecode             = errors.New("document is not valid text")
	ErrSynthesis          = errors.New("speech synthesis failed")
	ErrBackendUnreachable = errors.New("failed to reach TTS backend")
	ErrPostProcess        = errors.New("audio post-processing failed")
	ErrMerge              = errors.New("merging audio segments failed")
	ErrPlayback           = errors.New("audio playback failed")

	// Narrator configuration validation errors.
	ErrInvalidChunkLines  = errors.New("invalid chunk line count")
	ErrInvalidTempo       = errors.New("invalid tempo")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidBackendURL  = errors.New("invalid backend URL")
)
