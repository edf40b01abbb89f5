package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2speech/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits. Generous, but bounded so a malformed config cannot
// smuggle arbitrary blobs into backend requests or shell arguments.
const (
	MaxURLLength     = 2048 // Browser limit
	MaxModelLength   = 255  // Model file name or identifier
	MaxVoiceLength   = 100  // Speaker identifier
	MaxDirLength     = 4096 // PATH_MAX on Linux
	MaxTimeoutLength = 30   // "2m30s"
)

// Config holds all configuration for narration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Backend  BackendConfig  `yaml:"backend"`
	Audio    AudioConfig    `yaml:"audio"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Playback PlaybackConfig `yaml:"playback"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current directory)
	WorkDir    string `yaml:"workDir"`    // Intermediate artifact root (empty = system temp)
}

// BackendConfig defines the TTS backend connection.
type BackendConfig struct {
	URL     string `yaml:"url"`     // Base URL (default: http://localhost:8080)
	Model   string `yaml:"model"`   // Model identifier sent with each request
	Voice   string `yaml:"voice"`   // Voice/speaker identifier (optional)
	Timeout string `yaml:"timeout"` // Per-call timeout, Go duration format
}

// AudioConfig defines post-processing options.
type AudioConfig struct {
	Tempo float64 `yaml:"tempo"` // Playback tempo (0.5-2.0, default 1.0)
}

// ChunkingConfig defines document splitting options.
type ChunkingConfig struct {
	MaxLines int `yaml:"maxLines"` // Lines per chunk (default 20)
	Workers  int `yaml:"workers"`  // Concurrent chunk processors (default 1)
}

// PlaybackConfig defines auto-play behavior.
type PlaybackConfig struct {
	Enabled bool `yaml:"enabled"` // Play the final track after narration
}

// Validate checks field lengths and basic shape. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("backend.url", c.Backend.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("backend.model", c.Backend.Model, MaxModelLength); err != nil {
		return err
	}
	if err := validateFieldLength("backend.voice", c.Backend.Voice, MaxVoiceLength); err != nil {
		return err
	}
	if err := validateFieldLength("backend.timeout", c.Backend.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.workDir", c.Output.WorkDir, MaxDirLength); err != nil {
		return err
	}

	if c.Backend.URL != "" &&
		!strings.HasPrefix(c.Backend.URL, "http://") &&
		!strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend.url: must start with http:// or https://, got %q", c.Backend.URL)
	}
	if c.Audio.Tempo != 0 && (c.Audio.Tempo < 0.5 || c.Audio.Tempo > 2.0) {
		return fmt.Errorf("audio.tempo: must be between 0.5 and 2.0, got %.2f", c.Audio.Tempo)
	}
	if c.Chunking.MaxLines < 0 {
		return fmt.Errorf("chunking.maxLines: must be positive, got %d", c.Chunking.MaxLines)
	}
	if c.Chunking.Workers < 0 {
		return fmt.Errorf("chunking.workers: must be positive, got %d", c.Chunking.Workers)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration; zero values defer to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{
		Input:    InputConfig{DefaultDir: ""},
		Output:   OutputConfig{DefaultDir: "", WorkDir: ""},
		Backend:  BackendConfig{},
		Audio:    AudioConfig{},
		Chunking: ChunkingConfig{},
		Playback: PlaybackConfig{Enabled: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2speech/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2speech", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
