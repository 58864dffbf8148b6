package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/music-usher/internal/audio"
	"github.com/handiism/music-usher/internal/logging"
	"github.com/handiism/music-usher/internal/model"
)

// Environment variables that override file settings.
const (
	EnvSimulate = "MUSIC_USHER_SIMULATE"
	EnvMove     = "MUSIC_USHER_MOVE"
	EnvVerbose  = "MUSIC_USHER_VERBOSE"
	EnvWorkers  = "MUSIC_USHER_WORKERS"
	EnvLogFile  = "MUSIC_USHER_LOG_FILE"
)

// Settings holds all configuration options.
type Settings struct {
	// Run modes
	Simulate bool `toml:"simulate"`
	Move     bool `toml:"move"`
	Verbose  bool `toml:"verbose"`

	// Scan and export
	Workers    int      `toml:"workers"`
	Extensions []string `toml:"extensions"`

	// Playlist settings
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistFormat string `toml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `toml:"m3u_extended"`

	// Cover art settings
	CopyCoverArt    bool `toml:"copy_cover_art"`
	CoverArtMaxSize int  `toml:"cover_art_max_size"` // pixels, 0 keeps the original size

	// Log file settings
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`
	LogCompress   bool   `toml:"log_compress"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Workers:    runtime.NumCPU(),
		Extensions: append([]string(nil), model.DefaultExtensions...),

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		CopyCoverArt:    false,
		CoverArtMaxSize: 1000,

		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	}
}

// Load reads settings from a TOML file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return settings, nil
}

// Resolve loads the file at path, or the defaults when path is empty, and
// applies environment overrides.
func Resolve(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path != "" {
		var err error
		if settings, err = Load(path); err != nil {
			return nil, err
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from the environment. A .env file in the
// working directory is loaded first; variables already set in the process
// environment take precedence over it.
func (s *Settings) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	for key, target := range map[string]*bool{
		EnvSimulate: &s.Simulate,
		EnvMove:     &s.Move,
		EnvVerbose:  &s.Verbose,
	} {
		value, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*target = b
	}

	if value, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		s.Workers = n
	}
	if value, ok := os.LookupEnv(EnvLogFile); ok {
		s.LogFile = value
	}

	return s.Validate()
}

// Validate checks values that cannot be corrected silently.
func (s *Settings) Validate() error {
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	if s.CoverArtMaxSize < 0 {
		return fmt.Errorf("cover_art_max_size must not be negative, got %d", s.CoverArtMaxSize)
	}
	if _, err := audio.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the log level implied by the run modes. Simulation is
// always verbose so that the planned operations can be reviewed.
func (s *Settings) LogLevel() string {
	if s.Verbose || s.Simulate {
		return "debug"
	}
	return "info"
}

// ToExportConfig converts settings to an ExportConfig.
func (s *Settings) ToExportConfig() model.ExportConfig {
	return model.ExportConfig{
		Simulate: s.Simulate,
		Move:     s.Move,
	}
}

// ToLibraryOptions converts settings to LibraryOptions.
func (s *Settings) ToLibraryOptions() model.LibraryOptions {
	return model.LibraryOptions{
		Workers:    s.Workers,
		Extensions: s.Extensions,
	}
}

// ToLogConfig converts settings to a logging.Config writing console output
// to console.
func (s *Settings) ToLogConfig(console io.Writer) logging.Config {
	return logging.Config{
		Level:      s.LogLevel(),
		OutputPath: s.LogFile,
		MaxSize:    s.LogMaxSizeMB,
		MaxBackups: s.LogMaxBackups,
		MaxAge:     s.LogMaxAgeDays,
		Compress:   s.LogCompress,
		Console:    console,
	}
}
