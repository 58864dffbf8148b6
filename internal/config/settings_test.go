package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Simulate || s.Move || s.Verbose {
		t.Error("run modes should be off by default")
	}
	if s.Workers < 1 {
		t.Errorf("Workers = %d, want at least 1", s.Workers)
	}
	if !reflect.DeepEqual(s.Extensions, []string{"mp3", "ogg"}) {
		t.Errorf("Extensions = %v, want [mp3 ogg]", s.Extensions)
	}
	if s.PlaylistFormat != "m3u" {
		t.Errorf("PlaylistFormat = %q, want m3u", s.PlaylistFormat)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(s, DefaultSettings()) {
		t.Errorf("Load() = %+v, want defaults", s)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
move = true
workers = 2
create_playlist = true
playlist_format = "pls"
log_file = "/var/log/music-usher.log"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !s.Move || s.Simulate {
		t.Errorf("Move/Simulate = %v/%v, want true/false", s.Move, s.Simulate)
	}
	if s.Workers != 2 {
		t.Errorf("Workers = %d, want 2", s.Workers)
	}
	if !s.CreatePlaylist || s.PlaylistFormat != "pls" {
		t.Errorf("playlist = %v/%q, want true/pls", s.CreatePlaylist, s.PlaylistFormat)
	}
	if s.LogFile != "/var/log/music-usher.log" {
		t.Errorf("LogFile = %q", s.LogFile)
	}
	if !s.M3UExtended {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoad_InvalidPlaylistFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`playlist_format = "xspf"`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject an unknown playlist format")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	s := DefaultSettings()
	s.Verbose = true
	s.Workers = 3

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, s) {
		t.Errorf("Load() = %+v, want %+v", loaded, s)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvSimulate, "true")
	t.Setenv(EnvMove, "1")
	t.Setenv(EnvWorkers, "6")
	t.Setenv(EnvLogFile, "run.log")

	s := DefaultSettings()
	if err := s.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if !s.Simulate || !s.Move || s.Verbose {
		t.Errorf("modes = %v/%v/%v, want true/true/false", s.Simulate, s.Move, s.Verbose)
	}
	if s.Workers != 6 || s.LogFile != "run.log" {
		t.Errorf("Workers/LogFile = %d/%q", s.Workers, s.LogFile)
	}
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MUSIC_USHER_VERBOSE=true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable for the process; restore it afterwards.
	t.Setenv(EnvVerbose, "")
	os.Unsetenv(EnvVerbose)

	s := DefaultSettings()
	if err := s.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if !s.Verbose {
		t.Error("Verbose should be read from .env")
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvMove, "sometimes")

	if err := DefaultSettings().ApplyEnv(); err == nil {
		t.Fatal("ApplyEnv() should reject a non-boolean value")
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		simulate bool
		verbose  bool
		want     string
	}{
		{"quiet", false, false, "info"},
		{"verbose", false, true, "debug"},
		{"simulate implies verbose", true, false, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Simulate, s.Verbose = tt.simulate, tt.verbose
			if got := s.LogLevel(); got != tt.want {
				t.Errorf("LogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToExportConfig(t *testing.T) {
	s := DefaultSettings()
	s.Simulate = true
	s.Move = true

	cfg := s.ToExportConfig()
	if !cfg.Simulate || !cfg.Move {
		t.Errorf("ToExportConfig() = %+v", cfg)
	}
	if cfg.Playlist != nil || cfg.OnExport != nil {
		t.Error("ToExportConfig() should leave playlist and hook unset")
	}
}

func TestResolve(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvWorkers, "5")

	s, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Workers != 5 {
		t.Errorf("Workers = %d, want 5 from environment", s.Workers)
	}
}

func TestToLogConfig(t *testing.T) {
	s := DefaultSettings()
	s.Simulate = true
	s.LogFile = "usher.log"

	cfg := s.ToLogConfig(nil)
	if cfg.Level != "debug" || cfg.OutputPath != "usher.log" || cfg.MaxSize != 10 {
		t.Errorf("ToLogConfig() = %+v", cfg)
	}
}
