// Package config provides configuration management for music-usher.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings from TOML files
//   - Environment overrides (MUSIC_USHER_*), optionally from a .env file
//   - Conversion to model.ExportConfig and model.LibraryOptions
//
// # Precedence
//
// Defaults < config file < environment < command line flags. Settings are
// resolved once at startup and not changed while a run is in progress.
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // malformed file; a missing file yields the defaults
//	}
//	if err := settings.ApplyEnv(); err != nil {
//	    // invalid MUSIC_USHER_* value
//	}
//
// # Example File
//
//	move = false
//	workers = 4
//	create_playlist = true
//	playlist_format = "m3u"
//	copy_cover_art = true
//	cover_art_max_size = 1000
//	log_file = "/var/log/music-usher.log"
package config
