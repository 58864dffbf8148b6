package config

import (
	"github.com/spf13/pflag"
)

// Overrides holds command line values that take precedence over the file
// and the environment.
type Overrides struct {
	Simulate       bool
	Move           bool
	Verbose        bool
	Workers        int
	Playlist       bool
	PlaylistFormat string
	CoverArt       bool
	LogFile        string
}

// Register adds the override flags to fs.
func (o *Overrides) Register(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.Simulate, "simulate", "n", false, "Show what would be done without changing any file (implies --verbose)")
	fs.BoolVarP(&o.Move, "move", "m", false, "Move files instead of copying them")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Show debug output")
	fs.IntVarP(&o.Workers, "workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	fs.BoolVarP(&o.Playlist, "playlist", "p", false, "Write a playlist into every album directory")
	fs.StringVar(&o.PlaylistFormat, "playlist-format", "", "Playlist format: m3u, pls, wpl or zpl")
	fs.BoolVar(&o.CoverArt, "cover-art", false, "Copy album cover art (cover.jpg, folder.png, ...) as cover.jpg")
	fs.StringVar(&o.LogFile, "log-file", "", "Also write JSON logs to this file")
}

// Apply copies every flag explicitly set on fs into s and validates the
// result.
func (o *Overrides) Apply(fs *pflag.FlagSet, s *Settings) error {
	if fs.Changed("simulate") {
		s.Simulate = o.Simulate
	}
	if fs.Changed("move") {
		s.Move = o.Move
	}
	if fs.Changed("verbose") {
		s.Verbose = o.Verbose
	}
	if fs.Changed("workers") {
		s.Workers = o.Workers
	}
	if fs.Changed("playlist") {
		s.CreatePlaylist = o.Playlist
	}
	if fs.Changed("playlist-format") {
		s.PlaylistFormat = o.PlaylistFormat
		s.CreatePlaylist = true
	}
	if fs.Changed("cover-art") {
		s.CopyCoverArt = o.CoverArt
	}
	if fs.Changed("log-file") {
		s.LogFile = o.LogFile
	}
	return s.Validate()
}
