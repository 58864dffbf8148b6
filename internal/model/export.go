package model

import (
	"errors"

	"github.com/handiism/music-usher/internal/audio"
	ioutils "github.com/handiism/music-usher/internal/io"
)

var (
	// ErrNotLoaded is returned by Library.Export before Library.Load completed.
	ErrNotLoaded = errors.New("library not loaded")

	// ErrNotADirectory is returned by Library.Load when the source root is
	// not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrTrackConsumed is returned when exporting a track whose source file
	// was already moved away.
	ErrTrackConsumed = errors.New("track already moved")
)

// ExportConfig controls how a library is written out.
//
// ExportConfig is passed by value down the Library → Discography → Album →
// Track chain and is never modified after a run starts.
//
// Example:
//
//	cfg := model.ExportConfig{
//	    Move:     true,
//	    Playlist: audio.NewPlaylistCreator(audio.FormatM3U, true),
//	}
//	err := library.Export(ctx, "/music", cfg)
type ExportConfig struct {
	// Simulate disables every file system mutation. Destination names are
	// still computed and reported.
	Simulate bool

	// Move relocates source files instead of copying them.
	Move bool

	// Playlist, when set, writes one playlist per album directory.
	Playlist *audio.PlaylistCreator

	// Cover, when set, writes the album cover art found next to the source
	// files as cover.jpg into each album directory.
	Cover *ioutils.ImageService

	// OnExport is called after each track is exported (or would have been,
	// when simulating). It may be called from several goroutines at once.
	OnExport func(ExportEvent)

	claims *ioutils.PathClaims
}

// withClaims returns a copy of cfg that shares a claim registry, creating one
// when the caller did not start from Library.Export.
func (cfg ExportConfig) withClaims() ExportConfig {
	if cfg.claims == nil {
		cfg.claims = ioutils.NewPathClaims()
	}
	return cfg
}

func (cfg ExportConfig) notify(event ExportEvent) {
	if cfg.OnExport != nil {
		cfg.OnExport(event)
	}
}

// ExportEvent describes one exported track.
type ExportEvent struct {
	// Source is the original file path.
	Source string

	// Destination is the final file path.
	Destination string

	// Bytes is the size of the source file.
	Bytes int64

	// Renamed reports that the destination name was disambiguated with a
	// counter because the plain name was taken.
	Renamed bool

	// Moved reports that the source was relocated rather than copied.
	Moved bool

	// Simulated reports that no file was actually written.
	Simulated bool
}
