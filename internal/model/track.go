package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/handiism/music-usher/internal/audio"
	ioutils "github.com/handiism/music-usher/internal/io"
)

// Fallback values used when a tag is missing.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownTitle  = "Unknown Title"

	defaultType = "mp3"

	// multiValueSeparator joins multi-valued tags such as several artists.
	multiValueSeparator = " & "
)

// totalTracksSuffix matches the "/M" of an "N/M" track number.
var totalTracksSuffix = regexp.MustCompile(`/\d+$`)

// Track represents a single audio file found in the source library.
//
// The tags are read once, when the track is created, and never change
// afterwards; artist, album, title and track number are derived from them
// on demand. A track is exported exactly once. In move mode its source file
// is gone after Export and further exports fail with ErrTrackConsumed.
//
// Example:
//
//	track := LoadTrack("/src/song1.mp3", audio.NewReader(), logger)
//	fmt.Println(track.Artist(), track.Album(), track.TrackNumber(), track.Title())
//	dst, err := track.Export(ctx, "/dst/Foo/Bar", ExportConfig{})
//	// dst = "/dst/Foo/Bar/3. Baz.mp3"
type Track struct {
	// Path is the source file path.
	Path string

	// Size is the source file size in bytes, as seen during the scan.
	Size int64

	tags     audio.Tags
	consumed atomic.Bool
}

// NewTrack creates a Track from already-read tags.
func NewTrack(path string, tags audio.Tags) *Track {
	return &Track{Path: path, tags: tags}
}

// LoadTrack reads the tags of the file at path and creates a Track.
//
// A file whose tags cannot be read is not an error: the track falls back to
// a title derived from its file name and default artist and album. Files
// without any tag header are logged at debug level, unreadable tags at warn
// level.
func LoadTrack(path string, reader audio.Reader, logger *zap.Logger) *Track {
	tags, err := reader.ReadTags(path)
	if err != nil {
		if errors.Is(err, audio.ErrNoMetadata) {
			logger.Debug("file has no tags", zap.String("path", path))
		} else {
			logger.Warn("could not read tags", zap.String("path", path), zap.Error(err))
		}
		tags = audio.Tags{audio.TagTitle: {stem(path)}}
	}
	return NewTrack(path, tags)
}

// Resolve returns the value of a tag, joining multiple values with " & ".
// The second result is false when the tag is missing or blank.
func (t *Track) Resolve(name string) (string, bool) {
	values := t.tags.Get(name)
	joined := strings.TrimSpace(strings.Join(values, multiValueSeparator))
	return joined, joined != ""
}

// Artist returns the album artist, falling back to the track artist and then
// to "Unknown Artist".
func (t *Track) Artist() string {
	if artist, ok := t.Resolve(audio.TagAlbumArtist); ok {
		return artist
	}
	if artist, ok := t.Resolve(audio.TagArtist); ok {
		return artist
	}
	return UnknownArtist
}

// Album returns the album name or "Unknown Album".
func (t *Track) Album() string {
	if album, ok := t.Resolve(audio.TagAlbum); ok {
		return album
	}
	return UnknownAlbum
}

// Title returns the track title, falling back to the file name without its
// extension and then to "Unknown Title".
func (t *Track) Title() string {
	if title, ok := t.Resolve(audio.TagTitle); ok {
		return title
	}
	if s := strings.TrimSpace(stem(t.Path)); s != "" {
		return s
	}
	return UnknownTitle
}

// TrackNumber returns the track number without its "/total" suffix.
// An empty string means the track has no number.
func (t *Track) TrackNumber() string {
	number, ok := t.Resolve(audio.TagTrackNumber)
	if !ok {
		return ""
	}
	return strings.TrimSpace(totalTracksSuffix.ReplaceAllString(number, ""))
}

// Type returns the file extension without the leading dot, case preserved.
// Files without an extension are assumed to be MP3.
func (t *Track) Type() string {
	if ext := strings.TrimPrefix(filepath.Ext(t.Path), "."); ext != "" {
		return ext
	}
	return defaultType
}

// FileName returns the export file name without extension:
// "<number>. <title>", or just "<title>" for tracks without a number.
func (t *Track) FileName() string {
	title := ioutils.SanitizeFileName(t.Title())
	if title == "" {
		title = ioutils.SanitizeFileName(stem(t.Path))
	}
	if title == "" {
		title = UnknownTitle
	}

	if number := ioutils.SanitizeFileName(t.TrackNumber()); number != "" {
		return fmt.Sprintf("%s. %s", number, title)
	}
	return title
}

// Export writes the track into dir and returns the final path.
//
// When dir already holds a file with the computed name, or another track of
// the same run claimed it, a counter is appended before the extension:
// "Title (1).mp3", "Title (2).mp3" and so on.
func (t *Track) Export(ctx context.Context, dir string, cfg ExportConfig) (string, error) {
	if t.consumed.Load() {
		return "", fmt.Errorf("%s: %w", t.Path, ErrTrackConsumed)
	}
	cfg = cfg.withClaims()

	dst, renamed, err := cfg.claims.Claim(dir, t.FileName(), t.Type())
	if err != nil {
		return "", fmt.Errorf("export %s: %w", t.Path, err)
	}

	switch {
	case cfg.Simulate:
	case cfg.Move:
		if err := ioutils.MoveFile(ctx, t.Path, dst); err != nil {
			return "", fmt.Errorf("move %s to %s: %w", t.Path, dst, err)
		}
		t.consumed.Store(true)
	default:
		if err := ioutils.CopyFile(ctx, t.Path, dst); err != nil {
			return "", fmt.Errorf("copy %s to %s: %w", t.Path, dst, err)
		}
	}

	cfg.notify(ExportEvent{
		Source:      t.Path,
		Destination: dst,
		Bytes:       t.Size,
		Renamed:     renamed,
		Moved:       cfg.Move && !cfg.Simulate,
		Simulated:   cfg.Simulate,
	})
	return dst, nil
}

// String implements fmt.Stringer.
func (t *Track) String() string {
	return fmt.Sprintf("Track(/%s/%s/%s. %s)", t.Artist(), t.Album(), t.TrackNumber(), t.Title())
}

// stem returns the base name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
