package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/handiism/music-usher/internal/audio"
	ioutils "github.com/handiism/music-usher/internal/io"
)

// coverName is the base name of the cover art written into album directories.
const coverName = "cover"

// Album is the set of tracks sharing one (artist, album name) pair.
//
// Track identity is the *Track pointer: two files with identical tags are
// two distinct members. Iteration order carries no meaning; Tracks returns
// a sorted copy so that logs and playlists are stable.
type Album struct {
	// Artist is the album artist, kept to validate incoming tracks.
	Artist string

	// Name is the album name.
	Name string

	tracks map[*Track]struct{}
	logger *zap.Logger
}

// NewAlbum creates an empty album. A nil logger discards all output.
func NewAlbum(artist, name string, logger *zap.Logger) *Album {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Album{
		Artist: artist,
		Name:   name,
		tracks: make(map[*Track]struct{}),
		logger: logger,
	}
}

// Add inserts a track. A track whose artist differs from the album artist is
// still added; the mismatch is only logged as a warning.
func (a *Album) Add(track *Track) {
	if artist := track.Artist(); artist != a.Artist {
		a.logger.Warn("track artist does not match album artist",
			zap.String("track_artist", artist),
			zap.String("album_artist", a.Artist),
			zap.String("album", a.Name),
			zap.String("path", track.Path),
		)
	}
	a.tracks[track] = struct{}{}
}

// Len returns the number of tracks in the album.
func (a *Album) Len() int {
	return len(a.tracks)
}

// Tracks returns the album tracks ordered by track number, title and path.
func (a *Album) Tracks() []*Track {
	tracks := make([]*Track, 0, len(a.tracks))
	for t := range a.tracks {
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		ni, ei := trackOrdinal(tracks[i])
		nj, ej := trackOrdinal(tracks[j])
		if ei != ej {
			// numbered tracks first
			return !ei
		}
		if ni != nj {
			return ni < nj
		}
		if ti, tj := tracks[i].Title(), tracks[j].Title(); ti != tj {
			return ti < tj
		}
		return tracks[i].Path < tracks[j].Path
	})
	return tracks
}

// Export writes the album as parent/<album name>/ and exports every track
// into it.
//
// Tracks are exported one after another, which keeps the collision check of
// one album directory sequential.
func (a *Album) Export(ctx context.Context, parent string, cfg ExportConfig) error {
	cfg = cfg.withClaims()
	dir := filepath.Join(parent, dirName(a.Name, UnknownAlbum))

	a.logger.Debug("exporting album", zap.Stringer("album", a), zap.String("dir", dir))
	if !cfg.Simulate {
		if err := ioutils.EnsureDir(dir); err != nil {
			return err
		}
	}

	entries := make([]audio.PlaylistEntry, 0, len(a.tracks))
	for _, track := range a.Tracks() {
		if err := ctx.Err(); err != nil {
			return err
		}

		dst, err := track.Export(ctx, dir, cfg)
		if err != nil {
			return err
		}

		fields := []zap.Field{zap.String("source", track.Path), zap.String("destination", dst)}
		if filepath.Base(dst) != track.FileName()+"."+track.Type() {
			a.logger.Debug("destination taken, renamed track", fields...)
		}
		if cfg.Move {
			a.logger.Debug("moved track", fields...)
		} else {
			a.logger.Debug("copied track", fields...)
		}

		entries = append(entries, audio.PlaylistEntry{
			FileName: filepath.Base(dst),
			Title:    track.Title(),
			Artist:   track.Artist(),
		})
	}

	if cfg.Playlist != nil && len(entries) > 0 {
		if err := a.writePlaylist(ctx, dir, cfg, entries); err != nil {
			return err
		}
	}
	if cfg.Cover != nil && len(entries) > 0 {
		return a.writeCover(ctx, dir, cfg)
	}
	return nil
}

func (a *Album) writePlaylist(ctx context.Context, dir string, cfg ExportConfig, entries []audio.PlaylistEntry) error {
	path, _, err := cfg.claims.Claim(dir, dirName(a.Name, UnknownAlbum), cfg.Playlist.Format().Extension())
	if err != nil {
		return fmt.Errorf("playlist for %s: %w", a, err)
	}

	a.logger.Debug("writing playlist", zap.String("path", path))
	if cfg.Simulate {
		return nil
	}

	content := cfg.Playlist.CreatePlaylist(a.Name, a.Artist, entries)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		return fmt.Errorf("write playlist %s: %w", path, err)
	}
	return nil
}

// writeCover converts the first cover image found in the source directories
// of the album and writes it as cover.jpg. Unusable images are skipped with
// a warning.
func (a *Album) writeCover(ctx context.Context, dir string, cfg ExportConfig) error {
	src, err := ioutils.FindCoverArt(a.sourceDirs()...)
	if errors.Is(err, ioutils.ErrNoCoverArt) {
		a.logger.Debug("no cover art", zap.Stringer("album", a))
		return nil
	}
	if err != nil {
		return err
	}

	path, _, err := cfg.claims.Claim(dir, coverName, "jpg")
	if err != nil {
		return fmt.Errorf("cover art for %s: %w", a, err)
	}

	a.logger.Debug("writing cover art", zap.String("source", src), zap.String("path", path))
	if cfg.Simulate {
		return nil
	}

	data, err := os.ReadFile(src)
	if err == nil {
		data, err = cfg.Cover.Normalize(ctx, data)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		a.logger.Warn("could not convert cover art", zap.String("source", src), zap.Error(err))
		return nil
	}

	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return fmt.Errorf("write cover art %s: %w", path, err)
	}
	return nil
}

// sourceDirs returns the distinct directories holding the album's source
// files, sorted.
func (a *Album) sourceDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, track := range a.Tracks() {
		dir := filepath.Dir(track.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// String implements fmt.Stringer.
func (a *Album) String() string {
	return fmt.Sprintf("Album(/%s/%s)", a.Artist, a.Name)
}

// trackOrdinal returns the numeric track number and whether it is missing or
// not numeric, so that numbered tracks sort first.
func trackOrdinal(t *Track) (int, bool) {
	n, err := strconv.Atoi(t.TrackNumber())
	if err != nil {
		return 0, true
	}
	return n, false
}

// dirName sanitizes name for use as a directory or file name, substituting
// fallback when nothing printable is left.
func dirName(name, fallback string) string {
	if s := ioutils.SanitizeFileName(name); s != "" {
		return s
	}
	return fallback
}
