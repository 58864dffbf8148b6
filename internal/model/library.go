package model

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/music-usher/internal/audio"
	ioutils "github.com/handiism/music-usher/internal/io"
)

// DefaultExtensions lists the audio file extensions picked up by a scan.
var DefaultExtensions = []string{"mp3", "ogg"}

// LibraryOptions tunes a Library.
type LibraryOptions struct {
	// Workers bounds concurrent tag reads and concurrent discography
	// exports. Zero means runtime.NumCPU().
	Workers int

	// Logger receives diagnostics. Nil discards them.
	Logger *zap.Logger

	// Extensions overrides DefaultExtensions. Matching is case-insensitive
	// and the leading dot is optional.
	Extensions []string
}

// Library is the in-memory model of a music collection: artists mapped to
// their discographies.
//
// A Library starts unloaded. Load scans the source tree once; Export may
// then be called to write the organized copy.
//
// Example:
//
//	lib := model.NewLibrary("/src", audio.NewReader(), model.LibraryOptions{Logger: logger})
//	if err := lib.Load(ctx); err != nil {
//	    return err
//	}
//	err := lib.Export(ctx, "/dst", model.ExportConfig{Move: true})
type Library struct {
	// Root is the source directory.
	Root string

	discographies map[string]*Discography
	reader        audio.Reader
	logger        *zap.Logger
	workers       int
	extensions    map[string]struct{}
	loaded        bool
}

// NewLibrary creates an unloaded library rooted at root.
func NewLibrary(root string, reader audio.Reader, opts LibraryOptions) *Library {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	extensions := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		extensions["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	logger.Debug("initialising library", zap.String("root", root))
	return &Library{
		Root:          root,
		discographies: make(map[string]*Discography),
		reader:        reader,
		logger:        logger,
		workers:       workers,
		extensions:    extensions,
	}
}

// scannedFile is an audio file found during the directory walk.
type scannedFile struct {
	path string
	size int64
}

// Load walks the source tree and routes every audio file into its
// discography and album.
//
// Files with unreadable or missing tags are still loaded with fallback
// metadata. Load fails when the root does not exist or is not a directory,
// when the walk fails, or when ctx is cancelled.
func (l *Library) Load(ctx context.Context) error {
	info, err := os.Stat(l.Root)
	if err != nil {
		return fmt.Errorf("load library %q: %w", l.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("load library %q: %w", l.Root, ErrNotADirectory)
	}

	l.logger.Debug("loading files", zap.String("root", l.Root))
	files, err := l.scan(ctx)
	if err != nil {
		return fmt.Errorf("load library %q: %w", l.Root, err)
	}

	tracks := make([]*Track, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			track := LoadTrack(file.path, l.reader, l.logger)
			track.Size = file.size
			tracks[i] = track
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load library %q: %w", l.Root, err)
	}

	l.discographies = make(map[string]*Discography)
	for _, track := range tracks {
		l.add(track)
	}
	l.loaded = true

	l.logger.Info("library loaded",
		zap.String("root", l.Root),
		zap.Int("tracks", len(tracks)),
		zap.Int("artists", len(l.discographies)),
	)
	return nil
}

// scan collects matching regular files in walk order.
func (l *Library) scan(ctx context.Context) ([]scannedFile, error) {
	var files []scannedFile
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			l.logger.Debug("scanning directory", zap.String("dir", path))
			return nil
		}
		if !d.Type().IsRegular() || !l.matches(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, scannedFile{path: path, size: info.Size()})
		return nil
	})
	return files, err
}

func (l *Library) matches(name string) bool {
	_, ok := l.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// add routes a track into its discography and album.
func (l *Library) add(track *Track) {
	discography := l.GetOrCreateDiscography(track.Artist())
	album := discography.GetOrCreateAlbum(track.Album())
	album.Add(track)
}

// Loaded reports whether Load completed.
func (l *Library) Loaded() bool {
	return l.loaded
}

// Discography looks up the discography of an artist.
func (l *Library) Discography(artist string) (*Discography, bool) {
	d, ok := l.discographies[artist]
	return d, ok
}

// GetOrCreateDiscography returns the artist's discography, creating it first
// if needed.
func (l *Library) GetOrCreateDiscography(artist string) *Discography {
	if d, ok := l.discographies[artist]; ok {
		return d
	}
	l.logger.Debug("creating discography", zap.String("artist", artist))
	d := NewDiscography(artist, l.logger)
	l.discographies[artist] = d
	return d
}

// Discographies returns all discographies sorted by artist.
func (l *Library) Discographies() []*Discography {
	discographies := make([]*Discography, 0, len(l.discographies))
	for _, d := range l.discographies {
		discographies = append(discographies, d)
	}
	sort.Slice(discographies, func(i, j int) bool {
		return discographies[i].Artist < discographies[j].Artist
	})
	return discographies
}

// Albums returns every album of the library, ordered by artist then name.
func (l *Library) Albums() []*Album {
	var albums []*Album
	for _, d := range l.Discographies() {
		albums = append(albums, d.Albums()...)
	}
	return albums
}

// TrackCount returns the number of loaded tracks.
func (l *Library) TrackCount() int {
	n := 0
	for _, d := range l.discographies {
		for _, album := range d.albums {
			n += album.Len()
		}
	}
	return n
}

// TotalSize returns the combined size in bytes of all loaded tracks.
func (l *Library) TotalSize() int64 {
	var total int64
	for _, album := range l.Albums() {
		for _, track := range album.Tracks() {
			total += track.Size
		}
	}
	return total
}

// Export writes the organized library below dest:
//
//	dest/<Artist>/<Album>/<Track#>. <Title>.<ext>
//
// Discographies are exported concurrently. Name collisions are resolved by
// appending a counter, never by overwriting. Export returns ErrNotLoaded
// when called before Load.
func (l *Library) Export(ctx context.Context, dest string, cfg ExportConfig) error {
	if !l.loaded {
		return ErrNotLoaded
	}
	cfg = cfg.withClaims()

	l.logger.Info("exporting library",
		zap.String("dest", dest),
		zap.Bool("simulate", cfg.Simulate),
		zap.Bool("move", cfg.Move),
	)
	if !cfg.Simulate {
		if err := ioutils.EnsureDir(dest); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for _, discography := range l.Discographies() {
		g.Go(func() error {
			return discography.Export(gctx, dest, cfg)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.logger.Info("library exported",
		zap.Int("paths", cfg.claims.Len()),
		zap.Bool("simulate", cfg.Simulate),
	)
	return nil
}
