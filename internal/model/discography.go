package model

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	ioutils "github.com/handiism/music-usher/internal/io"
)

// Discography is the collection of albums attributed to one artist.
type Discography struct {
	// Artist is the artist name. It doubles as the directory name on export
	// and never changes after creation.
	Artist string

	albums map[string]*Album
	logger *zap.Logger
}

// NewDiscography creates an empty discography. A nil logger discards all
// output.
func NewDiscography(artist string, logger *zap.Logger) *Discography {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discography{
		Artist: artist,
		albums: make(map[string]*Album),
		logger: logger,
	}
}

// Album looks up an album by name.
func (d *Discography) Album(name string) (*Album, bool) {
	album, ok := d.albums[name]
	return album, ok
}

// GetOrCreateAlbum returns the named album, creating it first if needed.
func (d *Discography) GetOrCreateAlbum(name string) *Album {
	if album, ok := d.albums[name]; ok {
		return album
	}
	d.logger.Debug("creating album", zap.String("artist", d.Artist), zap.String("album", name))
	album := NewAlbum(d.Artist, name, d.logger)
	d.albums[name] = album
	return album
}

// Albums returns the albums sorted by name.
func (d *Discography) Albums() []*Album {
	albums := make([]*Album, 0, len(d.albums))
	for _, album := range d.albums {
		albums = append(albums, album)
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].Name < albums[j].Name })
	return albums
}

// Len returns the number of albums.
func (d *Discography) Len() int {
	return len(d.albums)
}

// Export writes the discography as parent/<artist>/ with one sub directory
// per album.
func (d *Discography) Export(ctx context.Context, parent string, cfg ExportConfig) error {
	cfg = cfg.withClaims()
	dir := d.dir(parent)

	d.logger.Debug("exporting discography", zap.Stringer("discography", d), zap.String("dir", dir))
	if !cfg.Simulate {
		if err := ioutils.EnsureDir(dir); err != nil {
			return err
		}
	}

	for _, album := range d.Albums() {
		if err := album.Export(ctx, dir, cfg); err != nil {
			return err
		}
	}
	return nil
}

// dir returns the directory the discography exports into.
func (d *Discography) dir(parent string) string {
	return filepath.Join(parent, dirName(d.Artist, UnknownArtist))
}

// String implements fmt.Stringer.
func (d *Discography) String() string {
	return fmt.Sprintf("Discography(/%s)", d.Artist)
}
