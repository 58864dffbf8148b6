package organize

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/handiism/music-usher/internal/audio"
	"github.com/handiism/music-usher/internal/config"
	ioutils "github.com/handiism/music-usher/internal/io"
	"github.com/handiism/music-usher/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an organize progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// AlbumSummary is one row of Manager.Summary.
type AlbumSummary struct {
	Artist string
	Album  string
	Tracks int
	Bytes  int64
}

// Manager coordinates loading a source tree and exporting it.
type Manager struct {
	settings *config.Settings
	reader   audio.Reader
	logger   *zap.Logger
	playlist *audio.PlaylistCreator
	images   *ioutils.ImageService
	library  *model.Library

	totalBytes    int64
	exportedBytes int64
	totalFiles    int32
	exportedFiles int32
	renamedFiles  int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new Manager. A nil reader uses audio.NewReader and a
// nil logger discards diagnostics. onProgress may be called from several
// goroutines at once during StartExport.
func NewManager(settings *config.Settings, reader audio.Reader, logger *zap.Logger, onProgress func(ProgressEvent)) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if reader == nil {
		reader = audio.NewReader()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	playlistFormat, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
	if err != nil {
		playlistFormat = audio.FormatM3U
	}

	return &Manager{
		settings:   settings,
		reader:     reader,
		logger:     logger,
		playlist:   audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		images:     ioutils.NewImageService(settings.CoverArtMaxSize),
		onProgress: onProgress,
	}
}

// Initialize scans source and computes the totals reported by GetProgress.
func (m *Manager) Initialize(ctx context.Context, source string) error {
	opts := m.settings.ToLibraryOptions()
	opts.Logger = m.logger

	m.progress(ProgressEvent{Message: fmt.Sprintf("Scanning %s", source), Level: LevelInfo})

	library := model.NewLibrary(source, m.reader, opts)
	if err := library.Load(ctx); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error scanning %s: %v", source, err), Level: LevelError})
		return err
	}

	for _, album := range library.Albums() {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found album: %s - %s (%d tracks)", album.Artist, album.Name, album.Len()), Level: LevelInfo})
	}

	m.mu.Lock()
	m.library = library
	m.mu.Unlock()

	atomic.StoreInt64(&m.totalBytes, library.TotalSize())
	atomic.StoreInt32(&m.totalFiles, int32(library.TrackCount()))
	atomic.StoreInt64(&m.exportedBytes, 0)
	atomic.StoreInt32(&m.exportedFiles, 0)
	atomic.StoreInt32(&m.renamedFiles, 0)

	return nil
}

// StartExport writes the loaded library below target. It returns
// model.ErrNotLoaded when Initialize has not succeeded.
func (m *Manager) StartExport(ctx context.Context, target string) error {
	m.mu.RLock()
	library := m.library
	m.mu.RUnlock()
	if library == nil {
		return model.ErrNotLoaded
	}

	cfg := m.settings.ToExportConfig()
	if m.settings.CreatePlaylist {
		cfg.Playlist = m.playlist
	}
	if m.settings.CopyCoverArt {
		cfg.Cover = m.images
	}
	cfg.OnExport = m.trackExported

	if cfg.Simulate {
		m.progress(ProgressEvent{Message: "Simulating, no files will be changed", Level: LevelWarning})
	}

	if err := library.Export(ctx, target, cfg); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting to %s: %v", target, err), Level: LevelError})
		return err
	}

	_, _, done, total := m.GetProgress()
	verb := "Copied"
	switch {
	case cfg.Simulate:
		verb = "Planned"
	case cfg.Move:
		verb = "Moved"
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("%s %d/%d tracks into %s", verb, done, total, target), Level: LevelSuccess})
	return nil
}

func (m *Manager) trackExported(event model.ExportEvent) {
	atomic.AddInt64(&m.exportedBytes, event.Bytes)
	atomic.AddInt32(&m.exportedFiles, 1)

	if event.Renamed {
		atomic.AddInt32(&m.renamedFiles, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Name taken, using %s", filepath.Base(event.Destination)), Level: LevelWarning})
	}

	verb := "Copied"
	switch {
	case event.Simulated:
		verb = "Would export"
	case event.Moved:
		verb = "Moved"
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s -> %s", verb, event.Source, event.Destination), Level: LevelVerbose})
}

// GetProgress returns current export progress.
func (m *Manager) GetProgress() (exported, total int64, filesExported, filesTotal int32) {
	return atomic.LoadInt64(&m.exportedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.exportedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Renamed returns how many tracks received a counter suffix.
func (m *Manager) Renamed() int32 {
	return atomic.LoadInt32(&m.renamedFiles)
}

// Summary returns one row per loaded album, ordered by artist then album.
func (m *Manager) Summary() []AlbumSummary {
	m.mu.RLock()
	library := m.library
	m.mu.RUnlock()
	if library == nil {
		return nil
	}

	albums := library.Albums()
	rows := make([]AlbumSummary, 0, len(albums))
	for _, album := range albums {
		row := AlbumSummary{Artist: album.Artist, Album: album.Name}
		for _, track := range album.Tracks() {
			row.Tracks++
			row.Bytes += track.Size
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Artist != rows[j].Artist {
			return rows[i].Artist < rows[j].Artist
		}
		return rows[i].Album < rows[j].Album
	})
	return rows
}

// GetAlbumNames returns the names of all loaded albums.
func (m *Manager) GetAlbumNames() []string {
	rows := m.Summary()
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = fmt.Sprintf("%s - %s (%d tracks)", row.Artist, row.Album, row.Tracks)
	}
	return names
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
