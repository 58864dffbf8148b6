package organize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/handiism/music-usher/internal/audio"
	"github.com/handiism/music-usher/internal/config"
	"github.com/handiism/music-usher/internal/model"
)

type tagsByName map[string]audio.Tags

func (r tagsByName) ReadTags(path string) (audio.Tags, error) {
	tags, ok := r[filepath.Base(path)]
	if !ok {
		return nil, audio.ErrNoMetadata
	}
	return tags, nil
}

type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) record(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(level ProgressLevel, contains string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level && strings.Contains(e.Message, contains) {
			n++
		}
	}
	return n
}

func setup(t *testing.T) (src string, reader tagsByName) {
	t.Helper()
	src = t.TempDir()
	for name, content := range map[string]string{
		"song1.mp3": "one",
		"song2.mp3": "two2",
		"other.ogg": "three",
		"cover.jpg": "image",
	} {
		if err := os.WriteFile(filepath.Join(src, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	reader = tagsByName{
		"song1.mp3": {audio.TagArtist: {"Foo"}, audio.TagAlbum: {"Bar"}, audio.TagTitle: {"Baz"}, audio.TagTrackNumber: {"3/12"}},
		"song2.mp3": {audio.TagArtist: {"Foo"}, audio.TagAlbum: {"Bar"}, audio.TagTitle: {"Qux"}, audio.TagTrackNumber: {"4/12"}},
		"other.ogg": {audio.TagArtist: {"Zed"}, audio.TagAlbum: {"Live"}, audio.TagTitle: {"Intro"}},
	}
	return src, reader
}

func TestManager_Run(t *testing.T) {
	src, reader := setup(t)
	dst := filepath.Join(t.TempDir(), "out")
	rec := &recorder{}

	settings := config.DefaultSettings()
	settings.CreatePlaylist = true
	m := NewManager(settings, reader, zaptest.NewLogger(t), rec.record)

	ctx := context.Background()
	if err := m.Initialize(ctx, src); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	_, totalBytes, _, totalFiles := m.GetProgress()
	if totalFiles != 3 || totalBytes != int64(len("one")+len("two2")+len("three")) {
		t.Errorf("totals = %d files / %d bytes", totalFiles, totalBytes)
	}
	if n := rec.count(LevelInfo, "Found album"); n != 2 {
		t.Errorf("expected 2 album events, got %d", n)
	}

	if err := m.StartExport(ctx, dst); err != nil {
		t.Fatalf("StartExport() error = %v", err)
	}

	for _, rel := range []string{"Foo/Bar/3. Baz.mp3", "Foo/Bar/4. Qux.mp3", "Zed/Live/Intro.ogg", "Foo/Bar/Bar.m3u"} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(src, "song1.mp3")); err != nil {
		t.Error("copy mode should keep sources")
	}

	bytes, totalBytes, files, totalFiles := m.GetProgress()
	if bytes != totalBytes || files != totalFiles {
		t.Errorf("progress = %d/%d bytes, %d/%d files", bytes, totalBytes, files, totalFiles)
	}
	if rec.count(LevelSuccess, "Copied 3/3") != 1 {
		t.Errorf("missing success event, got %v", rec.events)
	}
}

func TestManager_Simulate(t *testing.T) {
	src, reader := setup(t)
	dst := filepath.Join(t.TempDir(), "out")
	rec := &recorder{}

	settings := config.DefaultSettings()
	settings.Simulate = true
	settings.Move = true
	m := NewManager(settings, reader, nil, rec.record)

	ctx := context.Background()
	if err := m.Initialize(ctx, src); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := m.StartExport(ctx, dst); err != nil {
		t.Fatalf("StartExport() error = %v", err)
	}

	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("simulate should not create %s", dst)
	}
	if _, err := os.Stat(filepath.Join(src, "song1.mp3")); err != nil {
		t.Error("simulate should not move sources")
	}
	if n := rec.count(LevelVerbose, "Would export"); n != 3 {
		t.Errorf("expected 3 planned exports, got %d", n)
	}
	if rec.count(LevelSuccess, "Planned 3/3") != 1 {
		t.Error("missing simulate summary event")
	}
}

func TestManager_RenamedCount(t *testing.T) {
	src, reader := setup(t)
	dst := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dst, "Foo", "Bar"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dst, "Foo", "Bar", "3. Baz.mp3"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	m := NewManager(config.DefaultSettings(), reader, nil, rec.record)
	ctx := context.Background()
	if err := m.Initialize(ctx, src); err != nil {
		t.Fatal(err)
	}
	if err := m.StartExport(ctx, dst); err != nil {
		t.Fatal(err)
	}

	if m.Renamed() != 1 {
		t.Errorf("Renamed() = %d, want 1", m.Renamed())
	}
	if rec.count(LevelWarning, "3. Baz (1).mp3") != 1 {
		t.Error("expected a warning naming the disambiguated file")
	}
}

func TestManager_ExportBeforeInitialize(t *testing.T) {
	m := NewManager(nil, nil, nil, nil)
	if err := m.StartExport(context.Background(), t.TempDir()); !errors.Is(err, model.ErrNotLoaded) {
		t.Fatalf("StartExport() error = %v, want ErrNotLoaded", err)
	}
	if m.Summary() != nil {
		t.Error("Summary() should be empty before Initialize")
	}
}

func TestManager_InitializeMissingSource(t *testing.T) {
	rec := &recorder{}
	m := NewManager(config.DefaultSettings(), tagsByName{}, nil, rec.record)

	if err := m.Initialize(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("Initialize() should fail for a missing source")
	}
	if rec.count(LevelError, "Error scanning") != 1 {
		t.Error("expected an error event")
	}
}

func TestManager_Summary(t *testing.T) {
	src, reader := setup(t)
	m := NewManager(config.DefaultSettings(), reader, nil, nil)
	if err := m.Initialize(context.Background(), src); err != nil {
		t.Fatal(err)
	}

	want := []AlbumSummary{
		{Artist: "Foo", Album: "Bar", Tracks: 2, Bytes: 7},
		{Artist: "Zed", Album: "Live", Tracks: 1, Bytes: 5},
	}
	if got := m.Summary(); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}

	wantNames := []string{"Foo - Bar (2 tracks)", "Zed - Live (1 tracks)"}
	if got := m.GetAlbumNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("GetAlbumNames() = %v, want %v", got, wantNames)
	}
}
