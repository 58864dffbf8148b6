package audio

import (
	"strings"
	"testing"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("Test Album", "Test Artist", testEntries())

	if !strings.Contains(content, "1. track1.mp3") {
		t.Error("M3U should contain track filename")
	}
	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain the extended header")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("Test Album", "Test Artist", testEntries())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Test Artist - track1") {
		t.Errorf("Extended M3U should contain #EXTINF line, got:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("Test Album", "Test Artist", testEntries())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=1. track1.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist("Test Album", "Test Artist", testEntries())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist("Test Album", "Test Artist", testEntries())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "albumTitle=\"Test Album\"") {
		t.Error("ZPL should contain albumTitle attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	entries := []PlaylistEntry{{FileName: "Track & \"Quote\".mp3", Title: "Track & \"Quote\"", Artist: "Artist & Co"}}

	creator := NewPlaylistCreator(FormatWPL, false)
	content := creator.CreatePlaylist("Album <Special>", "Artist & Co", entries)

	if strings.Contains(content, "&") && !strings.Contains(content, "&amp;") {
		t.Error("WPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") {
		t.Error("WPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    PlaylistFormat
		wantExt string
		wantErr bool
	}{
		{"m3u", FormatM3U, "m3u", false},
		{"", FormatM3U, "m3u", false},
		{"PLS", FormatPLS, "pls", false},
		{"wpl", FormatWPL, "wpl", false},
		{" zpl ", FormatZPL, "zpl", false},
		{"xspf", FormatM3U, "m3u", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlaylistFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlaylistFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ext := got.Extension(); ext != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", ext, tt.wantExt)
			}
		})
	}
}

func testEntries() []PlaylistEntry {
	return []PlaylistEntry{
		{FileName: "1. track1.mp3", Title: "track1", Artist: "Test Artist"},
		{FileName: "2. track2.mp3", Title: "track2", Artist: "Test Artist"},
	}
}
