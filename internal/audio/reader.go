package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"go.senan.xyz/taglib"
)

// ErrNoMetadata is returned by a Reader when a file carries no readable tag
// header. Callers are expected to fall back to filename-derived metadata.
var ErrNoMetadata = errors.New("audio: no metadata")

// Canonical tag names understood by the organizer.
const (
	TagAlbumArtist = "albumartist"
	TagArtist      = "artist"
	TagAlbum       = "album"
	TagTitle       = "title"
	TagTrackNumber = "tracknumber"
)

// Tags maps a canonical tag name to its values. Most tags carry a single
// value; multi-valued tags (several artists, for instance) keep their
// original order.
type Tags map[string][]string

// Get returns the values stored for name.
func (t Tags) Get(name string) []string {
	if t == nil {
		return nil
	}
	return t[name]
}

// set stores the non-empty values for name, dropping blanks.
func (t Tags) set(name string, values ...string) {
	var kept []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		t[name] = kept
	}
}

// Reader extracts tags from an audio file.
//
// Implementations return ErrNoMetadata (possibly wrapped) when the file has
// no tag header at all, and another error when the file cannot be read.
type Reader interface {
	ReadTags(path string) (Tags, error)
}

// id3Frames maps ID3v2 frame IDs to canonical tag names.
var id3Frames = map[string]string{
	"TPE2": TagAlbumArtist,
	"TPE1": TagArtist,
	"TALB": TagAlbum,
	"TIT2": TagTitle,
	"TRCK": TagTrackNumber,
}

// ID3Reader reads ID3v2 tags from MP3 files.
//
// ID3v2.4 allows several values in one text frame, separated by NUL
// characters; each becomes a separate value in the returned Tags.
type ID3Reader struct{}

// ReadTags implements Reader.
func (ID3Reader) ReadTags(path string) (Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("read id3 tag %s: %w", path, err)
	}
	defer tag.Close()

	if !tag.HasFrames() {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMetadata)
	}

	tags := make(Tags, len(id3Frames))
	for id, name := range id3Frames {
		frame := tag.GetTextFrame(id)
		tags.set(name, splitMultiValue(frame.Text)...)
	}
	return tags, nil
}

// TaglibReader reads tags through TagLib. It is used for Ogg Vorbis files,
// whose comments are free-form KEY=value pairs.
type TaglibReader struct{}

// ReadTags implements Reader.
func (TaglibReader) ReadTags(path string) (Tags, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMetadata)
	}

	tags := make(Tags, len(raw))
	for key, values := range raw {
		tags.set(strings.ToLower(key), values...)
	}
	return tags, nil
}

// ExtensionReader dispatches to a Reader chosen by file extension.
type ExtensionReader struct {
	readers  map[string]Reader
	fallback Reader
}

// NewReader returns the default reader: ID3 for .mp3, TagLib for .ogg and
// anything else. MP3 files without an ID3v2 header are read through TagLib,
// which understands ID3v1.
func NewReader() *ExtensionReader {
	return &ExtensionReader{
		readers: map[string]Reader{
			".mp3": ID3Reader{},
			".ogg": TaglibReader{},
		},
		fallback: TaglibReader{},
	}
}

// ReadTags implements Reader. When the reader chosen for the extension finds
// no metadata, the fallback gets a second attempt; this picks up MP3 files
// that only carry an ID3v1 trailer.
func (r *ExtensionReader) ReadTags(path string) (Tags, error) {
	reader, ok := r.readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return r.fallback.ReadTags(path)
	}

	tags, err := reader.ReadTags(path)
	if errors.Is(err, ErrNoMetadata) {
		if fallbackTags, fallbackErr := r.fallback.ReadTags(path); fallbackErr == nil {
			return fallbackTags, nil
		}
	}
	return tags, err
}

// splitMultiValue splits an ID3v2.4 NUL-separated text value.
func splitMultiValue(text string) []string {
	return strings.Split(strings.TrimRight(text, "\x00"), "\x00")
}
