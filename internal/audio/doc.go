// Package audio reads metadata from audio files and generates playlists.
//
// # Tag Reading
//
// A Reader returns the tags of one file keyed by canonical name
// (albumartist, artist, album, title, tracknumber):
//
//	reader := audio.NewReader()
//	tags, err := reader.ReadTags("/music/song.mp3")
//	if errors.Is(err, audio.ErrNoMetadata) {
//	    // untagged file, fall back to the file name
//	}
//
// Supported formats:
//   - MP3 (ID3v2, via github.com/bogem/id3v2)
//   - Ogg Vorbis (Vorbis comments, via TagLib)
//
// # Playlist Generation
//
// Generate playlists in various formats:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(album, artist, entries)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
