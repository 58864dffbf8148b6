// Package ioutils provides file system utilities used while exporting a
// music library.
//
// # File Operations
//
//	// Copy a file (never overwrites)
//	err := ioutils.CopyFile(ctx, "/src/file.mp3", "/dst/file.mp3")
//
//	// Move a file, falling back to copy+remove across devices
//	err := ioutils.MoveFile(ctx, "/src/file.mp3", "/dst/file.mp3")
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Conflict-free Names
//
// PathClaims picks the first unused name in a directory, appending a
// parenthesized counter before the extension:
//
//	claims := ioutils.NewPathClaims()
//	p, _, _ := claims.Claim("/music/A/B", "Same Title", "mp3") // .../Same Title.mp3
//	p, _, _ = claims.Claim("/music/A/B", "Same Title", "mp3")  // .../Same Title (1).mp3
//
// # Cover Art
//
// FindCoverArt locates cover.jpg, folder.png and similar images next to the
// source files; ImageService scales them down and re-encodes them as JPEG.
package ioutils
