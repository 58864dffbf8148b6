// Package model defines the in-memory organization of a music library and
// how it is written to disk.
//
// # Structure
//
// A Library maps artists to Discographies, a Discography maps album names
// to Albums, and an Album holds Tracks:
//
//	Library ─┬─ Discography "Foo" ─┬─ Album "Bar" ─┬─ Track "3. Baz.mp3"
//	         │                     │               └─ Track "4. Qux.mp3"
//	         │                     └─ Album "Unknown Album"
//	         └─ Discography "Unknown Artist"
//
// Tracks are routed by their resolved artist (album artist first) and album.
// Untagged files land in "Unknown Artist" / "Unknown Album".
//
// # Export
//
// Export walks the same tree and writes:
//
//	<dest>/<Artist>/<Album>/<Track#>. <Title>.<ext>
//
// ExportConfig selects copy or move and simulation. Two tracks computing the
// same file name get "Title.mp3" and "Title (1).mp3".
package model
