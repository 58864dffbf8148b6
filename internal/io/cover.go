package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// ErrNoCoverArt is returned by FindCoverArt when no directory holds a
// recognised cover image.
var ErrNoCoverArt = errors.New("no cover art found")

// Cover image base names in order of preference.
var (
	coverNames      = []string{"cover", "folder", "front", "album"}
	coverExtensions = []string{".jpg", ".jpeg", ".png"}
)

// FindCoverArt returns the path of the first cover image found in dirs.
//
// Within a directory, names are matched case-insensitively and preferred in
// the order cover, folder, front, album; .jpg before .jpeg before .png.
// Unreadable directories are skipped.
func FindCoverArt(dirs ...string) (string, error) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		files := make(map[string]string, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() {
				files[strings.ToLower(e.Name())] = e.Name()
			}
		}

		for _, name := range coverNames {
			for _, ext := range coverExtensions {
				if actual, ok := files[name+ext]; ok {
					return filepath.Join(dir, actual), nil
				}
			}
		}
	}
	return "", ErrNoCoverArt
}

// ImageService normalizes album cover art.
//
// Covers are decoded (JPEG or PNG), scaled down to fit a square bounding box
// while keeping their aspect ratio, and re-encoded as JPEG.
//
// Example usage:
//
//	svc := NewImageService(1000)
//	data, _ := os.ReadFile("/src/Bar/folder.png")
//	jpg, err := svc.Normalize(ctx, data)
//	// a 1500x1000 image becomes 1000x667
type ImageService struct {
	maxSize int
	quality int
}

// NewImageService creates an ImageService limiting covers to
// maxSize x maxSize pixels. A non-positive maxSize disables scaling.
func NewImageService(maxSize int) *ImageService {
	return &ImageService{maxSize: maxSize, quality: 90}
}

// MaxSize returns the bounding box edge in pixels.
func (s *ImageService) MaxSize() int {
	return s.maxSize
}

// Normalize returns data as a JPEG no larger than the bounding box.
// Images that already fit are re-encoded without scaling.
func (s *ImageService) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height, scale := fit(bounds.Dx(), bounds.Dy(), s.maxSize)
	if scale {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		// Catmull-Rom for high-quality scaling
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit returns the dimensions of a width x height image scaled down to fit
// limit x limit, and whether scaling is needed at all.
func fit(width, height, limit int) (int, int, bool) {
	if limit <= 0 || (width <= limit && height <= limit) {
		return width, height, false
	}

	ratio := float64(width) / float64(height)
	if ratio < 1 {
		// Height is the limiting factor
		return max(1, int(float64(limit)*ratio)), limit, true
	}
	// Width is the limiting factor
	return limit, max(1, int(float64(limit)/ratio)), true
}
