package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, height/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFindCoverArt(t *testing.T) {
	empty := t.TempDir()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Folder.PNG"), "png")
	writeFile(t, filepath.Join(dir, "cover.jpg"), "jpg")
	writeFile(t, filepath.Join(dir, "back.jpg"), "jpg")

	got, err := FindCoverArt(empty, filepath.Join(empty, "missing"), dir)
	if err != nil {
		t.Fatalf("FindCoverArt() error = %v", err)
	}
	if want := filepath.Join(dir, "cover.jpg"); got != want {
		t.Errorf("FindCoverArt() = %q, want %q", got, want)
	}
}

func TestFindCoverArt_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Folder.PNG"), "png")

	got, err := FindCoverArt(dir)
	if err != nil {
		t.Fatalf("FindCoverArt() error = %v", err)
	}
	if want := filepath.Join(dir, "Folder.PNG"); got != want {
		t.Errorf("FindCoverArt() = %q, want %q", got, want)
	}
}

func TestFindCoverArt_None(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "booklet.pdf"), "pdf")

	if _, err := FindCoverArt(dir); !errors.Is(err, ErrNoCoverArt) {
		t.Fatalf("FindCoverArt() error = %v, want ErrNoCoverArt", err)
	}
}

func TestImageService_Normalize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxSize       int
		wantW, wantH  int
	}{
		{"landscape scaled", 200, 100, 50, 50, 25},
		{"portrait scaled", 100, 200, 50, 25, 50},
		{"already fits", 40, 30, 50, 40, 30},
		{"scaling disabled", 200, 100, 0, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewImageService(tt.maxSize)
			out, err := svc.Normalize(context.Background(), pngBytes(t, tt.width, tt.height))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not JPEG: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_NormalizeErrors(t *testing.T) {
	svc := NewImageService(100)

	if _, err := svc.Normalize(context.Background(), []byte("not an image")); err == nil {
		t.Error("Normalize() should fail on undecodable data")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Normalize(ctx, pngBytes(t, 10, 10)); !errors.Is(err, context.Canceled) {
		t.Errorf("Normalize() error = %v, want context.Canceled", err)
	}
}
