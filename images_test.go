package pubsite

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResizableImage(t *testing.T) {
	tests := map[string]bool{
		"a.jpg": true, "b.JPEG": true, "c.png": true,
		"d.gif": false, "e.svg": false, "f": false,
	}
	for name, want := range tests {
		if got := resizableImage(name); got != want {
			t.Errorf("resizableImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestResizeImage(t *testing.T) {
	data, resized, err := resizeImage(bytes.NewReader(pngBytes(t, 200, 100)), 50)
	if err != nil {
		t.Fatal(err)
	}
	if !resized {
		t.Fatal("wide image was not resized")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("resized to %s %dx%d, want png 50x25", format, cfg.Width, cfg.Height)
	}
}

func TestResizeImageNarrowUntouched(t *testing.T) {
	data, resized, err := resizeImage(bytes.NewReader(pngBytes(t, 40, 40)), 50)
	if err != nil {
		t.Fatal(err)
	}
	if resized || data != nil {
		t.Errorf("narrow image resized = %v, %d bytes", resized, len(data))
	}
}

func TestResizeImageInvalid(t *testing.T) {
	if _, _, err := resizeImage(bytes.NewReader([]byte("not an image")), 50); err == nil {
		t.Error("resizeImage accepted garbage")
	}
}

func TestBuildResizesImages(t *testing.T) {
	cfg := testSite(t)
	cfg.MaxImageWidth = 64
	if err := os.WriteFile(filepath.Join(cfg.ImagesDir, "wide.png"), pngBytes(t, 256, 128), 0o644); err != nil {
		t.Fatal(err)
	}
	a := newTestApp(t, cfg)
	report, err := a.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// posts/fifth/photo.png is not a real image and is copied as is.
	if report.Resized != 1 {
		t.Errorf("Resized = %d, want 1", report.Resized)
	}
	f, err := os.Open(filepath.Join(cfg.OutputDir, "images", "wide.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if ic.Width != 64 {
		t.Errorf("width = %d, want 64", ic.Width)
	}
	got, err := os.ReadFile(filepath.Join(cfg.OutputDir, "fifth", "photo.png"))
	if err != nil || string(got) != "png" {
		t.Errorf("photo.png = %q, %v", got, err)
	}
}
