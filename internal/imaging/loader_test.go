package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// encodeTestPNG encodes a solid-color image of the given size.
func encodeTestPNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// createTestImage writes a PNG file into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	if err := os.WriteFile(path, encodeTestPNG(t, width, height, c), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func dataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestURILoader_DataURI(t *testing.T) {
	uri := dataURI(encodeTestPNG(t, 12, 7, color.NRGBA{10, 20, 30, 40}))

	img, err := (&URILoader{}).Load(context.Background(), uri, 12, 7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", b.Dx(), b.Dy())
	}
}

func TestURILoader_File(t *testing.T) {
	path := createTestImage(t, 30, 20, color.NRGBA{255, 0, 0, 255})
	loader := &URILoader{}

	tests := []struct {
		name string
		uri  string
	}{
		{"bare path", path},
		{"file uri", "file://" + filepath.ToSlash(path)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := loader.Load(context.Background(), tt.uri, 0, 0)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
				t.Errorf("dimensions: got %dx%d, want 30x20", b.Dx(), b.Dy())
			}
		})
	}
}

func TestURILoader_HTTP(t *testing.T) {
	payload := encodeTestPNG(t, 8, 9, color.NRGBA{0, 0, 255, 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(payload)
		case "/garbage.png":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewURILoader(5*time.Second, 0, nil)

	img, err := loader.Load(context.Background(), srv.URL+"/ok.png", 8, 9)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 9 {
		t.Errorf("dimensions: got %dx%d, want 8x9", b.Dx(), b.Dy())
	}

	if _, err := loader.Load(context.Background(), srv.URL+"/missing.png", 8, 9); err == nil {
		t.Error("Load should fail on a 404 response")
	}
	if _, err := loader.Load(context.Background(), srv.URL+"/garbage.png", 8, 9); err == nil {
		t.Error("Load should fail on undecodable content")
	}
}

func TestURILoader_Failures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		uri  string
	}{
		{"empty uri", ""},
		{"missing file", filepath.Join(dir, "nope.png")},
		{"invalid image data", garbage},
		{"malformed data uri", "data:image/png;base64"},
		{"bad base64", "data:image/png;base64,!!!"},
		{"unsupported scheme", "ftp://example.com/a.png"},
	}

	loader := &URILoader{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(context.Background(), tt.uri, 1, 1); err == nil {
				t.Errorf("Load(%q) should fail", tt.uri)
			}
		})
	}
}

func TestURILoader_SchemeNotAllowed(t *testing.T) {
	path := createTestImage(t, 4, 4, color.White)
	loader := &URILoader{Schemes: []string{"data"}}

	_, err := loader.Load(context.Background(), path, 4, 4)
	if !errors.Is(err, ErrSchemeNotAllowed) {
		t.Errorf("got %v, want ErrSchemeNotAllowed", err)
	}

	uri := dataURI(encodeTestPNG(t, 4, 4, color.White))
	if _, err := loader.Load(context.Background(), uri, 4, 4); err != nil {
		t.Errorf("data uri should still load: %v", err)
	}
}

func TestURILoader_MaxBytes(t *testing.T) {
	payload := encodeTestPNG(t, 64, 64, color.NRGBA{1, 2, 3, 4})
	loader := &URILoader{MaxBytes: int64(len(payload) - 1)}

	if _, err := loader.Load(context.Background(), dataURI(payload), 64, 64); err == nil {
		t.Error("oversized data uri should fail")
	}

	path := filepath.Join(t.TempDir(), "big.png")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := loader.Load(context.Background(), path, 64, 64); err == nil {
		t.Error("oversized file should fail")
	}

	loader.MaxBytes = int64(len(payload))
	if _, err := loader.Load(context.Background(), path, 64, 64); err != nil {
		t.Errorf("file at the limit should load: %v", err)
	}
}

func TestURIScheme(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"data:image/png;base64,AAAA", "data"},
		{"DATA:image/png;base64,AAAA", "data"},
		{"file:///tmp/a.png", "file"},
		{"https://example.com/a.png", "https"},
		{"/tmp/a.png", ""},
		{"relative/a.png", ""},
		{`C:\images\a.png`, ""},
		{"weird path:with colon.png", ""},
		{"svn+ssh://host/a", "svn+ssh"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if got := uriScheme(tt.uri); got != tt.want {
				t.Errorf("uriScheme(%q): got %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestLoaderFunc(t *testing.T) {
	want := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	var gotW, gotH int
	loader := LoaderFunc(func(ctx context.Context, uri string, width, height int) (image.Image, error) {
		gotW, gotH = width, height
		return want, nil
	})

	img, err := loader.Load(context.Background(), "x", 3, 4)
	if err != nil || img != want {
		t.Fatalf("LoaderFunc: got (%v, %v)", img, err)
	}
	if gotW != 3 || gotH != 4 {
		t.Errorf("hints: got %dx%d, want 3x4", gotW, gotH)
	}
}

func TestGetDimensions(t *testing.T) {
	path := createTestImage(t, 300, 200, color.NRGBA{100, 100, 100, 255})

	dims, err := GetDimensions(context.Background(), &URILoader{}, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 {
		t.Errorf("Width: got %d, want 300", dims.Width)
	}
	if dims.Height != 200 {
		t.Errorf("Height: got %d, want 200", dims.Height)
	}
}

func TestGetDimensions_NonExistent(t *testing.T) {
	_, err := GetDimensions(context.Background(), &URILoader{}, "/nonexistent/image.png")
	if err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}
