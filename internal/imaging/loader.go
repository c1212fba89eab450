package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultMaxBytes caps the size of an encoded source image (32 MiB).
const DefaultMaxBytes = 32 << 20

// DefaultSchemes are the URI schemes URILoader accepts when none are configured.
// The empty scheme stands for a bare filesystem path.
var DefaultSchemes = []string{"data", "file", "http", "https"}

// ErrSchemeNotAllowed is returned for a URI whose scheme is not enabled on the loader.
var ErrSchemeNotAllowed = errors.New("uri scheme not allowed")

// Loader decodes the image addressed by a URI.
//
// width and height are the size the caller declared for the image. They are
// hints only; implementations return the image at its natural decoded size.
// Load may block; callers wanting asynchrony run it on their own goroutine.
type Loader interface {
	Load(ctx context.Context, uri string, width, height int) (image.Image, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func(ctx context.Context, uri string, width, height int) (image.Image, error)

// Load calls f(ctx, uri, width, height).
func (f LoaderFunc) Load(ctx context.Context, uri string, width, height int) (image.Image, error) {
	return f(ctx, uri, width, height)
}

// URILoader loads images from data URIs, the local filesystem and HTTP(S).
//
// Supported forms:
//   - data:image/png;base64,... (base64 or percent-encoded payloads)
//   - file:///abs/path.png
//   - /abs/path.png or relative/path.png
//   - http://host/img.png and https://host/img.png
//
// Decoding goes through imaging.Decode with EXIF auto-orientation enabled, so
// PNG, JPEG, GIF, BMP, TIFF and WebP sources are accepted.
//
// The zero value is usable: it allows DefaultSchemes, caps payloads at
// DefaultMaxBytes and uses http.DefaultClient.
type URILoader struct {
	// Client performs HTTP(S) fetches. Nil means http.DefaultClient.
	Client *http.Client

	// MaxBytes is the largest encoded payload accepted. Zero means DefaultMaxBytes.
	MaxBytes int64

	// Schemes lists the enabled URI schemes ("data", "file", "http", "https").
	// Nil means DefaultSchemes.
	Schemes []string
}

// NewURILoader returns a loader with the given HTTP timeout, size cap and schemes.
// A zero timeout disables the client timeout.
func NewURILoader(timeout time.Duration, maxBytes int64, schemes []string) *URILoader {
	return &URILoader{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
		Schemes:  schemes,
	}
}

// Load implements Loader.
func (l *URILoader) Load(ctx context.Context, uri string, width, height int) (image.Image, error) {
	data, err := l.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// fetch resolves uri to its encoded bytes.
func (l *URILoader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty image uri")
	}

	scheme := uriScheme(uri)
	if !l.allowed(scheme) {
		return nil, fmt.Errorf("%w: %q", ErrSchemeNotAllowed, scheme)
	}

	switch scheme {
	case "data":
		return l.fetchData(uri)
	case "file":
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid file uri: %w", err)
		}
		return l.readFile(u.Path)
	case "":
		return l.readFile(uri)
	case "http", "https":
		return l.fetchHTTP(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: %q", ErrSchemeNotAllowed, scheme)
	}
}

func (l *URILoader) fetchData(uri string) ([]byte, error) {
	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid data uri: %w", err)
	}
	if int64(len(du.Data)) > l.maxBytes() {
		return nil, fmt.Errorf("data uri payload exceeds %d bytes", l.maxBytes())
	}
	return du.Data, nil
}

func (l *URILoader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return l.readLimited(f)
}

func (l *URILoader) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image from %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unable to download image from %s: status %s", uri, res.Status)
	}

	return l.readLimited(res.Body)
}

// readLimited reads r fully, failing once more than MaxBytes are seen.
func (l *URILoader) readLimited(r io.Reader) ([]byte, error) {
	max := l.maxBytes()
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("image exceeds %d bytes", max)
	}
	return data, nil
}

func (l *URILoader) maxBytes() int64 {
	if l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}

// allowed reports whether scheme is enabled. Bare paths count as "file".
func (l *URILoader) allowed(scheme string) bool {
	if scheme == "" {
		scheme = "file"
	}
	schemes := l.Schemes
	if schemes == nil {
		schemes = DefaultSchemes
	}
	for _, s := range schemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}

// uriScheme returns the lower-cased scheme of uri, or "" for a bare path.
// Single-letter schemes are Windows drive letters, not schemes.
func uriScheme(uri string) string {
	i := strings.IndexByte(uri, ':')
	if i <= 1 {
		return ""
	}
	scheme := uri[:i]
	for j, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(scheme)
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions loads the image at uri and returns its decoded dimensions.
func GetDimensions(ctx context.Context, loader Loader, uri string) (*DimensionsResult, error) {
	img, err := loader.Load(ctx, uri, 0, 0)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
