package imaging

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/vincent-petithory/dataurl"
)

// PNGMimeType is the media type of every encoded tint result.
const PNGMimeType = "image/png"

// Encoder serializes a bitmap into a self-contained, directly renderable URI.
type Encoder interface {
	Encode(b *Bitmap) (string, error)
}

// EncoderFunc adapts an ordinary function to the Encoder interface.
type EncoderFunc func(b *Bitmap) (string, error)

// Encode calls f(b).
func (f EncoderFunc) Encode(b *Bitmap) (string, error) {
	return f(b)
}

// PNGEncoder encodes bitmaps as base64 PNG data URIs
// ("data:image/png;base64,...").
type PNGEncoder struct {
	// Compression is the zlib level used by the PNG writer.
	// The zero value is png.DefaultCompression.
	Compression png.CompressionLevel
}

// Encode implements Encoder.
func (e PNGEncoder) Encode(b *Bitmap) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, b.NRGBA(), imaging.PNG, imaging.PNGCompressionLevel(e.Compression)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return dataurl.New(buf.Bytes(), PNGMimeType).String(), nil
}

// ParseCompression maps a configuration name to a PNG compression level.
//
// Accepted names are "default" (or empty), "speed", "best" and "none".
func ParseCompression(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("unknown png compression: %s", name)
	}
}
