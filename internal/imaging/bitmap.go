package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrInvalidBitmap is returned when a bitmap's dimensions or pixel buffer are malformed.
var ErrInvalidBitmap = errors.New("invalid bitmap")

// Bitmap is an in-memory raster of straight (non-premultiplied) RGBA pixels.
//
// Pix holds the pixels row by row, top to bottom, with four bytes per pixel
// in R, G, B, A order. A valid bitmap always satisfies:
//
//	Width > 0 && Height > 0 && len(Pix) == 4*Width*Height
//
// Bitmaps are treated as immutable once built; operations such as Tint
// return a new bitmap rather than writing into their input.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBitmap allocates a fully transparent bitmap of the given size.
func NewBitmap(width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidBitmap, width, height)
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
	}, nil
}

// Validate reports whether the bitmap satisfies its size invariant.
func (b *Bitmap) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil bitmap", ErrInvalidBitmap)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidBitmap, b.Width, b.Height)
	}
	if want := 4 * b.Width * b.Height; len(b.Pix) != want {
		return fmt.Errorf("%w: pixel buffer has %d bytes, want %d", ErrInvalidBitmap, len(b.Pix), want)
	}
	return nil
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Bitmap{Width: b.Width, Height: b.Height, Pix: pix}
}

// NRGBA returns an *image.NRGBA sharing the bitmap's pixel buffer.
//
// The returned image aliases b.Pix; it is meant to be handed to encoders
// and must not be modified.
func (b *Bitmap) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// At returns the pixel at (x, y). Coordinates are 0-based from the top-left.
// It panics if the coordinates are out of range.
func (b *Bitmap) At(x, y int) color.NRGBA {
	i := 4 * (y*b.Width + x)
	p := b.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// BitmapFromImage converts any decoded image into a Bitmap.
//
// The conversion goes through imaging.Clone, which un-premultiplies alpha
// and normalizes YCbCr, paletted and 16-bit images to 8-bit straight RGBA.
// Images with a non-zero origin are shifted so that the bitmap starts at (0,0).
func BitmapFromImage(img image.Image) (*Bitmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidBitmap)
	}
	return fromNRGBA(imaging.Clone(img))
}

// Surface draws img at the origin of a transparent width x height bitmap.
//
// This mirrors drawing a decoded image onto an offscreen canvas of a fixed
// size: pixels beyond the surface are clipped, and a smaller image leaves the
// remaining area fully transparent. The image's own bounds do not change the
// size of the result.
func Surface(img image.Image, width, height int) (*Bitmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidBitmap)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface dimensions %dx%d must be positive", ErrInvalidBitmap, width, height)
	}

	background := imaging.New(width, height, color.NRGBA{})
	return fromNRGBA(imaging.Paste(background, img, image.Pt(0, 0)))
}

// fromNRGBA copies an NRGBA image into a tightly packed bitmap.
func fromNRGBA(src *image.NRGBA) (*Bitmap, error) {
	bounds := src.Bounds()
	b, err := NewBitmap(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	rowLen := 4 * b.Width
	for y := 0; y < b.Height; y++ {
		srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(b.Pix[y*rowLen:(y+1)*rowLen], src.Pix[srcOff:srcOff+rowLen])
	}
	return b, nil
}
