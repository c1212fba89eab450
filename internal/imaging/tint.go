package imaging

import (
	"github.com/anthonynsimon/bild/parallel"
)

// Tint returns a silhouette-tinted copy of src.
//
// Every pixel of the result has its red, green and blue channels set to c and
// its alpha channel copied unchanged from the corresponding source pixel. This
// is an overwrite, not a blend: the source's color and luminance are discarded
// and only its alpha shape survives.
//
// The source bitmap is never modified. Rows are processed concurrently, but
// each row writes a disjoint slice of the output, so the result is
// deterministic. Tinting an already tinted bitmap with the same color yields
// an identical bitmap.
//
// # Errors
//
// Returns an error wrapping ErrInvalidBitmap if src violates the bitmap
// size invariant.
func Tint(src *Bitmap, c Color) (*Bitmap, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	dst := &Bitmap{
		Width:  src.Width,
		Height: src.Height,
		Pix:    make([]uint8, len(src.Pix)),
	}

	rowLen := 4 * src.Width
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			tintRow(dst.Pix[y*rowLen:(y+1)*rowLen], src.Pix[y*rowLen:(y+1)*rowLen], c)
		}
	})

	return dst, nil
}

// tintRow writes one row of tinted pixels. dst and src must have equal length,
// a multiple of 4.
func tintRow(dst, src []uint8, c Color) {
	for i := 0; i+3 < len(src); i += 4 {
		d := dst[i : i+4 : i+4]
		d[0] = c.R
		d[1] = c.G
		d[2] = c.B
		d[3] = src[i+3]
	}
}
