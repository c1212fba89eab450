// Package imaging provides the raster primitives behind silhouette tinting.
//
// The package covers four stages that the convert package chains together:
//
//   - Loading: URILoader decodes an image addressed by a data URI, a file
//     path or an HTTP(S) URL.
//   - Rasterizing: Surface draws the decoded image onto a transparent
//     offscreen Bitmap of a fixed size.
//   - Tinting: Tint replaces the RGB channels of every pixel with one Color
//     while preserving each pixel's alpha.
//   - Encoding: PNGEncoder serializes a Bitmap as a base64 PNG data URI.
//
// # Bitmaps
//
// A Bitmap is a tightly packed buffer of straight (non-premultiplied) RGBA
// bytes. Straight alpha matters here: tinting writes color channels without
// looking at alpha, which is only correct when the two are independent. Images
// decoded into premultiplied types such as *image.RGBA are un-premultiplied on
// conversion.
//
// # Colors
//
// Tint colors are written as "#RRGGBB". Short forms, alpha suffixes and named
// colors are rejected with ErrInvalidColorFormat.
//
// # Thread Safety
//
// All functions are stateless. Bitmaps are never modified after they are
// returned, so they can be shared between goroutines freely.
package imaging
