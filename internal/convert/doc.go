// Package convert tints images asynchronously.
//
// A conversion takes a Descriptor (source URI plus declared size) and a
// "#RRGGBB" color and produces a Result: a PNG data URI in which every pixel
// has the target color and its original alpha. The pipeline is:
//
//  1. Parse the color (synchronous; errors are returned to the caller).
//  2. Load and decode the source image.
//  3. Draw it onto a transparent surface of the declared size.
//  4. Tint every pixel.
//  5. Encode the surface as a PNG data URI.
//
// Steps 2-5 run on a goroutine. Their outcome is delivered once, either to a
// Callback (Convert), on a channel (Start) or as a return value (Run).
//
// # Errors
//
//   - ErrInvalidColorFormat: returned synchronously; nothing is started.
//   - ErrImageLoadFailed: the source could not be fetched or decoded.
//   - ErrProcessingFailed: rasterizing, tinting or encoding failed.
//
// Asynchronous errors wrap the underlying cause, so errors.Is and errors.As
// work on both the category and the cause. Nothing is retried.
//
// # Dimensions
//
// The Result always reports the Descriptor's declared width and height. The
// decoded image is clipped or padded to that size rather than the other way
// around.
package convert
