package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/ironsheep/image-tint-mcp/internal/imaging"
)

// ErrInvalidColorFormat is returned synchronously by Convert, Start and Run
// when the color argument is not "#RRGGBB". It is the same value as
// imaging.ErrInvalidColorFormat.
var ErrInvalidColorFormat = imaging.ErrInvalidColorFormat

var (
	// ErrImageLoadFailed is reported when the source image cannot be fetched or decoded.
	ErrImageLoadFailed = errors.New("image load failed")

	// ErrProcessingFailed is reported when tinting or encoding fails after a successful load.
	ErrProcessingFailed = errors.New("image processing failed")

	// ErrNilCallback is returned by Convert when no callback is supplied.
	ErrNilCallback = errors.New("nil callback")
)

// Descriptor identifies a source image and the size the caller declares for it.
type Descriptor struct {
	// URI addresses the source image (data URI, file path or HTTP(S) URL).
	URI string `json:"uri"`

	// Width is the declared width in pixels.
	Width int `json:"width"`

	// Height is the declared height in pixels.
	Height int `json:"height"`
}

// Result is a tinted image resource.
type Result struct {
	// URI is a self-contained data URI holding the encoded image.
	URI string `json:"uri"`

	// Width and Height echo the Descriptor's declared dimensions, not the
	// measured dimensions of the decoded source.
	Width  int `json:"width"`
	Height int `json:"height"`

	// MimeType of the encoded image, always "image/png".
	MimeType string `json:"mime_type"`
}

// Outcome is the single terminal value of a conversion: exactly one of
// Result and Err is set.
type Outcome struct {
	Result *Result
	Err    error
}

// Callback receives the outcome of Convert. Exactly one of its methods is
// called, exactly once, on a goroutine owned by the Converter.
type Callback interface {
	OnSuccess(result *Result)
	OnFailure(err error)
}

// CallbackFuncs adapts a pair of functions to the Callback interface.
// Nil functions are skipped.
type CallbackFuncs struct {
	Success func(result *Result)
	Failure func(err error)
}

// OnSuccess implements Callback.
func (f CallbackFuncs) OnSuccess(result *Result) {
	if f.Success != nil {
		f.Success(result)
	}
}

// OnFailure implements Callback.
func (f CallbackFuncs) OnFailure(err error) {
	if f.Failure != nil {
		f.Failure(err)
	}
}

// Converter tints images: load, rasterize at the declared size, tint, encode.
//
// A Converter holds no per-request state and is safe for concurrent use.
// Requests run independently on their own goroutine and buffers; nothing is
// cached between them.
type Converter struct {
	loader  imaging.Loader
	encoder imaging.Encoder
	logger  *log.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for per-request diagnostics.
// By default the converter logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Converter. A nil loader means a zero URILoader; a nil encoder
// means a default PNGEncoder.
func New(loader imaging.Loader, encoder imaging.Encoder, opts ...Option) *Converter {
	if loader == nil {
		loader = &imaging.URILoader{}
	}
	if encoder == nil {
		encoder = imaging.PNGEncoder{}
	}
	c := &Converter{
		loader:  loader,
		encoder: encoder,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert tints the image described by desc with color and reports the
// outcome through cb.
//
// The color is validated before any work starts: a malformed color returns
// an error wrapping ErrInvalidColorFormat and cb is never called. Otherwise
// Convert returns nil immediately and later calls exactly one of
// cb.OnSuccess or cb.OnFailure, exactly once. Failures passed to OnFailure
// wrap ErrImageLoadFailed or ErrProcessingFailed.
//
// There is no cancellation: once started, a conversion runs to completion.
func (c *Converter) Convert(desc Descriptor, color string, cb Callback) error {
	if cb == nil {
		return ErrNilCallback
	}
	col, err := imaging.ParseColor(color)
	if err != nil {
		return err
	}

	go func() {
		out := c.run(desc, col)
		if out.Err != nil {
			cb.OnFailure(out.Err)
			return
		}
		cb.OnSuccess(out.Result)
	}()
	return nil
}

// Start is like Convert but delivers the outcome on a channel. The channel
// receives exactly one Outcome and is then closed. It is buffered, so a
// caller that stops listening does not block the conversion.
func (c *Converter) Start(desc Descriptor, color string) (<-chan Outcome, error) {
	col, err := imaging.ParseColor(color)
	if err != nil {
		return nil, err
	}

	ch := make(chan Outcome, 1)
	go func() {
		ch <- c.run(desc, col)
		close(ch)
	}()
	return ch, nil
}

// Run starts a conversion and waits for its outcome.
//
// ctx only bounds the wait. If it ends first, Run returns ctx.Err() and the
// conversion keeps running in the background; its outcome is discarded.
func (c *Converter) Run(ctx context.Context, desc Descriptor, color string) (*Result, error) {
	ch, err := c.Start(desc, color)
	if err != nil {
		return nil, err
	}

	select {
	case out := <-ch:
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run executes the pipeline for one request and always returns an Outcome.
func (c *Converter) run(desc Descriptor, col imaging.Color) Outcome {
	img, err := c.load(desc)
	if err != nil {
		c.logger.Printf("load %s failed: %v", shortURI(desc.URI), err)
		return Outcome{Err: fmt.Errorf("%w: %w", ErrImageLoadFailed, err)}
	}

	res, err := c.process(desc, img, col)
	if err != nil {
		c.logger.Printf("tint %s failed: %v", shortURI(desc.URI), err)
		return Outcome{Err: fmt.Errorf("%w: %w", ErrProcessingFailed, err)}
	}

	c.logger.Printf("tinted %s with %s (%dx%d)", shortURI(desc.URI), col, res.Width, res.Height)
	return Outcome{Result: res}
}

// load calls the loader, converting a panic into an error.
func (c *Converter) load(desc Descriptor) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("loader panic: %v", r)
		}
	}()

	img, err = c.loader.Load(context.Background(), desc.URI, desc.Width, desc.Height)
	if err == nil && img == nil {
		err = errors.New("loader returned no image")
	}
	return img, err
}

// process rasterizes, tints and encodes a decoded image, converting a panic
// into an error.
func (c *Converter) process(desc Descriptor, img image.Image, col imaging.Color) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if b := img.Bounds(); b.Dx() != desc.Width || b.Dy() != desc.Height {
		c.logger.Printf("%s decoded as %dx%d, declared %dx%d", shortURI(desc.URI), b.Dx(), b.Dy(), desc.Width, desc.Height)
	}

	surface, err := imaging.Surface(img, desc.Width, desc.Height)
	if err != nil {
		return nil, err
	}

	tinted, err := imaging.Tint(surface, col)
	if err != nil {
		return nil, err
	}

	uri, err := c.encoder.Encode(tinted)
	if err != nil {
		return nil, err
	}

	return &Result{
		URI:      uri,
		Width:    desc.Width,
		Height:   desc.Height,
		MimeType: imaging.PNGMimeType,
	}, nil
}

// shortURI trims long URIs (typically data URIs) for log lines.
func shortURI(uri string) string {
	const max = 64
	if len(uri) <= max {
		return uri
	}
	return uri[:max] + "..."
}
