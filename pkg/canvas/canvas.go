// Package canvas places text-line images on a fixed-size white canvas.
//
// A Normalizer centers an image that fits within the canvas and, when
// augmentation is requested, first shrinks it by a random factor half of the
// time. Inputs larger than the canvas are not resized; they produce a Result
// with OutcomeTooLarge so callers can filter them out.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Canvas geometry and augmentation constants
const (
	DefaultWidth  = 1500
	DefaultHeight = 175

	// MinScale is the lower bound of the augmentation scale factor
	MinScale = 0.8
	// FitFactor is applied to the whole number of times an image tiles the
	// canvas to get the upper bound of the scale factor
	FitFactor = 0.55
)

var (
	// Standard is the default 1500x175 canvas
	Standard = Config{Width: DefaultWidth, Height: DefaultHeight}
	// Compact is an 800x90 canvas for smaller recognition models
	Compact = Config{Width: 800, Height: 90}
)

var white = color.NRGBA{255, 255, 255, 255}

// ErrEmptyImage is returned for an input with no pixels
var ErrEmptyImage = errors.New("image has zero width or height")

// Config holds the canvas size
type Config struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Validate checks that the canvas has a positive size
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Rand is the source of randomness used for augmentation.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// globalRand draws from the math/rand/v2 top-level source, which is safe for
// concurrent use
type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Outcome tells whether an image was placed on the canvas
type Outcome int

const (
	// OutcomeFitted means the image was placed and Result.Canvas is set
	OutcomeFitted Outcome = iota
	// OutcomeTooLarge means the image exceeds the canvas; Result.Canvas is nil
	OutcomeTooLarge
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFitted:
		return "fitted"
	case OutcomeTooLarge:
		return "too_large"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of a Normalize call
type Result struct {
	Outcome Outcome
	// Canvas is the opaque white canvas with the image pasted on it
	Canvas *image.NRGBA
	// SourceWidth and SourceHeight are the input dimensions
	SourceWidth  int
	SourceHeight int
	// Placement is where the (possibly resized) image landed on the canvas
	Placement image.Rectangle
	// Scale is the resize factor, 1 when the image was not shrunk
	Scale  float64
	Shrunk bool
}

// TooLarge reports whether the input did not fit on the canvas
func (r Result) TooLarge() bool {
	return r.Outcome == OutcomeTooLarge
}

// Pix returns the canvas as a height x width x 4 RGBA byte array, or nil when
// the input was too large.
func (r Result) Pix() []uint8 {
	if r.Canvas == nil {
		return nil
	}
	return r.Canvas.Pix
}

// Normalizer places images on a fixed-size canvas
type Normalizer struct {
	config Config
	rand   Rand
	logger *zap.Logger
	filter imaging.ResampleFilter
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithRand sets the random source used for augmentation
func WithRand(r Rand) Option {
	return func(n *Normalizer) {
		n.rand = r
	}
}

// WithLogger sets the logger that receives the oversized-input diagnostic
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// WithFilter sets the resampling filter used when shrinking
func WithFilter(filter imaging.ResampleFilter) Option {
	return func(n *Normalizer) {
		n.filter = filter
	}
}

// New creates a Normalizer for the Standard canvas
func New(opts ...Option) *Normalizer {
	return NewWithConfig(Standard, opts...)
}

// NewWithConfig creates a Normalizer for a custom canvas size
func NewWithConfig(config Config, opts ...Option) *Normalizer {
	n := &Normalizer{
		config: config,
		rand:   globalRand{},
		logger: zap.NewNop(),
		filter: imaging.CatmullRom,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Config returns the canvas configuration
func (n *Normalizer) Config() Config {
	return n.config
}

// Normalize converts img to opaque RGB and centers it on a white canvas.
// With augment set, the image is shrunk by a random factor in ScaleRange
// before pasting, with probability 1/2. Images wider or taller than the
// canvas yield OutcomeTooLarge and a warning on the logger.
func (n *Normalizer) Normalize(img image.Image, augment bool) (Result, error) {
	if err := n.config.Validate(); err != nil {
		return Result{}, err
	}

	rgb := toRGB(img)
	w, h := rgb.Bounds().Dx(), rgb.Bounds().Dy()
	if w == 0 || h == 0 {
		return Result{}, ErrEmptyImage
	}

	result := Result{
		SourceWidth:  w,
		SourceHeight: h,
		Scale:        1,
	}

	if w > n.config.Width || h > n.config.Height {
		n.logger.Warn("image is too big for canvas",
			zap.Int("w", w),
			zap.Int("h", h),
			zap.Int("canvas_w", n.config.Width),
			zap.Int("canvas_h", n.config.Height))
		result.Outcome = OutcomeTooLarge
		return result, nil
	}

	background := imaging.New(n.config.Width, n.config.Height, white)

	if augment && n.rand.IntN(2) == 0 {
		lo, hi := n.ScaleRange(w, h)
		result.Scale = lo + (hi-lo)*n.rand.Float64()
		result.Shrunk = true

		w = max(1, int(float64(w)*result.Scale))
		h = max(1, int(float64(h)*result.Scale))
		rgb = imaging.Resize(rgb, w, h, n.filter)
	}

	pos := image.Pt(n.config.Width/2-w/2, n.config.Height/2-h/2)
	result.Placement = image.Rectangle{Min: pos, Max: pos.Add(image.Pt(w, h))}
	result.Canvas = imaging.Paste(background, rgb, pos)
	result.Outcome = OutcomeFitted
	return result, nil
}

// ScaleRange returns the bounds of the augmentation scale factor for a w x h
// image. The upper bound is FitFactor times the whole number of times the
// image fits the canvas along its tighter axis; when that is not above
// MinScale the range is [MinScale, 1].
func (n *Normalizer) ScaleRange(w, h int) (float64, float64) {
	a := FitFactor * float64(min(n.config.Width/w, n.config.Height/h))
	if a > MinScale {
		return MinScale, a
	}
	return MinScale, 1
}

// toRGB copies img into a zero-origin NRGBA image with alpha discarded
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

var filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// FilterByName returns the resampling filter for one of nearest, box,
// linear, catmullrom or lanczos
func FilterByName(name string) (imaging.ResampleFilter, error) {
	f, ok := filters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
	return f, nil
}
