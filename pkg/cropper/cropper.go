// Package cropper trims text-line images to the bounding box of their
// non-white content.
package cropper

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/lineprep/pkg/imageio"
	"github.com/menta2k/lineprep/pkg/types"
)

// Background is the intensity treated as empty paper
const Background uint8 = 255

// ErrBlankImage is returned when an image has no pixel darker than Background
var ErrBlankImage = errors.New("input image is blank")

// DecodeError reports an input that could not be read or decoded as an image
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ContentCropper crops images to their content
type ContentCropper struct {
	config CropConfig
}

// CropConfig holds configuration for content cropping
type CropConfig struct {
	// OutputQuality is the jpg/webp quality of written crops, 0 for the default
	OutputQuality int
}

// New creates a new ContentCropper with default configuration
func New() *ContentCropper {
	return &ContentCropper{
		config: CropConfig{
			OutputQuality: imageio.DefaultQuality,
		},
	}
}

// NewWithConfig creates a new ContentCropper with custom configuration
func NewWithConfig(config CropConfig) *ContentCropper {
	return &ContentCropper{config: config}
}

// CropAndPad loads inputPath as grayscale, crops it to its content and writes
// the result to outputPath, replacing any existing file. Blank inputs fail
// with ErrBlankImage and unreadable ones with *DecodeError; in both cases no
// file is written.
func (c *ContentCropper) CropAndPad(inputPath, outputPath string) (types.BoundingBox, error) {
	img, err := imageio.Load(inputPath)
	if err != nil {
		return types.BoundingBox{}, &DecodeError{Path: inputPath, Err: err}
	}

	cropped, box, err := c.CropToContent(img)
	if err != nil {
		return types.BoundingBox{}, err
	}

	if err := imageio.Save(cropped, outputPath, c.config.OutputQuality); err != nil {
		return types.BoundingBox{}, fmt.Errorf("failed to save crop: %w", err)
	}
	return box, nil
}

// CropToContent converts img to grayscale and returns the grayscale image
// cropped to its content together with the bounding box.
func (c *ContentCropper) CropToContent(img image.Image) (*image.Gray, types.BoundingBox, error) {
	gray := ToGray(img)

	box, err := ContentBounds(gray)
	if err != nil {
		return nil, types.BoundingBox{}, err
	}
	return cropGray(gray, box), box, nil
}

// ToGray converts img to 8-bit luminance using the ITU-R 601-2 weights.
// Alpha is ignored, so a transparent white pixel stays white.
func ToGray(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	gray := image.NewGray(b)

	for y := 0; y < b.Dy(); y++ {
		si := y * src.Stride
		di := y * gray.Stride
		for x := 0; x < b.Dx(); x++ {
			r := uint32(src.Pix[si])
			g := uint32(src.Pix[si+1])
			bl := uint32(src.Pix[si+2])
			gray.Pix[di+x] = uint8((r*19595 + g*38470 + bl*7471 + 0x8000) >> 16)
			si += 4
		}
	}
	return gray
}

// ContentBounds returns the inclusive box around every pixel of gray that is
// not Background. Coordinates are relative to gray.Bounds().Min.
func ContentBounds(gray *image.Gray) (types.BoundingBox, error) {
	b := gray.Bounds()
	box := types.BoundingBox{XMin: b.Dx(), YMin: b.Dy(), XMax: -1, YMax: -1}

	for y := 0; y < b.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x, v := range row {
			if v == Background {
				continue
			}
			if x < box.XMin {
				box.XMin = x
			}
			if x > box.XMax {
				box.XMax = x
			}
			if y < box.YMin {
				box.YMin = y
			}
			box.YMax = y
		}
	}

	if box.XMax < 0 {
		return types.BoundingBox{}, ErrBlankImage
	}
	return box, nil
}

// cropGray copies the box out of gray into a new zero-origin image
func cropGray(gray *image.Gray, box types.BoundingBox) *image.Gray {
	w, h := box.Width(), box.Height()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		si := (box.YMin+y)*gray.Stride + box.XMin
		copy(out.Pix[y*out.Stride:y*out.Stride+w], gray.Pix[si:si+w])
	}
	return out
}
