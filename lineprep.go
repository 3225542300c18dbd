// Package lineprep prepares text-line images for recognition model training.
//
// Basic usage:
//
//	package main
//
//	import (
//		"errors"
//		"log"
//
//		"github.com/menta2k/lineprep"
//		"github.com/menta2k/lineprep/pkg/cropper"
//	)
//
//	func main() {
//		prep := lineprep.New()
//
//		// Trim the scan to its ink
//		if _, err := prep.CropAndPad("line.png", "line_cropped.png"); err != nil {
//			if errors.Is(err, cropper.ErrBlankImage) {
//				log.Print("skipping blank line")
//				return
//			}
//			log.Fatal(err)
//		}
//
//		// Place it on the 1500x175 training canvas with random shrink
//		result, err := prep.NormalizeFile("line_cropped.png", "line_canvas.png", true)
//		if err != nil {
//			log.Fatal(err)
//		}
//		if result.TooLarge() {
//			log.Printf("line is %dx%d, too large for the canvas", result.SourceWidth, result.SourceHeight)
//		}
//	}
//
// The package consists of three main components:
//
// 1. Image I/O (pkg/imageio): decoding and encoding by file extension
// 2. Cropper (pkg/cropper): crops an image to the bounding box of its non-white pixels
// 3. Canvas (pkg/canvas): centers an image on a fixed-size white canvas, with
// optional random shrinking for data augmentation
//
// The cropper and the canvas normalizer are independent; neither calls the
// other.
package lineprep

import (
	"fmt"
	"image"

	"github.com/menta2k/lineprep/pkg/canvas"
	"github.com/menta2k/lineprep/pkg/cropper"
	"github.com/menta2k/lineprep/pkg/imageio"
	"github.com/menta2k/lineprep/pkg/types"
)

// Version of the lineprep library
const Version = "1.0.0"

// Preprocessor provides a high-level interface for cropping and normalization
type Preprocessor struct {
	cropper    *cropper.ContentCropper
	normalizer *canvas.Normalizer
	quality    int
}

// New creates a new Preprocessor with default configuration
func New() *Preprocessor {
	return &Preprocessor{
		cropper:    cropper.New(),
		normalizer: canvas.New(),
		quality:    imageio.DefaultQuality,
	}
}

// NewWithConfig creates a new Preprocessor with custom configuration
func NewWithConfig(cropConfig cropper.CropConfig, canvasConfig canvas.Config, opts ...canvas.Option) *Preprocessor {
	return &Preprocessor{
		cropper:    cropper.NewWithConfig(cropConfig),
		normalizer: canvas.NewWithConfig(canvasConfig, opts...),
		quality:    cropConfig.OutputQuality,
	}
}

// LoadImage loads an image from file
func (p *Preprocessor) LoadImage(path string) (image.Image, error) {
	return imageio.Load(path)
}

// SaveImage saves an image to file, choosing the format by extension
func (p *Preprocessor) SaveImage(img image.Image, path string) error {
	return imageio.Save(img, path, p.quality)
}

// GetImageInfo returns basic information about an image
func (p *Preprocessor) GetImageInfo(img image.Image) types.ImageInfo {
	return imageio.Info(img)
}

// CropAndPad crops the image at inputPath to its content and writes it to
// outputPath
func (p *Preprocessor) CropAndPad(inputPath, outputPath string) (types.BoundingBox, error) {
	return p.cropper.CropAndPad(inputPath, outputPath)
}

// CropToContent crops an in-memory image to its content
func (p *Preprocessor) CropToContent(img image.Image) (*image.Gray, types.BoundingBox, error) {
	return p.cropper.CropToContent(img)
}

// Normalize places img on the canvas
func (p *Preprocessor) Normalize(img image.Image, augment bool) (canvas.Result, error) {
	return p.normalizer.Normalize(img, augment)
}

// NormalizeFile loads inputPath, places it on the canvas and writes the canvas
// to outputPath. An oversized input is reported through the result and
// nothing is written.
func (p *Preprocessor) NormalizeFile(inputPath, outputPath string, augment bool) (canvas.Result, error) {
	img, err := imageio.Load(inputPath)
	if err != nil {
		return canvas.Result{}, &cropper.DecodeError{Path: inputPath, Err: err}
	}

	result, err := p.normalizer.Normalize(img, augment)
	if err != nil {
		return canvas.Result{}, fmt.Errorf("normalization failed: %w", err)
	}
	if result.TooLarge() {
		return result, nil
	}

	if err := p.SaveImage(result.Canvas, outputPath); err != nil {
		return canvas.Result{}, fmt.Errorf("failed to save canvas: %w", err)
	}
	return result, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
