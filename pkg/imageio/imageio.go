// Package imageio loads and stores raster images for the preparation tools.
//
// Decoding accepts every format registered with the image package: the
// imaging defaults (jpeg, png, gif, tiff, bmp) plus webp. Encoding picks the
// format from the output path's extension.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/lineprep/pkg/types"
)

// DefaultQuality is used for lossy encoders when no quality is given
const DefaultQuality = 95

// ErrUnsupportedFormat is returned when an output extension has no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load decodes the image stored at path
func Load(path string) (image.Image, error) {
	// imaging.Open covers the registered decoders and applies EXIF orientation
	img, openErr := imaging.Open(path, imaging.AutoOrientation(true))
	if openErr == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("failed to decode image %s: %w", path, openErr)
}

// Decode decodes an image from a reader
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	img, decodeErr := imaging.Decode(bytes.NewReader(data))
	if decodeErr == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("failed to decode image: %w", decodeErr)
}

// FormatFromPath returns the normalized format name for a file extension:
// one of jpg, png, gif, tif, bmp or webp.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "jpg", "jpeg":
		return "jpg", nil
	case "png", "gif", "bmp", "webp":
		return ext, nil
	case "tif", "tiff":
		return "tif", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in the given format. Quality applies to jpg and
// webp; zero means DefaultQuality.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}

	switch format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	case "jpg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case "png":
		return imaging.Encode(w, img, imaging.PNG)
	case "gif":
		return imaging.Encode(w, img, imaging.GIF)
	case "tif":
		return imaging.Encode(w, img, imaging.TIFF)
	case "bmp":
		return imaging.Encode(w, img, imaging.BMP)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Save encodes img by the extension of path and writes it, replacing any
// existing file. Nothing is written when encoding fails.
func Save(img image.Image, path string, quality int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format, quality); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// Info returns basic information about an image
func Info(img image.Image) types.ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := types.ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}
