package lineprep

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/lineprep/pkg/canvas"
	"github.com/menta2k/lineprep/pkg/cropper"
)

// createTestImage creates a white image with a dark stroke in the middle
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{20, 20, 20, 255})
			} else {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}

	return img
}

func TestNew(t *testing.T) {
	prep := New()
	if prep == nil {
		t.Fatal("New() returned nil")
	}
	if prep.cropper == nil {
		t.Error("cropper component is nil")
	}
	if prep.normalizer == nil {
		t.Error("normalizer component is nil")
	}
}

func TestNewWithConfig(t *testing.T) {
	prep := NewWithConfig(cropper.CropConfig{OutputQuality: 80}, canvas.Compact)
	if prep.normalizer.Config() != canvas.Compact {
		t.Errorf("Expected compact canvas, got %+v", prep.normalizer.Config())
	}
	if prep.quality != 80 {
		t.Errorf("Expected quality 80, got %d", prep.quality)
	}
}

func TestCropThenNormalizeFiles(t *testing.T) {
	dir := t.TempDir()
	prep := New()

	in := filepath.Join(dir, "line.png")
	if err := prep.SaveImage(createTestImage(300, 90), in); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	cropped := filepath.Join(dir, "line_cropped.png")
	box, err := prep.CropAndPad(in, cropped)
	if err != nil {
		t.Fatalf("CropAndPad failed: %v", err)
	}
	if box.Width() != 99 || box.Height() != 29 {
		t.Errorf("Expected 99x29 box, got %dx%d", box.Width(), box.Height())
	}

	out := filepath.Join(dir, "line_canvas.png")
	result, err := prep.NormalizeFile(cropped, out, false)
	if err != nil {
		t.Fatalf("NormalizeFile failed: %v", err)
	}
	if result.TooLarge() {
		t.Fatal("Cropped line should fit the canvas")
	}

	img, err := prep.LoadImage(out)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	info := prep.GetImageInfo(img)
	if info.Width != canvas.DefaultWidth || info.Height != canvas.DefaultHeight {
		t.Errorf("Expected canvas size, got %dx%d", info.Width, info.Height)
	}
}

func TestNormalizeFileTooLarge(t *testing.T) {
	dir := t.TempDir()
	prep := New()

	in := filepath.Join(dir, "wide.png")
	if err := prep.SaveImage(createTestImage(1600, 40), in); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	out := filepath.Join(dir, "wide_canvas.png")
	result, err := prep.NormalizeFile(in, out, true)
	if err != nil {
		t.Fatalf("NormalizeFile failed: %v", err)
	}
	if !result.TooLarge() {
		t.Error("Expected too large outcome")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("Oversized input should not write a canvas")
	}
}

func TestNormalizeFileDecodeError(t *testing.T) {
	_, err := New().NormalizeFile(filepath.Join(t.TempDir(), "missing.png"), "out.png", false)
	var decodeErr *cropper.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("Expected DecodeError, got %v", err)
	}
}

func TestCropToContentBlank(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}
	if _, _, err := New().CropToContent(blank); !errors.Is(err, cropper.ErrBlankImage) {
		t.Errorf("Expected ErrBlankImage, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	result, err := New().Normalize(createTestImage(100, 50), false)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if result.Placement.Min != image.Pt(700, 62) {
		t.Errorf("Expected origin (700,62), got %v", result.Placement.Min)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("Expected %s, got %s", Version, GetVersion())
	}
}
