package types

import "image"

// BoundingBox is the minimal rectangle enclosing all content pixels.
// Both ends are inclusive.
type BoundingBox struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

// Width returns the number of columns covered by the box
func (b BoundingBox) Width() int {
	return b.XMax - b.XMin + 1
}

// Height returns the number of rows covered by the box
func (b BoundingBox) Height() int {
	return b.YMax - b.YMin + 1
}

// Rect converts the box to a half-open image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.XMin, b.YMin, b.XMax+1, b.YMax+1)
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Area        int     `json:"area"`
}
