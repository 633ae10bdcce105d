// Package geometry converts field rectangles between the two coordinate
// systems the designer and signing surfaces speak: screen space (top-left
// origin, rendered pixels at the page's render scale) and document space
// (bottom-left origin, unscaled PDF points). Every other package converts
// through this one; nothing else is allowed to mix the two spaces.
package geometry

import (
	"image"
	"math"
)

// PageMetadata describes one rendered PDF page. It is computed once when a
// document is loaded and is immutable afterward.
type PageMetadata struct {
	PageIndex  int     `json:"page_index"`
	Width      float64 `json:"width"`  // rendered bitmap width in screen pixels
	Height     float64 `json:"height"` // rendered bitmap height in screen pixels
	Scale      float64 `json:"scale"`  // rendered size / native size
	BaseWidth  float64 `json:"base_width"`
	BaseHeight float64 `json:"base_height"`

	// Bitmap is the rendered page image. Owned by the caller; nil in
	// contexts that only need the dimensions.
	Bitmap image.Image `json:"-"`
}

// ScreenRect is a field rectangle in screen space, relative to the owning
// page bitmap's top-left corner.
type ScreenRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DocumentRect is a field rectangle in document space: 1-based page number,
// PDF points, bottom-left-origin Y.
type DocumentRect struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// ToDocumentRect projects a screen-space rectangle into document space.
// The vertical origin flips from top-left to bottom-left, so the document Y
// is measured from the page bottom to the rectangle's bottom edge. All
// outputs are rounded to 2 decimal places, matching the wire format.
func ToDocumentRect(r ScreenRect, meta PageMetadata) DocumentRect {
	return DocumentRect{
		Page: meta.PageIndex + 1,
		X:    Round2(r.X / meta.Scale),
		Y:    Round2(meta.BaseHeight - (r.Y+r.Height)/meta.Scale),
		W:    Round2(r.Width / meta.Scale),
		H:    Round2(r.Height / meta.Scale),
	}
}

// ToScreenRect is the exact inverse of ToDocumentRect at the same page
// metadata, up to the 2-decimal rounding applied on export.
func ToScreenRect(d DocumentRect, meta PageMetadata) ScreenRect {
	return ScreenRect{
		X:      d.X * meta.Scale,
		Y:      (meta.BaseHeight - d.Y - d.H) * meta.Scale,
		Width:  d.W * meta.Scale,
		Height: d.H * meta.Scale,
	}
}

// RenderScale computes the scale a page with the given native width renders
// at. Rendering never upsamples beyond maxScale and never exceeds the
// smaller of the configured display width and the viewport budget.
func RenderScale(baseWidth, maxDisplayWidth, viewportWidth, maxScale float64) float64 {
	limit := math.Min(maxDisplayWidth, viewportWidth)
	return math.Min(maxScale, limit/baseWidth)
}

// Clamp bounds v to [min, max]. When max < min (a page smaller than the
// rectangle being clamped) the lower bound wins.
func Clamp(v, min, max float64) float64 {
	if max < min {
		max = min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Round2 rounds to 2 decimal places, the precision document-space values
// carry on the wire.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
