// Package signature records freehand pointer strokes onto a raster surface
// and serializes the result as a base64 PNG, the payload embedded into the
// completed signature field.
package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

var ink = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

// Pad is a fixed-size stroke recorder sized to a field's screen-space
// rectangle. Strokes accumulate on a transparent raster; every
// pointer-release serializes the whole surface and emits it through
// OnChange. The pad is not resizable; its rectangle is fixed when the
// signing page loads.
type Pad struct {
	canvas      *image.RGBA
	strokeWidth float64

	drawing bool
	lastX   float64
	lastY   float64

	// OnChange receives the serialized surface after each completed stroke
	// and the empty string after a clear.
	OnChange func(value string)
}

// NewPad creates a pad with the given pixel size and stroke width.
func NewPad(width, height int, strokeWidth float64) (*Pad, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid pad size %dx%d", width, height)
	}
	if strokeWidth <= 0 {
		strokeWidth = 4
	}
	return &Pad{
		canvas:      image.NewRGBA(image.Rect(0, 0, width, height)),
		strokeWidth: strokeWidth,
	}, nil
}

// SetValue redraws a previously captured signature onto the surface, scaled
// to the pad's size. Editing then continues on top of the prior strokes
// instead of starting blank.
func (p *Pad) SetValue(encoded string) error {
	if encoded == "" {
		p.wipe()
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode signature payload: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode signature image: %w", err)
	}
	p.wipe()
	xdraw.ApproxBiLinear.Scale(p.canvas, p.canvas.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return nil
}

// StrokeStart begins a stroke at the given pad-local point.
func (p *Pad) StrokeStart(x, y float64) {
	p.drawing = true
	p.lastX, p.lastY = x, y
	p.stampDot(x, y)
}

// StrokeTo extends the active stroke with a straight segment from the last
// sample to the given point. No-op when no stroke is active.
func (p *Pad) StrokeTo(x, y float64) {
	if !p.drawing {
		return
	}
	p.stampSegment(p.lastX, p.lastY, x, y)
	p.lastX, p.lastY = x, y
}

// StrokeEnd finishes the active stroke, serializes the surface, and emits
// the payload. Returns the payload for callers that poll instead of
// subscribing.
func (p *Pad) StrokeEnd() (string, error) {
	if !p.drawing {
		return "", nil
	}
	p.drawing = false
	encoded, err := p.Encode()
	if err != nil {
		return "", err
	}
	if p.OnChange != nil {
		p.OnChange(encoded)
	}
	return encoded, nil
}

// Clear wipes the surface and emits the empty value.
func (p *Pad) Clear() {
	p.drawing = false
	p.wipe()
	if p.OnChange != nil {
		p.OnChange("")
	}
}

// Image exposes the current surface for preview rendering.
func (p *Pad) Image() image.Image {
	return p.canvas
}

// Encode serializes the surface as a base64 PNG.
func (p *Pad) Encode() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.canvas); err != nil {
		return "", fmt.Errorf("encode signature image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (p *Pad) wipe() {
	for i := range p.canvas.Pix {
		p.canvas.Pix[i] = 0
	}
}

// stampSegment draws a straight line with rounded caps by stamping the
// round brush along the segment at sub-pixel steps.
func (p *Pad) stampSegment(x0, y0, x1, y1 float64) {
	dx, dy := x1-x0, y1-y0
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		p.stampDot(x1, y1)
		return
	}
	step := p.strokeWidth / 4
	if step < 0.5 {
		step = 0.5
	}
	for d := 0.0; d <= dist; d += step {
		t := d / dist
		p.stampDot(x0+dx*t, y0+dy*t)
	}
	p.stampDot(x1, y1)
}

func (p *Pad) stampDot(cx, cy float64) {
	r := p.strokeWidth / 2
	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	bounds := p.canvas.Bounds()
	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) <= r {
				p.canvas.SetRGBA(x, y, ink)
			}
		}
	}
}
