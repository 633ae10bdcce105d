package signing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	overlayBorder = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
	overlayInk    = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
)

// RenderPage composites the completed values for one page onto a copy of
// its bitmap: plain text for text and date fields, a check glyph for
// checked checkboxes, the embedded signature image for signature kinds.
// The page bitmap itself is never mutated.
func (s *Surface) RenderPage(page int) (image.Image, error) {
	meta, ok := s.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %d", page)
	}
	if meta.Bitmap == nil {
		return nil, fmt.Errorf("page %d has no bitmap", page)
	}

	canvas := image.NewRGBA(meta.Bitmap.Bounds())
	draw.Draw(canvas, canvas.Bounds(), meta.Bitmap, meta.Bitmap.Bounds().Min, draw.Src)

	for _, f := range s.FieldsOnPage(page) {
		rect, _, err := s.screenRect(f)
		if err != nil {
			continue
		}
		value, _ := s.Value(f.ID)
		if err := drawValue(canvas, f, rect, value); err != nil {
			return nil, fmt.Errorf("render field %d: %w", f.ID, err)
		}
	}
	return canvas, nil
}

func drawValue(canvas *image.RGBA, f SessionField, rect geometry.ScreenRect, value any) error {
	bounds := image.Rect(
		int(rect.X+0.5),
		int(rect.Y+0.5),
		int(rect.X+rect.Width+0.5),
		int(rect.Y+rect.Height+0.5),
	).Intersect(canvas.Bounds())
	if bounds.Empty() {
		return nil
	}
	drawRectBorder(canvas, bounds)

	switch controlKind(f.Type) {
	case ControlCheckbox:
		if checked, ok := value.(bool); ok && checked {
			drawCheck(canvas, bounds)
		}
	case ControlSignature:
		encoded, ok := value.(string)
		if !ok || encoded == "" {
			return nil
		}
		return drawSignature(canvas, bounds, encoded)
	case ControlText, ControlDate:
		if text, ok := value.(string); ok && text != "" {
			drawLabel(canvas, bounds, text)
		}
	}
	return nil
}

func drawRectBorder(canvas *image.RGBA, r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		canvas.SetRGBA(x, r.Min.Y, overlayBorder)
		canvas.SetRGBA(x, r.Max.Y-1, overlayBorder)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		canvas.SetRGBA(r.Min.X, y, overlayBorder)
		canvas.SetRGBA(r.Max.X-1, y, overlayBorder)
	}
}

// drawCheck paints a check glyph as two line segments spanning the box.
func drawCheck(canvas *image.RGBA, r image.Rectangle) {
	w := r.Dx()
	h := r.Dy()
	drawLine(canvas, r.Min.X+w/5, r.Min.Y+h/2, r.Min.X+2*w/5, r.Min.Y+4*h/5)
	drawLine(canvas, r.Min.X+2*w/5, r.Min.Y+4*h/5, r.Min.X+4*w/5, r.Min.Y+h/5)
}

func drawLine(canvas *image.RGBA, x0, y0, x1, y1 int) {
	steps := abs(x1-x0) + abs(y1-y0)
	if steps == 0 {
		canvas.SetRGBA(x0, y0, overlayInk)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		canvas.SetRGBA(x, y, overlayInk)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func drawSignature(canvas *image.RGBA, r image.Rectangle, encoded string) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode signature payload: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode signature image: %w", err)
	}
	xdraw.ApproxBiLinear.Scale(canvas, r, img, img.Bounds(), xdraw.Over, nil)
	return nil
}

func drawLabel(canvas *image.RGBA, r image.Rectangle, text string) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(overlayInk),
		Face: face,
	}
	maxChars := (r.Dx() - 8) / face.Advance
	if maxChars < 1 {
		return
	}
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	drawer.Dot = fixed.P(r.Min.X+4, r.Min.Y+(r.Dy()+face.Ascent)/2)
	drawer.DrawString(text)
}
