// Package raster turns raw PDF bytes into per-page preview bitmaps plus the
// geometry metadata the designer and signing surfaces position fields
// against. Parsing is delegated to pdfcpu (structure, page dimensions) and
// ledongthuc/pdf (text content for the preview paint).
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderError reports a failed document load: malformed bytes, a page that
// would not render, or an unusable drawing surface. A RenderError aborts the
// whole load; callers never see a partially populated page list.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Document is the result of rasterizing one PDF: every page in document
// order, each carrying its bitmap and scale metadata.
type Document struct {
	Pages []geometry.PageMetadata
}

// Rasterizer renders PDF documents at a display budget. Safe to reuse across
// documents; it holds no per-document state.
type Rasterizer struct {
	maxFileSize     int64
	maxDisplayWidth float64
	maxScale        float64
}

// NewRasterizer creates a rasterizer with the given file size and display
// constraints.
func NewRasterizer(maxFileSize int64, maxDisplayWidth, maxScale float64) *Rasterizer {
	return &Rasterizer{
		maxFileSize:     maxFileSize,
		maxDisplayWidth: maxDisplayWidth,
		maxScale:        maxScale,
	}
}

// LoadDocument parses and renders every page of the given PDF. Pages come
// back in strictly increasing page-index order; any page failure aborts the
// load with a RenderError so field placement is never left pointing at a
// partial page set.
func (r *Rasterizer) LoadDocument(data []byte, viewportWidth float64) (*Document, error) {
	if len(data) == 0 {
		return nil, &RenderError{Stage: "parse", Err: fmt.Errorf("empty document")}
	}
	if r.maxFileSize > 0 && int64(len(data)) > r.maxFileSize {
		return nil, &RenderError{
			Stage: "parse",
			Err:   fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize),
		}
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &RenderError{Stage: "parse", Err: fmt.Errorf("failed to read PDF: %w", err)}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &RenderError{Stage: "parse", Err: fmt.Errorf("failed to resolve page count: %w", err)}
	}

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &RenderError{Stage: "parse", Err: fmt.Errorf("failed to read page dimensions: %w", err)}
	}
	if len(dims) == 0 {
		return nil, &RenderError{Stage: "parse", Err: fmt.Errorf("no pages found in PDF")}
	}

	pageTexts := extractPageTexts(data, len(dims))

	doc := &Document{Pages: make([]geometry.PageMetadata, 0, len(dims))}
	for i, dim := range dims {
		if dim.Width <= 0 || dim.Height <= 0 {
			return nil, &RenderError{
				Stage: fmt.Sprintf("page %d", i+1),
				Err:   fmt.Errorf("invalid page size %.2fx%.2f", dim.Width, dim.Height),
			}
		}
		scale := geometry.RenderScale(dim.Width, r.maxDisplayWidth, viewportWidth, r.maxScale)
		meta := geometry.PageMetadata{
			PageIndex:  i,
			Scale:      scale,
			BaseWidth:  dim.Width,
			BaseHeight: dim.Height,
			Width:      dim.Width * scale,
			Height:     dim.Height * scale,
		}
		bitmap, err := renderPage(meta, pageTexts[i])
		if err != nil {
			return nil, &RenderError{Stage: fmt.Sprintf("page %d", i+1), Err: err}
		}
		meta.Bitmap = bitmap
		doc.Pages = append(doc.Pages, meta)
	}
	return doc, nil
}

// extractPageTexts pulls plain text per page for the preview paint. Text
// extraction is best effort: a page that yields no text still renders as a
// blank page.
func extractPageTexts(data []byte, pageCount int) []string {
	texts := make([]string, pageCount)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return texts
	}
	for pageNum := 1; pageNum <= pageCount && pageNum <= reader.NumPage(); pageNum++ {
		func() {
			defer func() {
				// ledongthuc panics on some malformed content streams.
				_ = recover()
			}()
			page := reader.Page(pageNum)
			if page.V.IsNull() {
				return
			}
			content, err := page.GetPlainText(nil)
			if err != nil {
				return
			}
			texts[pageNum-1] = content
		}()
	}
	return texts
}

var (
	pageBackground = color.White
	pageBorder     = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	pageInk        = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// renderPage paints one page bitmap: white background, a hairline border,
// and the page's extracted text flowed at a fixed line height.
func renderPage(meta geometry.PageMetadata, text string) (image.Image, error) {
	w := int(meta.Width + 0.5)
	h := int(meta.Height + 0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("degenerate bitmap %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(pageBackground), image.Point{}, draw.Src)
	drawBorder(img)

	if text != "" {
		drawText(img, text)
	}
	return img, nil
}

func drawBorder(img *image.RGBA) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.Set(x, b.Min.Y, pageBorder)
		img.Set(x, b.Max.Y-1, pageBorder)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.Set(b.Min.X, y, pageBorder)
		img.Set(b.Max.X-1, y, pageBorder)
	}
}

func drawText(img *image.RGBA, text string) {
	const (
		margin     = 24
		lineHeight = 16
	)
	face := basicfont.Face7x13
	maxWidth := img.Bounds().Dx() - 2*margin
	if maxWidth <= 0 {
		return
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(pageInk),
		Face: face,
	}

	y := margin + face.Ascent
	for _, line := range wrapLines(text, maxWidth/face.Advance) {
		if y >= img.Bounds().Dy()-margin {
			break
		}
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(line)
		y += lineHeight
	}
}

// wrapLines splits text into display lines of at most maxChars characters,
// breaking on whitespace where possible.
func wrapLines(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		words := strings.Fields(raw)
		current := ""
		for _, word := range words {
			for len(word) > maxChars {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, word[:maxChars])
				word = word[maxChars:]
			}
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= maxChars:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}
