package raster

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageDim struct {
	width  float64
	height float64
}

// buildPDF assembles a minimal but structurally valid PDF with one empty
// page per dimension entry. Offsets in the xref table are computed from the
// actual byte positions so the fixture never drifts out of sync.
func buildPDF(pages []pageDim) []byte {
	var buf strings.Builder
	offsets := []int{0} // object 0 is the free-list head

	write := func(s string) { buf.WriteString(s) }
	beginObj := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		write(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", num, body))
	}

	write("%PDF-1.4\n")
	beginObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	beginObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))

	for i, p := range pages {
		beginObj(3+i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> >>",
			p.width, p.height))
	}

	xrefPos := buf.Len()
	write(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	write("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		write(fmt.Sprintf("%010d 00000 n \n", off))
	}
	write(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets), xrefPos))
	return []byte(buf.String())
}

func TestLoadDocumentLetterPages(t *testing.T) {
	r := NewRasterizer(100*1024*1024, 900, 2)
	doc, err := r.LoadDocument(buildPDF([]pageDim{{612, 792}, {612, 792}}), 1280)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)

	for i, page := range doc.Pages {
		assert.Equal(t, i, page.PageIndex)
		assert.InDelta(t, 900.0/612.0, page.Scale, 1e-9)
		assert.InDelta(t, 900, page.Width, 0.001)
		assert.InDelta(t, 1164.71, page.Height, 0.01)
		assert.Equal(t, 612.0, page.BaseWidth)
		assert.Equal(t, 792.0, page.BaseHeight)

		require.NotNil(t, page.Bitmap)
		bounds := page.Bitmap.Bounds()
		assert.Equal(t, 900, bounds.Dx())
		assert.Equal(t, 1165, bounds.Dy())
	}
}

func TestLoadDocumentViewportBudget(t *testing.T) {
	r := NewRasterizer(0, 900, 2)

	doc, err := r.LoadDocument(buildPDF([]pageDim{{612, 792}}), 500)
	require.NoError(t, err)
	assert.InDelta(t, 500.0/612.0, doc.Pages[0].Scale, 1e-9)

	// A small page is never upsampled past 2x.
	doc, err = r.LoadDocument(buildPDF([]pageDim{{200, 300}}), 1280)
	require.NoError(t, err)
	assert.Equal(t, 2.0, doc.Pages[0].Scale)
	assert.InDelta(t, 400, doc.Pages[0].Width, 0.001)
}

func TestLoadDocumentRejectsMalformed(t *testing.T) {
	r := NewRasterizer(0, 900, 2)

	_, err := r.LoadDocument([]byte("not a pdf at all"), 1280)
	require.Error(t, err)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)

	_, err = r.LoadDocument(nil, 1280)
	assert.ErrorAs(t, err, &renderErr)
}

func TestLoadDocumentEnforcesMaxFileSize(t *testing.T) {
	data := buildPDF([]pageDim{{612, 792}})
	r := NewRasterizer(int64(len(data))-1, 900, 2)

	_, err := r.LoadDocument(data, 1280)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, renderErr.Error(), "too large")
}

func TestWrapLines(t *testing.T) {
	lines := wrapLines("alpha beta gamma delta", 11)
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, lines)

	lines = wrapLines("supercalifragilistic", 7)
	assert.Equal(t, []string{"superca", "lifragi", "listic"}, lines)

	assert.Equal(t, []string{"", "x"}, wrapLines("\nx", 10))
}
