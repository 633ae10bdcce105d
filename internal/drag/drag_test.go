package drag

import (
	"testing"

	"github.com/fieldcanvas/fieldcanvas/internal/fields"
	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two letter pages stacked vertically with a 40px gap, page 0 starting at
// viewport (100, 50).
func testAreas() []PageArea {
	scale := 900.0 / 612.0
	meta := func(index int) geometry.PageMetadata {
		return geometry.PageMetadata{
			PageIndex:  index,
			Scale:      scale,
			BaseWidth:  612,
			BaseHeight: 792,
			Width:      612 * scale,
			Height:     792 * scale,
		}
	}
	first := meta(0)
	return []PageArea{
		{Left: 100, Top: 50, Meta: first},
		{Left: 100, Top: 50 + first.Height + 40, Meta: meta(1)},
	}
}

func newTestController() (*Controller, *fields.Store) {
	store := fields.NewStore()
	c := NewController(store, "Investor")
	c.SetPageAreas(testAreas())
	return c, store
}

func addField(store *fields.Store, page int, x, y, w, h float64) fields.Field {
	return store.Add(fields.Field{
		PageIndex:  page,
		Type:       fields.TypeSignature,
		Name:       "Signature 1",
		Role:       "Investor",
		Required:   true,
		ScreenRect: geometry.ScreenRect{X: x, Y: y, Width: w, Height: h},
	})
}

func TestMoveClampsToPage(t *testing.T) {
	c, store := newTestController()
	f := addField(store, 0, 200, 300, 240, 90)

	// Grab the field body 10px inside its origin.
	require.True(t, c.StartMove(f.ID, 100+210, 50+310))
	require.True(t, c.Dragging())

	// Drag far past the top-left corner: position pins at (0,0).
	c.PointerMove(-5000, -5000)
	got, _ := store.Get(f.ID)
	assert.Equal(t, 0.0, got.X)
	assert.Equal(t, 0.0, got.Y)

	// Drag far past the bottom-right corner: the field stays fully on page.
	c.PointerMove(1e6, 1e6)
	got, _ = store.Get(f.ID)
	area := testAreas()[0]
	assert.InDelta(t, area.Meta.Width-got.Width, got.X, 1e-9)
	assert.InDelta(t, area.Meta.Height-got.Height, got.Y, 1e-9)

	_, placed := c.PointerUp(0, 0)
	assert.False(t, placed)
	assert.False(t, c.Dragging())
}

func TestMoveTracksPointerOffset(t *testing.T) {
	c, store := newTestController()
	f := addField(store, 0, 200, 300, 240, 90)

	require.True(t, c.StartMove(f.ID, 100+220, 50+330))
	c.PointerMove(100+270, 50+340)

	got, _ := store.Get(f.ID)
	assert.InDelta(t, 250, got.X, 1e-9)
	assert.InDelta(t, 310, got.Y, 1e-9)
}

func TestResizeClamps(t *testing.T) {
	c, store := newTestController()
	f := addField(store, 0, 700, 1000, 100, 60)

	require.True(t, c.StartResize(f.ID, 500, 500))

	// Shrinking below 16px pins at the minimum.
	c.PointerMove(500-200, 500-200)
	got, _ := store.Get(f.ID)
	assert.Equal(t, fields.MinSize, got.Width)
	assert.Equal(t, fields.MinSize, got.Height)

	// Growing past the page edges clamps so x+width and y+height stay on
	// the page.
	c.PointerMove(500+5000, 500+5000)
	got, _ = store.Get(f.ID)
	area := testAreas()[0]
	assert.InDelta(t, area.Meta.Width-700, got.Width, 1e-9)
	assert.InDelta(t, area.Meta.Height-1000, got.Height, 1e-9)

	c.PointerUp(0, 0)
	assert.False(t, c.Dragging())
}

func TestSecondPointerDownIgnoredWhileDragging(t *testing.T) {
	c, store := newTestController()
	a := addField(store, 0, 10, 10, 100, 60)
	b := addField(store, 0, 400, 400, 100, 60)

	require.True(t, c.StartMove(a.ID, 100+20, 50+20))
	assert.False(t, c.StartMove(b.ID, 100+410, 50+410))
	assert.False(t, c.StartResize(b.ID, 0, 0))
	assert.False(t, c.StartPlacement(PaletteTool{Type: fields.TypeText}, 0, 0))
}

func TestPlacementDragCreatesFieldOnPage(t *testing.T) {
	c, store := newTestController()
	tool := PaletteTool{
		Type:       fields.TypeSignature,
		SignerKey:  "7",
		SignerName: "Alice Chen",
		Role:       "Investor",
	}

	require.True(t, c.StartPlacement(tool, 10, 10))
	c.PointerMove(300, 400)
	preview, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, 300.0, preview.X)
	assert.Equal(t, "Alice Chen Signature", preview.Label)
	assert.Equal(t, 240.0, preview.Width)

	// Drop inside page 0 at viewport (400, 500) -> page-local (300, 450).
	placed, ok := c.PointerUp(400, 500)
	require.True(t, ok)
	assert.Equal(t, 0, placed.PageIndex)
	assert.Equal(t, "Alice Chen Signature", placed.Name)
	assert.Equal(t, "7", placed.SignerKey)
	assert.True(t, placed.Required)
	// Centered on the drop point.
	assert.InDelta(t, 300-120, placed.X, 1e-9)
	assert.InDelta(t, 450-45, placed.Y, 1e-9)
	assert.Equal(t, 1, store.Len())
}

func TestPlacementDropOutsidePagesIsAbandoned(t *testing.T) {
	c, store := newTestController()
	require.True(t, c.StartPlacement(PaletteTool{Type: fields.TypeDate}, 10, 10))

	// The gap between the two pages belongs to no page.
	gapY := 50 + testAreas()[0].Meta.Height + 10
	_, ok := c.PointerUp(400, gapY)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
	assert.False(t, c.Dragging())
}

func TestPlaceAtClampsAndNames(t *testing.T) {
	c, store := newTestController()

	f, ok := c.PlaceAt(PaletteTool{Type: fields.TypeSignature}, 0, 100, 100)
	require.True(t, ok)
	assert.Equal(t, 0.0, f.X) // 100-120 clamps to the left edge
	assert.Equal(t, 55.0, f.Y)
	assert.Equal(t, "Signature 1", f.Name)
	assert.Equal(t, "Investor", f.Role)

	g, ok := c.PlaceAt(PaletteTool{Type: fields.TypeText}, 0, 300, 300)
	require.True(t, ok)
	assert.Equal(t, "Text 2", g.Name)

	_, ok = c.PlaceAt(PaletteTool{Type: fields.TypeText}, 9, 10, 10)
	assert.False(t, ok)
	assert.Equal(t, 2, store.Len())
}

func TestAbortDropsActiveDrag(t *testing.T) {
	c, store := newTestController()
	f := addField(store, 0, 200, 300, 240, 90)

	require.True(t, c.StartMove(f.ID, 100+210, 50+310))
	c.Abort()
	assert.False(t, c.Dragging())

	// Geometry applied before the abort stays committed.
	got, _ := store.Get(f.ID)
	assert.Equal(t, 200.0, got.X)
}
