// Package drag is the pointer state machine behind the designer canvas. It
// translates raw pointer coordinates into field moves, resizes, and
// palette placements, clamping everything to the owning page's rendered
// bounds. Exactly one interaction is active at a time; pointer-down is only
// honored from the idle state.
package drag

import (
	"fmt"

	"github.com/fieldcanvas/fieldcanvas/internal/fields"
	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
)

// PageArea is where a rendered page sits in viewport coordinates, captured
// from the page container layout. Pointer coordinates arrive in the same
// viewport space.
type PageArea struct {
	Left float64
	Top  float64
	Meta geometry.PageMetadata
}

// Contains reports whether the viewport point lies inside the page's
// rendered bounds.
func (a PageArea) Contains(x, y float64) bool {
	return x >= a.Left && x <= a.Left+a.Meta.Width &&
		y >= a.Top && y <= a.Top+a.Meta.Height
}

// PaletteTool is the palette selection carried by a placement drag: the
// field type plus the signer it is pre-bound to.
type PaletteTool struct {
	Type       fields.FieldType
	SignerKey  string
	SignerName string
	Role       string
}

// Preview is the floating rectangle that follows the pointer during a
// palette drag. It is bound to no page until the drop lands on one.
type Preview struct {
	Type   fields.FieldType
	Label  string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type state int

const (
	stateIdle state = iota
	stateMove
	stateResize
	statePlacing
)

// dragInfo is the single in-progress drag descriptor. One slot, cleared
// atomically on pointer-up.
type dragInfo struct {
	fieldID       string
	area          PageArea
	offsetX       float64
	offsetY       float64
	startWidth    float64
	startHeight   float64
	startPointerX float64
	startPointerY float64

	tool    PaletteTool
	preview Preview
}

// Controller owns the drag state for one designer surface. It mutates field
// geometry through the store; nothing else writes geometry while a drag is
// active. Not safe for concurrent use.
type Controller struct {
	store       *fields.Store
	areas       map[int]PageArea
	defaultRole string

	state state
	drag  dragInfo
}

// NewController creates an idle controller over the given store.
func NewController(store *fields.Store, defaultRole string) *Controller {
	return &Controller{
		store:       store,
		areas:       make(map[int]PageArea),
		defaultRole: defaultRole,
	}
}

// SetPageAreas replaces the page layout registry. Called after a document
// loads or the page containers move.
func (c *Controller) SetPageAreas(areas []PageArea) {
	c.areas = make(map[int]PageArea, len(areas))
	for _, a := range areas {
		c.areas[a.Meta.PageIndex] = a
	}
}

// Dragging reports whether an interaction is in progress.
func (c *Controller) Dragging() bool {
	return c.state != stateIdle
}

// Preview returns the floating palette preview, when a placement drag is
// active.
func (c *Controller) Preview() (Preview, bool) {
	if c.state != statePlacing {
		return Preview{}, false
	}
	return c.drag.preview, true
}

// StartMove enters the move state for an existing field. It captures the
// offset between the pointer and the field origin plus the owning page's
// layout, so later moves clamp against the bounds as they were at
// drag-start. Ignored unless the controller is idle.
func (c *Controller) StartMove(fieldID string, pointerX, pointerY float64) bool {
	if c.state != stateIdle {
		return false
	}
	f, ok := c.store.Get(fieldID)
	if !ok {
		return false
	}
	area, ok := c.areas[f.PageIndex]
	if !ok {
		return false
	}
	c.state = stateMove
	c.drag = dragInfo{
		fieldID: fieldID,
		area:    area,
		offsetX: pointerX - area.Left - f.X,
		offsetY: pointerY - area.Top - f.Y,
	}
	return true
}

// StartResize enters the resize state for an existing field, capturing its
// starting size and the pointer's starting position. Ignored unless idle.
func (c *Controller) StartResize(fieldID string, pointerX, pointerY float64) bool {
	if c.state != stateIdle {
		return false
	}
	f, ok := c.store.Get(fieldID)
	if !ok {
		return false
	}
	area, ok := c.areas[f.PageIndex]
	if !ok {
		return false
	}
	c.state = stateResize
	c.drag = dragInfo{
		fieldID:       fieldID,
		area:          area,
		startWidth:    f.Width,
		startHeight:   f.Height,
		startPointerX: pointerX,
		startPointerY: pointerY,
	}
	return true
}

// StartPlacement enters the placing state for a palette tool. The preview
// follows the pointer; no field exists until the drop lands on a page.
// Ignored unless idle.
func (c *Controller) StartPlacement(tool PaletteTool, pointerX, pointerY float64) bool {
	if c.state != stateIdle {
		return false
	}
	w, h := tool.Type.DefaultSize()
	label := tool.Type.Label()
	if tool.SignerName != "" {
		label = tool.SignerName + " " + label
	}
	c.state = statePlacing
	c.drag = dragInfo{
		tool: tool,
		preview: Preview{
			Type:   tool.Type,
			Label:  label,
			X:      pointerX,
			Y:      pointerY,
			Width:  w,
			Height: h,
		},
	}
	return true
}

// PointerMove advances the active interaction. Moves and resizes apply
// directly to the store; there is no separate commit step. A move clamps the
// field inside its page regardless of pointer overshoot; a resize respects
// the minimum field size and the page's right and bottom edges.
func (c *Controller) PointerMove(pointerX, pointerY float64) {
	switch c.state {
	case stateIdle:
		return
	case statePlacing:
		c.drag.preview.X = pointerX
		c.drag.preview.Y = pointerY
		return
	}

	f, ok := c.store.Get(c.drag.fieldID)
	if !ok {
		// Field was removed mid-drag; nothing left to move.
		return
	}
	area := c.drag.area

	switch c.state {
	case stateMove:
		x := geometry.Clamp(pointerX-area.Left-c.drag.offsetX, 0, area.Meta.Width-f.Width)
		y := geometry.Clamp(pointerY-area.Top-c.drag.offsetY, 0, area.Meta.Height-f.Height)
		c.store.Update(f.ID, fields.Patch{X: &x, Y: &y})
	case stateResize:
		w := geometry.Clamp(c.drag.startWidth+(pointerX-c.drag.startPointerX), fields.MinSize, area.Meta.Width-f.X)
		h := geometry.Clamp(c.drag.startHeight+(pointerY-c.drag.startPointerY), fields.MinSize, area.Meta.Height-f.Y)
		c.store.Update(f.ID, fields.Patch{Width: &w, Height: &h})
	}
}

// PointerUp ends the active interaction. For moves and resizes the geometry
// at this instant is already committed, so this is pure state cleanup. For a
// placement drag, a drop over a known page creates the field there; a drop
// anywhere else abandons the drag cleanly.
func (c *Controller) PointerUp(pointerX, pointerY float64) (fields.Field, bool) {
	prev := c.state
	tool := c.drag.tool
	c.state = stateIdle
	c.drag = dragInfo{}

	if prev != statePlacing {
		return fields.Field{}, false
	}
	for _, area := range c.areas {
		if area.Contains(pointerX, pointerY) {
			return c.placeAt(tool, area.Meta, pointerX-area.Left, pointerY-area.Top), true
		}
	}
	return fields.Field{}, false
}

// Abort drops any in-progress interaction. Loading a new document while a
// drag is active is not a supported transition, so callers abort the drag
// first.
func (c *Controller) Abort() {
	c.state = stateIdle
	c.drag = dragInfo{}
}

// PlaceAt creates a field of the tool's type centered on a click position
// within the given page, clamped fully inside the page bounds. Used for
// click-to-place with an active palette tool; placement drags land here via
// PointerUp.
func (c *Controller) PlaceAt(tool PaletteTool, pageIndex int, clickX, clickY float64) (fields.Field, bool) {
	area, ok := c.areas[pageIndex]
	if !ok {
		return fields.Field{}, false
	}
	return c.placeAt(tool, area.Meta, clickX, clickY), true
}

func (c *Controller) placeAt(tool PaletteTool, meta geometry.PageMetadata, clickX, clickY float64) fields.Field {
	w, h := tool.Type.DefaultSize()

	name := nextFieldName(tool.Type, c.store.Len())
	if tool.SignerName != "" {
		name = tool.SignerName + " " + tool.Type.Label()
	}
	role := tool.Role
	if role == "" {
		role = c.defaultRole
	}

	return c.store.Add(fields.Field{
		PageIndex: meta.PageIndex,
		Type:      tool.Type,
		Name:      name,
		Role:      role,
		Required:  true,
		ScreenRect: geometry.ScreenRect{
			X:      geometry.Clamp(clickX-w/2, 0, meta.Width-w),
			Y:      geometry.Clamp(clickY-h/2, 0, meta.Height-h),
			Width:  w,
			Height: h,
		},
		SignerKey: tool.SignerKey,
	})
}

func nextFieldName(t fields.FieldType, existing int) string {
	return fmt.Sprintf("%s %d", t.Label(), existing+1)
}
