// Package fields holds the designer's working set of placed fields and the
// document-space export applied when an envelope is submitted.
package fields

import (
	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
)

// MinSize is the smallest interactive field edge in screen pixels. Resize
// never shrinks below it and page placement never produces a smaller field.
const MinSize = 16.0

// FieldType identifies what a signer provides in a field. The set is closed:
// the renderer, the default-value initializer, and the exporter all switch
// exhaustively over these four values.
type FieldType string

const (
	TypeSignature FieldType = "signature"
	TypeText      FieldType = "text"
	TypeDate      FieldType = "date"
	TypeCheckbox  FieldType = "checkbox"
)

// Types lists every field type in palette order.
func Types() []FieldType {
	return []FieldType{TypeSignature, TypeText, TypeDate, TypeCheckbox}
}

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case TypeSignature, TypeText, TypeDate, TypeCheckbox:
		return true
	}
	return false
}

// Label returns the human display label for the type.
func (t FieldType) Label() string {
	switch t {
	case TypeSignature:
		return "Signature"
	case TypeText:
		return "Text"
	case TypeDate:
		return "Date"
	case TypeCheckbox:
		return "Checkbox"
	}
	return string(t)
}

// DefaultSize returns the screen-space size a freshly placed field of this
// type starts with.
func (t FieldType) DefaultSize() (width, height float64) {
	switch t {
	case TypeSignature:
		return 240, 90
	case TypeText:
		return 200, 36
	case TypeDate:
		return 140, 32
	case TypeCheckbox:
		return 24, 24
	}
	return 200, 36
}

// Field is one placeable element on one page. Geometry lives in screen
// space; the document-space projection exists only at export time.
type Field struct {
	ID        string    `json:"id"`
	PageIndex int       `json:"page_index"`
	Type      FieldType `json:"type"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Required  bool      `json:"required"`

	geometry.ScreenRect

	// SignerKey references a signer identity by opaque string key. Empty
	// means "any signer".
	SignerKey string `json:"signer_key,omitempty"`
}

// Patch is a partial field update. Nil members leave the current value
// untouched; a pointer to the zero value overwrites with it.
type Patch struct {
	Name      *string
	Role      *string
	Required  *bool
	Type      *FieldType
	SignerKey *string
	X         *float64
	Y         *float64
	Width     *float64
	Height    *float64
}

// DocumentField is the wire shape of a placed field: document-space
// geometry (1-based page, bottom-left-origin y, PDF points) plus the
// signer-facing attributes.
type DocumentField struct {
	Page      int       `json:"page"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	W         float64   `json:"w"`
	H         float64   `json:"h"`
	Type      FieldType `json:"type"`
	Required  bool      `json:"required"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	SignerKey string    `json:"signer_key,omitempty"`
}

// Export projects the field through the coordinate transformer for the
// given page.
func (f Field) Export(meta geometry.PageMetadata) DocumentField {
	rect := geometry.ToDocumentRect(f.ScreenRect, meta)
	return DocumentField{
		Page:      rect.Page,
		X:         rect.X,
		Y:         rect.Y,
		W:         rect.W,
		H:         rect.H,
		Type:      f.Type,
		Required:  f.Required,
		Role:      f.Role,
		Name:      f.Name,
		SignerKey: f.SignerKey,
	}
}
