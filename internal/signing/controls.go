package signing

import (
	"fmt"

	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
	"github.com/fieldcanvas/fieldcanvas/internal/signature"
)

// ControlKind selects the interactive control a field renders as in edit
// mode.
type ControlKind int

const (
	ControlText ControlKind = iota
	ControlDate
	ControlCheckbox
	ControlSignature
)

// controlKind maps a field type to its control. The four designer types are
// handled exhaustively; initials share the signature pad, and anything else
// the server sends degrades to a text input.
func controlKind(fieldType string) ControlKind {
	switch fieldType {
	case typeSignature, typeInitials:
		return ControlSignature
	case typeCheckbox:
		return ControlCheckbox
	case typeDate:
		return ControlDate
	case typeText:
		return ControlText
	default:
		return ControlText
	}
}

// Control is one interactive overlay element in edit mode: the field, where
// it sits in screen space, its current value, and (for signature kinds)
// the capture pad already wired back into the surface's value map.
type Control struct {
	Field SessionField
	Kind  ControlKind
	Rect  geometry.ScreenRect
	Value any

	// Pad is non-nil for signature controls. Its OnChange feeds the
	// surface's value map; a stored value has already been rehydrated onto
	// it.
	Pad *signature.Pad

	// OnChange records a new value for the field. The surface never
	// writes field geometry through this path, values only.
	OnChange func(value any)
}

// Controls builds the edit-mode overlay: one control per visible field,
// positioned over its page bitmap. Fields referencing a page outside the
// rendered set indicate stale state and are skipped.
func (s *Surface) Controls() ([]Control, error) {
	controls := make([]Control, 0, len(s.fields))
	for _, f := range s.fields {
		rect, _, err := s.screenRect(f)
		if err != nil {
			// Stale geometry is dropped, not fatal.
			continue
		}
		field := f
		ctrl := Control{
			Field:    field,
			Kind:     controlKind(f.Type),
			Rect:     rect,
			OnChange: func(value any) { s.SetValue(field.ID, value) },
		}
		if v, ok := s.Value(f.ID); ok {
			ctrl.Value = v
		}

		if ctrl.Kind == ControlSignature {
			pad, err := signature.NewPad(int(rect.Width+0.5), int(rect.Height+0.5), s.strokeWidth)
			if err != nil {
				return nil, fmt.Errorf("signature pad for field %d: %w", f.ID, err)
			}
			if encoded, ok := ctrl.Value.(string); ok && encoded != "" {
				if err := pad.SetValue(encoded); err != nil {
					return nil, fmt.Errorf("rehydrate signature for field %d: %w", f.ID, err)
				}
			}
			pad.OnChange = func(encoded string) {
				if encoded == "" {
					s.SetValue(field.ID, "")
					return
				}
				s.SetValue(field.ID, encoded)
			}
			ctrl.Pad = pad
		}
		controls = append(controls, ctrl)
	}
	return controls, nil
}
