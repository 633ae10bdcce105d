// Package signing renders placed fields over page bitmaps for a recipient:
// interactive controls while the signer fills values, static
// representations once values are read-only. Field geometry arrives in
// document space from the server and is only ever read; signer input lands
// in a separate value map.
package signing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
)

// Field types that are implicitly mandatory regardless of the required
// flag: a signing ceremony without a signature is meaningless.
const (
	typeSignature = "signature"
	typeInitials  = "initials"
	typeText      = "text"
	typeDate      = "date"
	typeCheckbox  = "checkbox"
)

// SessionField is a placed field as the signing session delivers it:
// document-space geometry (1-based page, bottom-left-origin y) plus the
// assignment attributes. Unknown types render as plain text inputs.
type SessionField struct {
	ID       int64   `json:"id"`
	Page     int     `json:"page"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Role     string  `json:"role,omitempty"`
	Required bool    `json:"required"`
	SignerID int64   `json:"signer_id,omitempty"`
}

// DocumentRect returns the field's document-space rectangle.
func (f SessionField) DocumentRect() geometry.DocumentRect {
	return geometry.DocumentRect{Page: f.Page, X: f.X, Y: f.Y, W: f.W, H: f.H}
}

// Signer is the current recipient's identity as the session reports it.
type Signer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Visible applies the field visibility rule: an explicit signer binding
// wins, then a role match, and a field carrying neither is shown to every
// signer. The fallback is deliberately permissive so role-only legacy
// assignments stay visible without a hard signer binding.
func Visible(f SessionField, s Signer) bool {
	if f.SignerID != 0 && s.ID != 0 {
		return f.SignerID == s.ID
	}
	if f.Role != "" && s.Role != "" {
		return f.Role == s.Role
	}
	return true
}

// FieldValue pairs a field with the signer-entered value. The value is
// polymorphic by field type: bool for checkbox, ISO date string for date,
// free text for text, base64 PNG for signature and initials.
type FieldValue struct {
	Field SessionField
	Value any
}

// CompletionValue is one entry of the completion payload sent to the
// complete-signing endpoint.
type CompletionValue struct {
	Type     string  `json:"type"`
	Page     int     `json:"page"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Value    any     `json:"value"`
	Required bool    `json:"required"`
}

// Surface is one signer's view of a signed document: the page bitmaps, the
// fields visible to that signer, and the value map they fill in.
type Surface struct {
	pages       map[int]geometry.PageMetadata // keyed by 1-based page number
	fields      []SessionField
	signer      Signer
	values      map[string]*FieldValue
	strokeWidth float64
}

// NewSurface builds a signing surface. Fields not visible to the signer are
// dropped up front; visible fields get type-appropriate default values
// (checkbox false, date today, everything else empty) without clobbering
// values the caller already holds.
func NewSurface(pages []geometry.PageMetadata, sessionFields []SessionField, signer Signer, strokeWidth float64) *Surface {
	s := &Surface{
		pages:       make(map[int]geometry.PageMetadata, len(pages)),
		signer:      signer,
		values:      make(map[string]*FieldValue),
		strokeWidth: strokeWidth,
	}
	for _, p := range pages {
		s.pages[p.PageIndex+1] = p
	}
	for _, f := range sessionFields {
		if !Visible(f, signer) {
			continue
		}
		s.fields = append(s.fields, f)
		key := fieldKey(f.ID)
		if _, ok := s.values[key]; !ok {
			s.values[key] = &FieldValue{Field: f, Value: defaultValue(f.Type, time.Now())}
		}
	}
	return s
}

func fieldKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// defaultValue hydrates the initial value for a field type.
func defaultValue(fieldType string, now time.Time) any {
	switch fieldType {
	case typeCheckbox:
		return false
	case typeDate:
		return now.Format("2006-01-02")
	default:
		return ""
	}
}

// Fields returns the fields visible to the current signer, in session
// order.
func (s *Surface) Fields() []SessionField {
	out := make([]SessionField, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldsOnPage returns the visible fields anchored to the given 1-based
// page number.
func (s *Surface) FieldsOnPage(page int) []SessionField {
	var out []SessionField
	for _, f := range s.fields {
		if f.Page == page {
			out = append(out, f)
		}
	}
	return out
}

// SetValue records the signer's input for a field. Unknown field ids are
// ignored: only visible fields accept values.
func (s *Surface) SetValue(fieldID int64, value any) {
	if fv, ok := s.values[fieldKey(fieldID)]; ok {
		fv.Value = value
	}
}

// Value returns the current value for a field.
func (s *Surface) Value(fieldID int64) (any, bool) {
	fv, ok := s.values[fieldKey(fieldID)]
	if !ok {
		return nil, false
	}
	return fv.Value, true
}

// valueMissing reports whether a value counts as absent for gating: an
// unchecked checkbox, or an empty string for every other type.
func valueMissing(fieldType string, value any) bool {
	if fieldType == typeCheckbox {
		b, ok := value.(bool)
		return !ok || !b
	}
	str, ok := value.(string)
	return !ok || str == ""
}

// blocksSubmission reports whether an empty value on this field holds up
// completion. Signature and initials fields block regardless of the
// required flag.
func blocksSubmission(f SessionField) bool {
	return f.Required || f.Type == typeSignature || f.Type == typeInitials
}

// MissingRequired lists the visible fields that still block submission.
// Empty means the signer may complete.
func (s *Surface) MissingRequired() []SessionField {
	var missing []SessionField
	for _, f := range s.fields {
		if !blocksSubmission(f) {
			continue
		}
		fv := s.values[fieldKey(f.ID)]
		if fv == nil || valueMissing(f.Type, fv.Value) {
			missing = append(missing, f)
		}
	}
	return missing
}

// CompletionPayload assembles the field-id-to-value mapping for the
// complete-signing endpoint.
func (s *Surface) CompletionPayload() map[string]CompletionValue {
	out := make(map[string]CompletionValue, len(s.values))
	for key, fv := range s.values {
		out[key] = CompletionValue{
			Type:     fv.Field.Type,
			Page:     fv.Field.Page,
			X:        fv.Field.X,
			Y:        fv.Field.Y,
			W:        fv.Field.W,
			H:        fv.Field.H,
			Value:    fv.Value,
			Required: fv.Field.Required,
		}
	}
	return out
}

// screenRect projects a field into screen space against its page.
func (s *Surface) screenRect(f SessionField) (geometry.ScreenRect, geometry.PageMetadata, error) {
	meta, ok := s.pages[f.Page]
	if !ok {
		return geometry.ScreenRect{}, geometry.PageMetadata{}, fmt.Errorf("field %d references unknown page %d", f.ID, f.Page)
	}
	return geometry.ToScreenRect(f.DocumentRect(), meta), meta, nil
}
