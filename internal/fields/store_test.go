package fields

import (
	"testing"

	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage(index int) geometry.PageMetadata {
	scale := 900.0 / 612.0
	return geometry.PageMetadata{
		PageIndex:  index,
		Scale:      scale,
		BaseWidth:  612,
		BaseHeight: 792,
		Width:      612 * scale,
		Height:     792 * scale,
	}
}

func signatureAt(page int, x, y float64) Field {
	return Field{
		PageIndex:  page,
		Type:       TypeSignature,
		Name:       "Signature 1",
		Role:       "Investor",
		Required:   true,
		ScreenRect: geometry.ScreenRect{X: x, Y: y, Width: 240, Height: 90},
	}
}

func TestStoreAddAssignsID(t *testing.T) {
	s := NewStore()
	f := s.Add(signatureAt(0, 10, 20))
	assert.NotEmpty(t, f.ID)

	g := s.Add(signatureAt(0, 30, 40))
	assert.NotEqual(t, f.ID, g.ID)
	assert.Equal(t, 2, s.Len())

	// Explicit ids survive.
	h := s.Add(Field{ID: "fixed", Type: TypeText})
	assert.Equal(t, "fixed", h.ID)
}

func TestStoreUpdateMergesPatch(t *testing.T) {
	s := NewStore()
	f := s.Add(signatureAt(0, 10, 20))

	name := "Alice signature"
	x := 55.0
	required := false
	s.Update(f.ID, Patch{Name: &name, X: &x, Required: &required})

	got, ok := s.Get(f.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice signature", got.Name)
	assert.Equal(t, 55.0, got.X)
	assert.False(t, got.Required)
	// Untouched members keep their values.
	assert.Equal(t, 20.0, got.Y)
	assert.Equal(t, TypeSignature, got.Type)
}

func TestStoreUpdateMissingIDIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(signatureAt(0, 10, 20))

	name := "ghost"
	s.Update("no-such-id", Patch{Name: &name})
	assert.Equal(t, 1, s.Len())
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	a := s.Add(signatureAt(0, 10, 20))
	b := s.Add(signatureAt(0, 30, 40))

	s.Remove(a.ID)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(a.ID)
	assert.False(t, ok)

	s.Remove("no-such-id") // no-op
	assert.Equal(t, 1, s.Len())
	_, ok = s.Get(b.ID)
	assert.True(t, ok)
}

func TestStoreListByPagePreservesOrder(t *testing.T) {
	s := NewStore()
	first := s.Add(signatureAt(1, 10, 20))
	s.Add(signatureAt(0, 0, 0))
	second := s.Add(signatureAt(1, 30, 40))

	onPage := s.ListByPage(1)
	require.Len(t, onPage, 2)
	assert.Equal(t, first.ID, onPage[0].ID)
	assert.Equal(t, second.ID, onPage[1].ID)
}

func TestStoreExportDropsStalePages(t *testing.T) {
	s := NewStore()
	s.Add(signatureAt(0, 0, 55))
	s.Add(signatureAt(7, 10, 10)) // page 7 does not exist

	payload := s.Export([]geometry.PageMetadata{testPage(0)})
	require.Len(t, payload, 1)

	doc := payload[0]
	assert.Equal(t, 1, doc.Page)
	assert.Equal(t, 0.0, doc.X)
	assert.InDelta(t, 693.4, doc.Y, 0.01)
	assert.Equal(t, TypeSignature, doc.Type)
	assert.Equal(t, "Investor", doc.Role)
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Add(signatureAt(0, 0, 0))
	s.Add(signatureAt(1, 0, 0))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())
}

func TestReassignSigners(t *testing.T) {
	s := NewStore()
	bound := signatureAt(0, 0, 0)
	bound.SignerKey = "17"
	bound = s.Add(bound)

	loose := s.Add(signatureAt(0, 10, 10)) // no signer key

	s.ReassignSigners([]string{"4", "9"})
	got, _ := s.Get(bound.ID)
	assert.Equal(t, "4", got.SignerKey)

	got, _ = s.Get(loose.ID)
	assert.Empty(t, got.SignerKey)

	// Roster still containing the key leaves the binding alone.
	kept := signatureAt(0, 20, 20)
	kept.SignerKey = "9"
	kept = s.Add(kept)
	s.ReassignSigners([]string{"4", "9"})
	got, _ = s.Get(kept.ID)
	assert.Equal(t, "9", got.SignerKey)

	// Empty roster clears dangling keys.
	s.ReassignSigners(nil)
	got, _ = s.Get(kept.ID)
	assert.Empty(t, got.SignerKey)
}

func TestFieldTypeDefaults(t *testing.T) {
	for _, tt := range []struct {
		fieldType FieldType
		width     float64
		height    float64
		label     string
	}{
		{TypeSignature, 240, 90, "Signature"},
		{TypeText, 200, 36, "Text"},
		{TypeDate, 140, 32, "Date"},
		{TypeCheckbox, 24, 24, "Checkbox"},
	} {
		w, h := tt.fieldType.DefaultSize()
		assert.Equal(t, tt.width, w)
		assert.Equal(t, tt.height, h)
		assert.Equal(t, tt.label, tt.fieldType.Label())
		assert.True(t, tt.fieldType.Valid())
	}
	assert.False(t, FieldType("stamp").Valid())
}
