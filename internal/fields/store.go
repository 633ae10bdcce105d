package fields

import (
	"github.com/fieldcanvas/fieldcanvas/internal/geometry"
	"github.com/google/uuid"
)

// Store is one designer session's ordered working set of placed fields.
// Insertion order doubles as z-order: later fields draw on top. The store is
// not safe for concurrent use; the designer runs on a single logical thread
// of control.
type Store struct {
	fields []Field
}

// NewStore creates an empty field store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a field to the working set, assigning a fresh id when the
// field has none. The stored field is returned.
func (s *Store) Add(f Field) Field {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.fields = append(s.fields, f)
	return f
}

// Update merges a partial patch into the field with the given id. A missing
// id is a no-op, not an error: the UI may race an update against a removal.
func (s *Store) Update(id string, patch Patch) {
	for i := range s.fields {
		if s.fields[i].ID != id {
			continue
		}
		f := &s.fields[i]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Role != nil {
			f.Role = *patch.Role
		}
		if patch.Required != nil {
			f.Required = *patch.Required
		}
		if patch.Type != nil {
			f.Type = *patch.Type
		}
		if patch.SignerKey != nil {
			f.SignerKey = *patch.SignerKey
		}
		if patch.X != nil {
			f.X = *patch.X
		}
		if patch.Y != nil {
			f.Y = *patch.Y
		}
		if patch.Width != nil {
			f.Width = *patch.Width
		}
		if patch.Height != nil {
			f.Height = *patch.Height
		}
		return
	}
}

// Remove deletes the field with the given id; missing ids are a no-op.
func (s *Store) Remove(id string) {
	for i := range s.fields {
		if s.fields[i].ID == id {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			return
		}
	}
}

// Get returns the field with the given id.
func (s *Store) Get(id string) (Field, bool) {
	for _, f := range s.fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// List returns the fields in z-order. The returned slice is a copy; mutating
// it does not affect the store.
func (s *Store) List() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// ListByPage returns the fields anchored to the given page, in z-order.
func (s *Store) ListByPage(pageIndex int) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.PageIndex == pageIndex {
			out = append(out, f)
		}
	}
	return out
}

// Len reports the number of placed fields.
func (s *Store) Len() int {
	return len(s.fields)
}

// Clear drops every field. Called when a new document replaces the current
// one: field geometry is meaningless against new page dimensions.
func (s *Store) Clear() {
	s.fields = nil
}

// Export produces the document-space payload for every field whose page
// exists in the given page set. Fields referencing an absent page indicate
// stale client state and are silently dropped rather than failing the
// export.
func (s *Store) Export(pages []geometry.PageMetadata) []DocumentField {
	byIndex := make(map[int]geometry.PageMetadata, len(pages))
	for _, p := range pages {
		byIndex[p.PageIndex] = p
	}
	out := make([]DocumentField, 0, len(s.fields))
	for _, f := range s.fields {
		meta, ok := byIndex[f.PageIndex]
		if !ok {
			continue
		}
		out = append(out, f.Export(meta))
	}
	return out
}

// ReassignSigners repairs fields whose signer key no longer appears in the
// roster: they fall back to the first roster entry, or to "any signer" when
// the roster is empty. Fields are never left referencing a removed signer.
func (s *Store) ReassignSigners(roster []string) {
	known := make(map[string]bool, len(roster))
	for _, key := range roster {
		known[key] = true
	}
	for i := range s.fields {
		f := &s.fields[i]
		if f.SignerKey == "" || known[f.SignerKey] {
			continue
		}
		if len(roster) > 0 {
			f.SignerKey = roster[0]
		} else {
			f.SignerKey = ""
		}
	}
}
