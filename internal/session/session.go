// Package session owns one designer working set: the rasterized document,
// the placed fields, the drag controller over them, and the signer roster.
// It assembles the envelope-creation request once the design is complete.
package session

import (
	"fmt"

	"github.com/fieldcanvas/fieldcanvas/internal/api"
	"github.com/fieldcanvas/fieldcanvas/internal/drag"
	"github.com/fieldcanvas/fieldcanvas/internal/fields"
	"github.com/fieldcanvas/fieldcanvas/internal/raster"
)

// pageGap is the vertical spacing between stacked page containers, in
// screen pixels.
const pageGap = 24.0

// RosterEntry is one signer available in the designer's palette.
type RosterEntry struct {
	ProjectInvestorID int64
	Name              string
	Email             string
	Role              string
}

// Key is the signer key carried by placed fields and by the envelope's
// client_id. Both sides derive it the same way so they always agree.
func (r RosterEntry) Key() string {
	return fmt.Sprintf("investor-%d", r.ProjectInvestorID)
}

// PaletteTool builds a palette tool pre-bound to this signer.
func (r RosterEntry) PaletteTool(t fields.FieldType) drag.PaletteTool {
	return drag.PaletteTool{
		Type:       t,
		SignerKey:  r.Key(),
		SignerName: r.Name,
		Role:       r.Role,
	}
}

// ValidationError reports why an envelope cannot be built from the current
// working set.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	errNoProject     = ValidationError("select a project")
	errNoDocument    = ValidationError("upload a document")
	errNoFields      = ValidationError("place at least one field")
	errUnknownSigner = ValidationError("assign fields to a known signer")
)

// Designer is one designer session. Not safe for concurrent use.
type Designer struct {
	rasterizer *raster.Rasterizer
	store      *fields.Store
	drag       *drag.Controller

	doc        *raster.Document
	areas      []drag.PageArea
	projectID  int64
	documentID int64
	roster     []RosterEntry
}

// NewDesigner creates an empty designer session.
func NewDesigner(rasterizer *raster.Rasterizer, defaultRole string) *Designer {
	store := fields.NewStore()
	return &Designer{
		rasterizer: rasterizer,
		store:      store,
		drag:       drag.NewController(store, defaultRole),
	}
}

// Store exposes the field working set.
func (d *Designer) Store() *fields.Store { return d.store }

// Drag exposes the pointer controller.
func (d *Designer) Drag() *drag.Controller { return d.drag }

// Document returns the currently loaded document, or nil.
func (d *Designer) Document() *raster.Document { return d.doc }

// LoadDocument replaces the current document. Any active drag is aborted,
// placed fields are dropped (their geometry is meaningless against the new
// pages), and the page layout registry is rebuilt as a vertical stack.
func (d *Designer) LoadDocument(data []byte, viewportWidth float64) (*raster.Document, error) {
	doc, err := d.rasterizer.LoadDocument(data, viewportWidth)
	if err != nil {
		return nil, err
	}
	d.drag.Abort()
	d.store.Clear()
	d.doc = doc
	d.documentID = 0
	d.areas = d.layoutPages()
	d.drag.SetPageAreas(d.areas)
	return doc, nil
}

// PageArea returns the layout rectangle of the given page.
func (d *Designer) PageArea(pageIndex int) (drag.PageArea, bool) {
	for _, a := range d.areas {
		if a.Meta.PageIndex == pageIndex {
			return a, true
		}
	}
	return drag.PageArea{}, false
}

// layoutPages stacks pages vertically with a fixed gap, left-aligned.
func (d *Designer) layoutPages() []drag.PageArea {
	if d.doc == nil {
		return nil
	}
	areas := make([]drag.PageArea, 0, len(d.doc.Pages))
	top := 0.0
	for _, meta := range d.doc.Pages {
		areas = append(areas, drag.PageArea{Left: 0, Top: top, Meta: meta})
		top += meta.Height + pageGap
	}
	return areas
}

// SetProject records the project context for envelope creation.
func (d *Designer) SetProject(projectID int64) {
	d.projectID = projectID
}

// SetDocumentID records the persisted document's id after a successful
// upload.
func (d *Designer) SetDocumentID(documentID int64) {
	d.documentID = documentID
}

// SetRoster replaces the signer roster and repairs any field whose signer
// key no longer resolves.
func (d *Designer) SetRoster(roster []RosterEntry) {
	d.roster = append([]RosterEntry(nil), roster...)
	keys := make([]string, len(roster))
	for i, r := range roster {
		keys[i] = r.Key()
	}
	d.store.ReassignSigners(keys)
}

// Roster returns the current signer roster.
func (d *Designer) Roster() []RosterEntry {
	return append([]RosterEntry(nil), d.roster...)
}

// Export produces the document-space payload for the placed fields.
func (d *Designer) Export() []fields.DocumentField {
	if d.doc == nil {
		return nil
	}
	return d.store.Export(d.doc.Pages)
}

// BuildEnvelope assembles the envelope-creation request from the working
// set. Signers referenced by fields are included once each, in first
// reference order, with routing order following that order. When no field
// names a signer, the whole roster is included in roster order.
func (d *Designer) BuildEnvelope(subject, message string) (api.EnvelopeRequest, error) {
	if d.projectID == 0 {
		return api.EnvelopeRequest{}, errNoProject
	}
	if d.documentID == 0 {
		return api.EnvelopeRequest{}, errNoDocument
	}
	exported := d.Export()
	if len(exported) == 0 {
		return api.EnvelopeRequest{}, errNoFields
	}

	byKey := make(map[string]RosterEntry, len(d.roster))
	for _, r := range d.roster {
		byKey[r.Key()] = r
	}

	var chosen []RosterEntry
	seen := make(map[string]bool)
	for _, f := range exported {
		if f.SignerKey == "" || seen[f.SignerKey] {
			continue
		}
		entry, ok := byKey[f.SignerKey]
		if !ok {
			return api.EnvelopeRequest{}, errUnknownSigner
		}
		seen[f.SignerKey] = true
		chosen = append(chosen, entry)
	}
	if len(chosen) == 0 {
		chosen = d.roster
	}
	if len(chosen) == 0 {
		return api.EnvelopeRequest{}, errUnknownSigner
	}

	signers := make([]api.EnvelopeSigner, len(chosen))
	for i, entry := range chosen {
		signers[i] = api.EnvelopeSigner{
			ClientID:          entry.Key(),
			ProjectInvestorID: entry.ProjectInvestorID,
			Name:              entry.Name,
			Email:             entry.Email,
			Role:              entry.Role,
			RoutingOrder:      i + 1,
		}
	}

	return api.EnvelopeRequest{
		ProjectID:  d.projectID,
		DocumentID: d.documentID,
		Subject:    subject,
		Message:    message,
		Signers:    signers,
		Fields:     exported,
	}, nil
}
