// Package api is the thin typed client for the backend the designer and
// signing surfaces talk to: document upload, envelope creation and
// dispatch, and the tokenized signing session endpoints. The client only
// moves the §6 boundary shapes; all placement and validation logic lives in
// the designer packages.
package api

import (
	"fmt"

	"github.com/fieldcanvas/fieldcanvas/internal/fields"
	"github.com/fieldcanvas/fieldcanvas/internal/signing"
)

// UploadError reports a failed document upload. Locally rendered pages stay
// usable for design; only persistence failed.
type UploadError struct {
	Status int
	Detail string
}

func (e *UploadError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upload failed (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("upload failed (%d)", e.Status)
}

// DocumentInfo identifies a document persisted to a project.
type DocumentInfo struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// ProjectInvestor is one roster entry of a project.
type ProjectInvestor struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	RoutingOrder  int     `json:"routing_order"`
	UnitsInvested float64 `json:"units_invested"`
}

// EnvelopeSigner is one recipient of an envelope create request.
type EnvelopeSigner struct {
	ClientID          string `json:"client_id"`
	ProjectInvestorID int64  `json:"project_investor_id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	RoutingOrder      int    `json:"routing_order"`
}

// EnvelopeRequest is the envelope-creation payload: the field-placement
// plan plus the signers it references.
type EnvelopeRequest struct {
	ProjectID  int64                  `json:"project_id"`
	DocumentID int64                  `json:"document_id"`
	Subject    string                 `json:"subject"`
	Message    string                 `json:"message"`
	Signers    []EnvelopeSigner       `json:"signers"`
	Fields     []fields.DocumentField `json:"fields"`
}

// EnvelopeCreated is the server's answer to envelope creation.
type EnvelopeCreated struct {
	ID int64 `json:"id"`
}

// MagicLink is a development-only signing link for one signer.
type MagicLink struct {
	Signer signing.Signer `json:"signer"`
	Link   string         `json:"link"`
}

// SigningSession is the server bundle behind a tokenized signing link:
// fields already in document space plus the current signer's identity.
type SigningSession struct {
	Envelope struct {
		ID      int64  `json:"id"`
		Subject string `json:"subject"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"envelope"`
	Signer signing.Signer         `json:"signer"`
	Fields []signing.SessionField `json:"fields"`
}

// CompleteResult is the server's answer after a signer completes. The
// client renders it; it never computes sealing state itself.
type CompleteResult struct {
	Status      string `json:"status,omitempty"`
	Sealed      bool   `json:"sealed,omitempty"`
	WaitingOn   *int   `json:"waiting_on,omitempty"`
	SHA256Final string `json:"sha256_final,omitempty"`
}

// Summary renders the completion outcome as a user-facing message.
func (r CompleteResult) Summary() string {
	switch {
	case r.Sealed && r.SHA256Final != "":
		return fmt.Sprintf("All signers complete. Final SHA256: %s", r.SHA256Final)
	case r.Status == "waiting":
		if r.WaitingOn != nil {
			return fmt.Sprintf("Thanks! Waiting on %d signer(s) before sealing.", *r.WaitingOn)
		}
		return "Thanks! Waiting on other signers before sealing."
	case r.SHA256Final != "":
		return fmt.Sprintf("Document sealed. SHA256: %s", r.SHA256Final)
	default:
		return "Completion recorded. The final packet is emailed once all signers finish."
	}
}
