package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the backend API. Zero-value timeouts get a sensible
// default; the client holds no mutable state beyond the HTTP client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client against the given base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Projects lists the projects visible to the caller.
func (c *Client) Projects(ctx context.Context) ([]struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}, error) {
	var out []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := c.getJSON(ctx, "/api/projects", &out)
	return out, err
}

// Investors lists a project's signer roster.
func (c *Client) Investors(ctx context.Context, projectID int64) ([]ProjectInvestor, error) {
	var out []ProjectInvestor
	err := c.getJSON(ctx, fmt.Sprintf("/api/projects/%d/investors", projectID), &out)
	return out, err
}

// UploadDocument persists a PDF to a project. A failure is an UploadError:
// the locally rendered pages stay usable, only persistence failed.
func (c *Client) UploadDocument(ctx context.Context, projectID int64, filename string, data []byte) (*DocumentInfo, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/projects/%d/documents", c.baseURL, projectID), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UploadError{Detail: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &UploadError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	var doc DocumentInfo
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &doc, nil
}

// CreateEnvelope submits the field-placement plan.
func (c *Client) CreateEnvelope(ctx context.Context, req EnvelopeRequest) (*EnvelopeCreated, error) {
	var out EnvelopeCreated
	if err := c.postJSON(ctx, "/api/envelopes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEnvelope dispatches signing requests for a created envelope.
func (c *Client) SendEnvelope(ctx context.Context, envelopeID int64) error {
	return c.postJSON(ctx, fmt.Sprintf("/api/envelopes/%d/send", envelopeID), struct{}{}, nil)
}

// MagicLinks fetches the development signing links for an envelope.
func (c *Client) MagicLinks(ctx context.Context, envelopeID int64) ([]MagicLink, error) {
	var out struct {
		Links []MagicLink `json:"links"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/envelopes/%d/dev-magic-links", envelopeID), &out)
	return out.Links, err
}

// SigningSession loads the bundle behind a tokenized signing link.
func (c *Client) SigningSession(ctx context.Context, token string) (*SigningSession, error) {
	var out SigningSession
	if err := c.getJSON(ctx, "/api/sign/"+token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SigningPDF fetches the original document bytes for a signing session.
func (c *Client) SigningPDF(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/sign/"+token+"/pdf", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch signing PDF: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// AcceptConsent records the signer's consent to electronic records.
func (c *Client) AcceptConsent(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/api/sign/"+token+"/consent",
		map[string]bool{"accepted": true}, nil)
}

// SavePartial persists in-progress field values without completing.
func (c *Client) SavePartial(ctx context.Context, token string, values any) error {
	return c.postJSON(ctx, "/api/sign/"+token+"/save",
		map[string]any{"values": values}, nil)
}

// Complete submits the signer's values and returns the server's sealing
// outcome.
func (c *Client) Complete(ctx context.Context, token string, values any) (*CompleteResult, error) {
	var out CompleteResult
	if err := c.postJSON(ctx, "/api/sign/"+token+"/complete",
		map[string]any{"values": values}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, readDetail(resp.Body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST %s: HTTP %d: %s", path, resp.StatusCode, readDetail(resp.Body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readDetail extracts the backend's error detail, tolerating both plain
// strings and structured validation lists.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var structured struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &structured); err != nil || len(structured.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}
	var detail string
	if err := json.Unmarshal(structured.Detail, &detail); err == nil {
		return detail
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(structured.Detail, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				parts = append(parts, item.Msg)
			}
		}
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(string(structured.Detail))
}
