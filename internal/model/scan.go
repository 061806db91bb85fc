package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Label is the verdict assigned to a scan by the scoring service.
type Label string

const (
	LabelFake      Label = "fake"
	LabelReal      Label = "real"
	LabelUncertain Label = "uncertain"
)

// Source tags where a scan was submitted from.
type Source string

const (
	SourceDashboard Source = "dashboard"
	SourceExtension Source = "extension"
	SourceAutoscan  Source = "autoscan"
)

// Scan is a single content-verification record. The backend assigns every
// field; clients only ever prepend new scans to their local lists and never
// edit one in place.
type Scan struct {
	// ID is the opaque server-assigned identifier.
	ID string `json:"id"`

	// URL is the optional address of the analyzed article.
	URL string `json:"url,omitempty"`

	// ContentSnippet is the text that was analyzed.
	ContentSnippet string `json:"contentSnippet"`

	// ResultLabel is one of fake, real or uncertain. Other values are kept as-is.
	ResultLabel Label `json:"resultLabel"`

	// CredibilityScore ranges 0-100, higher meaning more likely real.
	CredibilityScore int `json:"credibilityScore"`

	// Source records the submission origin.
	Source Source `json:"source,omitempty"`

	// MLMeta is the scoring service's explanation payload, passed through untouched.
	MLMeta json.RawMessage `json:"mlMeta,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts both "id" and the document-store style "_id".
func (s *Scan) UnmarshalJSON(data []byte) error {
	type plain Scan
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Scan(aux.plain)
	if s.ID == "" {
		s.ID = aux.MongoID
	}
	return nil
}

// DisplaySource falls back to dashboard for scans stored before sources were tracked.
func (s Scan) DisplaySource() Source {
	if s.Source == "" {
		return SourceDashboard
	}
	return s.Source
}

const noExplanation = "No explanation provided."

// Explanation joins mlMeta.explanation lines, or returns a placeholder when
// the payload carries none.
func (s Scan) Explanation() string {
	if len(s.MLMeta) == 0 {
		return noExplanation
	}
	var meta struct {
		Explanation []string `json:"explanation"`
	}
	if err := json.Unmarshal(s.MLMeta, &meta); err != nil || len(meta.Explanation) == 0 {
		return noExplanation
	}
	return strings.Join(meta.Explanation, "\n")
}

// CreateScanRequest is the body of POST /scans. It deliberately has no
// identity field: the backend derives the owner from the bearer token.
type CreateScanRequest struct {
	URL            *string `json:"url,omitempty"`
	ContentSnippet string  `json:"contentSnippet"`
	Source         Source  `json:"source"`
}

// ScanListResponse is the body of GET /scans.
type ScanListResponse struct {
	Scans []Scan `json:"scans"`
}

// ScanResponse is the body of POST /scans.
type ScanResponse struct {
	Scan Scan `json:"scan"`
}
