package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/raysh454/fraudeye/internal/model"
)

func TestScan_UnmarshalAcceptsUnderscoreID(t *testing.T) {
	var s model.Scan
	body := `{"_id":"abc123","contentSnippet":"x","resultLabel":"fake","credibilityScore":20,"createdAt":"2025-01-02T03:04:05Z"}`
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.ID != "abc123" {
		t.Errorf("expected id from _id, got %q", s.ID)
	}
	if s.ResultLabel != model.LabelFake || s.CredibilityScore != 20 {
		t.Errorf("unexpected scan: %+v", s)
	}
	if s.CreatedAt.Year() != 2025 {
		t.Errorf("createdAt not parsed: %v", s.CreatedAt)
	}
}

func TestScan_UnmarshalPrefersID(t *testing.T) {
	var s model.Scan
	if err := json.Unmarshal([]byte(`{"id":"a","_id":"b","contentSnippet":"x"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.ID != "a" {
		t.Errorf("expected id a, got %q", s.ID)
	}
}

func TestScan_Explanation(t *testing.T) {
	tests := []struct {
		name string
		meta string
		want string
	}{
		{"missing", "", "No explanation provided."},
		{"empty list", `{"explanation":[]}`, "No explanation provided."},
		{"not an object", `"nope"`, "No explanation provided."},
		{"lines", `{"explanation":["a","b"],"modelVersion":"v1"}`, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.Scan{}
			if tt.meta != "" {
				s.MLMeta = json.RawMessage(tt.meta)
			}
			if got := s.Explanation(); got != tt.want {
				t.Errorf("Explanation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateScanRequest_OmitsNilURL(t *testing.T) {
	b, err := json.Marshal(model.CreateScanRequest{ContentSnippet: "text", Source: model.SourceAutoscan})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `"url"`) {
		t.Errorf("url must be absent, got %s", b)
	}
	if strings.Contains(strings.ToLower(string(b)), "user") {
		t.Errorf("request must not carry identity, got %s", b)
	}
}

func TestComputeStats_CountsUnknownInTotalOnly(t *testing.T) {
	scans := []model.Scan{
		{ResultLabel: model.LabelFake},
		{ResultLabel: model.LabelFake},
		{ResultLabel: model.LabelReal},
		{ResultLabel: model.LabelUncertain},
		{ResultLabel: "satire"},
	}
	st := model.ComputeStats(scans)
	if st.Total != 5 || st.Fake != 2 || st.Real != 1 || st.Uncertain != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	other := st.Total - st.Fake - st.Real - st.Uncertain
	if other != 1 {
		t.Errorf("expected 1 unknown label, got %d", other)
	}
}

func TestAuthSession_SameIdentity(t *testing.T) {
	alice := &model.User{ID: "1", Name: "Alice"}
	alice2 := &model.User{ID: "1", Name: "Alice"}
	bob := &model.User{ID: "2", Name: "Bob"}

	if !(model.AuthSession{}).SameIdentity(model.AuthSession{}) {
		t.Error("two anonymous sessions should match")
	}
	if !(model.AuthSession{User: alice, Token: "a"}).SameIdentity(model.AuthSession{User: alice2, Token: "b"}) {
		t.Error("token change alone is not an identity change")
	}
	if (model.AuthSession{User: alice}).SameIdentity(model.AuthSession{User: bob}) {
		t.Error("different users must differ")
	}
	if (model.AuthSession{User: alice}).SameIdentity(model.AuthSession{}) {
		t.Error("user vs anonymous must differ")
	}
}
