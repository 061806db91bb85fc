package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/render"
)

func sampleScans() []model.Scan {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.Scan{
		{ID: "1", URL: "https://news.example/a", ContentSnippet: "Shocking | claim", ResultLabel: model.LabelFake, CredibilityScore: 20, Source: model.SourceExtension, CreatedAt: ts},
		{ID: "2", ContentSnippet: "According to the office", ResultLabel: model.LabelReal, CredibilityScore: 80, CreatedAt: ts},
		{ID: "3", ContentSnippet: strings.Repeat("word ", 40), ResultLabel: model.LabelUncertain, CredibilityScore: 50, Source: model.SourceAutoscan},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want render.Format
		err  bool
	}{
		{"", render.FormatText, false},
		{"text", render.FormatText, false},
		{"Markdown", render.FormatMarkdown, false},
		{"md", render.FormatMarkdown, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		got, err := render.ParseFormat(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if tt.err && !errors.Is(err, render.ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error should wrap ErrUnknownFormat", tt.in)
		}
	}
}

func TestTextHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := render.History(&buf, render.FormatText, sampleScans()); err != nil {
		t.Fatalf("History: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Total Scans", "(All time)", "Needs review",
		"latest 3 verifications",
		"https://news.example/a",
		"Extension", "Dashboard", "Autoscan",
		"20 / 100",
		"2025-",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("word ", 30)) {
		t.Error("long snippet should be clamped")
	}
}

func TestTextHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := render.History(&buf, render.FormatText, nil); err != nil {
		t.Fatalf("History: %v", err)
	}
	if !strings.Contains(buf.String(), "No scans yet") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestMarkdownHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := render.History(&buf, render.FormatMarkdown, sampleScans()); err != nil {
		t.Fatalf("History: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Scan History",
		"## Latest 3 verifications",
		"```mermaid",
		"Created At",
		"Shocking",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := render.History(&buf, render.FormatMarkdown, []model.Scan{}); err != nil {
		t.Fatalf("History: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No scans yet") || strings.Contains(out, "mermaid") {
		t.Errorf("empty markdown = %q", out)
	}
}

func TestHistoryUnknownFormat(t *testing.T) {
	err := render.History(&bytes.Buffer{}, render.Format("pdf"), nil)
	if !errors.Is(err, render.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestResult(t *testing.T) {
	s := model.Scan{
		URL:              "https://x",
		ResultLabel:      model.LabelFake,
		CredibilityScore: 20,
		MLMeta:           []byte(`{"explanation":["Detected clickbait / scam-like phrases."]}`),
	}
	var buf bytes.Buffer
	if err := render.Result(&buf, s); err != nil {
		t.Fatalf("Result: %v", err)
	}
	want := "Label: fake\nScore: 20 / 100\nExplanation: Detected clickbait / scam-like phrases.\nURL: https://x\n"
	if buf.String() != want {
		t.Errorf("Result =\n%q\nwant\n%q", buf.String(), want)
	}
}
