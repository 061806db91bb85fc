// Package render formats scan history and scan results for terminal output.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/raysh454/fraudeye/internal/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned for a Format other than text or markdown.
var ErrUnknownFormat = errors.New("unknown output format")

// SnippetWidth caps the snippet column. Full text is still in the JSON API.
const SnippetWidth = 80

const timeLayout = "2006-01-02 15:04:05"

// ParseFormat accepts "text", "markdown" or "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// History writes the stats cards and scan table in format f.
func History(w io.Writer, f Format, scans []model.Scan) error {
	switch f {
	case FormatText:
		return writeTextHistory(w, scans)
	case FormatMarkdown:
		return writeMarkdownHistory(w, scans)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Result writes one scored scan the way the popup shows it.
func Result(w io.Writer, s model.Scan) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Label: %s\n", labelText(s.ResultLabel))
	fmt.Fprintf(&sb, "Score: %s\n", scoreText(s.CredibilityScore))
	if exp := s.Explanation(); exp != "" {
		fmt.Fprintf(&sb, "Explanation: %s\n", exp)
	}
	if s.URL != "" {
		fmt.Fprintf(&sb, "URL: %s\n", s.URL)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type statCard struct {
	label string
	value int
	pill  string
}

func statCards(st model.Stats) []statCard {
	return []statCard{
		{"Total Scans", st.Total, "All time"},
		{"Fake", st.Fake, "Flagged"},
		{"Real", st.Real, "Likely trustworthy"},
		{"Uncertain", st.Uncertain, "Needs review"},
	}
}

var historyHeader = []string{"#", "URL", "Snippet", "Label", "Score", "Source", "Created At"}

func historyRows(scans []model.Scan) [][]string {
	rows := make([][]string, 0, len(scans))
	for i, s := range scans {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			orDash(s.URL),
			clamp(s.ContentSnippet, SnippetWidth),
			labelText(s.ResultLabel),
			scoreText(s.CredibilityScore),
			sourceText(s.DisplaySource()),
			timeText(s.CreatedAt),
		})
	}
	return rows
}

func labelText(l model.Label) string {
	if l == "" {
		return "unknown"
	}
	return string(l)
}

func scoreText(n int) string {
	return strconv.Itoa(n) + " / 100"
}

var titleCaser = cases.Title(language.Und)

func sourceText(s model.Source) string {
	return titleCaser.String(string(s))
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// clamp flattens whitespace and cuts s to n runes, marking the cut with "...".
func clamp(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:n-3]), " ") + "..."
}
