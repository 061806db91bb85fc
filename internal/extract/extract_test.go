package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func mustParse(t *testing.T, url, body string) *Page {
	t.Helper()
	p, err := Parse(url, []byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

func TestTitleAndBodyText(t *testing.T) {
	p := mustParse(t, "https://example.com/", `<html><head><title> Hello </title>
<style>.x{}</style></head><body><h1>Head</h1><script>var a=1;</script>
<div>one   two<br>three</div></body></html>`)

	if got := p.Title(); got != "Hello" {
		t.Errorf("Title = %q", got)
	}
	body := p.BodyText()
	if strings.Contains(body, "var a") || strings.Contains(body, ".x") {
		t.Errorf("script or style leaked: %q", body)
	}
	if !strings.Contains(body, "one two\nthree") {
		t.Errorf("unexpected body text %q", body)
	}
}

func TestIsArticle(t *testing.T) {
	short := `<html><body><p>tiny</p></body></html>`
	long := `<html><body><div>` + strings.Repeat("word ", 300) + `</div></body></html>`

	tests := []struct {
		url  string
		body string
		want bool
	}{
		{"https://site.com/News/today", short, true},
		{"https://site.com/blog/x", short, true},
		{"https://site.com/press-release", short, true},
		{"https://shop.com/cart", short, false},
		{"https://shop.com/cart", long, true},
	}
	for _, tt := range tests {
		if got := mustParse(t, tt.url, tt.body).IsArticle(); got != tt.want {
			t.Errorf("IsArticle(%s, %d bytes) = %v, want %v", tt.url, len(tt.body), got, tt.want)
		}
	}
}

func TestMainText_PrefersLongArticle(t *testing.T) {
	articleBody := strings.Repeat("Article sentence here. ", 30)
	p := mustParse(t, "https://x/news", `<body><article><p>`+articleBody+`</p></article>
<p>`+strings.Repeat("outside ", 20)+`</p></body>`)

	got := p.MainText()
	if strings.Contains(got, "outside") {
		t.Errorf("expected article text only, got %q", got)
	}
	if !strings.HasPrefix(got, "Article sentence here.") {
		t.Errorf("unexpected text %q", got)
	}
}

func TestMainText_FallsBackToParagraphs(t *testing.T) {
	long1 := strings.Repeat("a", 60)
	long2 := strings.Repeat("b", 70)
	p := mustParse(t, "https://x/post", `<body><article>short</article>
<p>`+long1+`</p><p>too short</p><p> `+long2+` </p></body>`)

	want := long1 + "\n\n" + long2
	if got := p.MainText(); got != want {
		t.Errorf("MainText = %q, want %q", got, want)
	}
}

func TestMainText_Truncated(t *testing.T) {
	para := strings.Repeat("é", 2000)
	p := mustParse(t, "https://x", `<body><p>`+para+`</p><p>`+para+`</p><p>`+para+`</p></body>`)

	got := p.MainText()
	if n := utf8.RuneCountInString(got); n != MaxSnippetChars {
		t.Errorf("expected %d chars, got %d", MaxSnippetChars, n)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
}
