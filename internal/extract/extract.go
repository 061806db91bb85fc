// Package extract pulls readable text out of fetched article pages.
//
// Text is rendered roughly the way a browser's innerText would: scripts and
// styles are skipped, block elements break lines, and runs of whitespace
// inside a line collapse to one space.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// ArticleMinChars is the shortest <article> text used as-is before
	// falling back to paragraphs.
	ArticleMinChars = 500
	// ParagraphMinChars drops short <p> blocks such as captions and bylines.
	ParagraphMinChars = 50
	// MaxSnippetChars bounds what is sent for analysis.
	MaxSnippetChars = 5000
	// LongBodyChars marks a page as an article regardless of its URL.
	LongBodyChars = 1000
)

var articleKeywords = []string{"news", "article", "story", "post", "blog", "press"}

// Page is a parsed HTML document together with the URL it was loaded from.
type Page struct {
	URL string
	doc *goquery.Document
}

func Parse(rawURL string, body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{URL: rawURL, doc: doc}, nil
}

func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// BodyText is the rendered text of <body>.
func (p *Page) BodyText() string {
	body := p.doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return innerText(body.Nodes[0])
}

// IsArticle reports whether the page looks like news or long-form content:
// either its URL names a typical article path or its body is long.
func (p *Page) IsArticle() bool {
	u := strings.ToLower(p.URL)
	for _, k := range articleKeywords {
		if strings.Contains(u, k) {
			return true
		}
	}
	return utf8.RuneCountInString(p.BodyText()) > LongBodyChars
}

// MainText returns the page's primary readable text, truncated to
// MaxSnippetChars. The first <article> wins when it is long enough;
// otherwise substantial paragraphs are joined by blank lines.
func (p *Page) MainText() string {
	var text string
	if art := p.doc.Find("article").First(); art.Length() > 0 {
		text = innerText(art.Nodes[0])
	}

	if utf8.RuneCountInString(text) < ArticleMinChars {
		var paras []string
		p.doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(innerText(s.Nodes[0]))
			if utf8.RuneCountInString(t) > ParagraphMinChars {
				paras = append(paras, t)
			}
		})
		text = strings.Join(paras, "\n\n")
	}

	return Truncate(text, MaxSnippetChars)
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

var blocks = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "dd": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"li": true, "main": true, "nav": true, "ol": true, "pre": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

func innerText(n *html.Node) string {
	var b strings.Builder
	render(&b, n)
	return normalize(b.String())
}

func render(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		words := strings.Fields(n.Data)
		if len(words) == 0 {
			if n.Data != "" {
				writeSpace(b)
			}
			return
		}
		if isSpace(n.Data[0]) {
			writeSpace(b)
		}
		b.WriteString(strings.Join(words, " "))
		if isSpace(n.Data[len(n.Data)-1]) {
			b.WriteByte(' ')
		}
		return
	case html.ElementNode:
		if skipped[n.Data] {
			return
		}
		switch {
		case n.Data == "br":
			b.WriteByte('\n')
			return
		case n.Data == "p":
			b.WriteString("\n\n")
			defer b.WriteString("\n\n")
		case blocks[n.Data]:
			b.WriteByte('\n')
			defer b.WriteByte('\n')
		case n.Data == "td" || n.Data == "th":
			defer b.WriteByte('\t')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c)
	}
}

// writeSpace separates adjacent inline runs without doubling up.
func writeSpace(b *strings.Builder) {
	s := b.String()
	if s == "" || isSpace(s[len(s)-1]) {
		return
	}
	b.WriteByte(' ')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

// normalize trims every line and squeezes runs of blank lines to one.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if len(out) > 0 && !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
