package demobackend

import (
	"html/template"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/fraudeye/internal/logging"
)

// Article is a sample page served under /demo/articles/{slug} so the
// content script has something realistic to scan.
type Article struct {
	Slug       string
	Title      string
	Paragraphs []string
}

var articles = map[string]Article{
	"miracle-cure": {
		Slug:  "miracle-cure",
		Title: "You Won't Believe This Miracle Cure",
		Paragraphs: []string{
			"A shocking new discovery is sweeping the internet, and doctors are furious. A single kitchen ingredient has been shown to reverse ageing overnight.",
			"Thousands of readers have already tried the secret method, and every one of them reports feeling twenty years younger within a week of starting.",
			"The results are 100% guaranteed, but the offer is only available for a limited time. Click here to claim your free sample before it is gone.",
			"Big pharmaceutical companies have spent millions trying to keep this miracle cure off the shelves. Share this page with everyone you know today.",
		},
	},
	"rainfall-study": {
		Slug:  "rainfall-study",
		Title: "Regional Rainfall Rose Last Decade, Study Shows",
		Paragraphs: []string{
			"Average annual rainfall across the region increased by four percent between 2014 and 2024, according to a report published on Monday by the national weather office.",
			"Researchers analysed records from more than three hundred monitoring stations. The study shows the largest increases in coastal districts during the autumn months.",
			"The findings were confirmed by an independent team at the state university, which used data from satellite observations covering the same period.",
			"In an official statement, the weather office said the figures would be used to update flood planning guidance for local councils next year.",
		},
	},
	"town-fair": {
		Slug:  "town-fair",
		Title: "Town Fair Returns This Weekend",
		Paragraphs: []string{
			"The annual town fair returns to the central park this weekend with food stalls, music and rides for children of all ages throughout both days.",
			"Organisers expect a large crowd and have arranged extra parking near the station. Entry is free and the gates open at ten in the morning.",
			"Local craft makers will sell handmade goods, and the brass band will play on the main stage on Saturday afternoon before the evening fireworks.",
		},
	},
}

var articleTmpl = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
</head>
<body>
    <nav><a href="/demo/articles">All articles</a></nav>
    <article>
        <h1>{{.Title}}</h1>
        {{range .Paragraphs}}<p>{{.}}</p>
        {{end}}
    </article>
    <footer><p>Demo content for FraudEye.</p></footer>
</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Demo Articles</title>
</head>
<body>
    <h1>Demo Articles</h1>
    <ul>
    {{range .}}<li><a href="/demo/articles/{{.Slug}}">{{.Title}}</a></li>
    {{end}}</ul>
</body>
</html>
`))

func (s *Server) handleArticleIndex(w http.ResponseWriter, r *http.Request) {
	list := make([]Article, 0, len(articles))
	for _, a := range articles {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Slug < list[j].Slug })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, list); err != nil {
		s.logger.Warn("rendering article index", logging.Field{Key: "error", Value: err})
	}
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	a, ok := articles[chi.URLParam(r, "slug")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := articleTmpl.Execute(w, a); err != nil {
		s.logger.Warn("rendering article", logging.Field{Key: "error", Value: err})
	}
}
