package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Title returns the og:title of the page, else its <title>, with whitespace
// runs collapsed. Pages without either get their URL as title.
func Title(doc Document) string {
	q, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Text))
	if err != nil {
		return doc.PageURL
	}

	if og, ok := q.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := collapseSpace(og); t != "" {
			return t
		}
	}
	if t := collapseSpace(q.Find("title").First().Text()); t != "" {
		return t
	}
	return doc.PageURL
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
