package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// htmlToText flattens HTML-bearing description fields to plain text. Plenty
// of feeds ship descriptions as markup inside CDATA.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return cleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(s)
	}
	return cleanText(doc.Text())
}
