package jobs

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// SummaryLength is the maximum rune length of a public job summary
const SummaryLength = 280

// blockSelectors are elements whose boundaries separate words in text
var blockSelectors = "p, br, li, div, h1, h2, h3, h4, h5, h6, tr, td, section, article"

// Summary extracts plain text from a job description, which may be HTML,
// collapses whitespace and truncates it to limit runes on a word boundary.
func Summary(description string, limit int) string {
	text := description

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err == nil {
		doc.Find("script, style, noscript, iframe, object, embed").Remove()
		doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
			s.AppendHtml(" ")
		})
		text = doc.Text()
	}

	text = strings.Join(strings.Fields(text), " ")
	return truncateWords(text, limit)
}

func truncateWords(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
