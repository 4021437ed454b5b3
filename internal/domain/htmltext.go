package domain

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxExcerptRunes = 140

// Excerpt renders the status content HTML down to a short plain-text snippet
// for log lines and notifier events. Returns "" when the content cannot be
// parsed; an unparseable excerpt is never worth failing a pass over.
func (s Status) Excerpt() string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.Content))
	if err != nil {
		return ""
	}

	// Paragraph breaks collapse to single spaces.
	parts := []string{}
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	text := strings.Join(parts, " ")
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxExcerptRunes {
		return strings.TrimSpace(string(runes[:maxExcerptRunes])) + "..."
	}
	return text
}
