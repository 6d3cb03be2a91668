package loader

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var escapeReplacer = strings.NewReplacer("\n", "", "\r", "", "\t", "")

func removeEscapeCharacters(value string) string {
	return escapeReplacer.Replace(value)
}

// stripHTML reduces a fragment of markup to its text content. Descriptions
// and ingredient lists arrive with embedded tags.
func stripHTML(value string) string {
	if value == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return value
	}
	return doc.Text()
}
