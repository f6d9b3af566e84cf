package ai

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var htmlTagPattern = regexp.MustCompile(`(?i)<(html|body|div|p|span|br|li|ul|h[1-6]|table|section|article)\b`)

const blockElements = "p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, ul, ol, table"

func looksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// PlainText reduces pasted HTML (a listing copied from a portal, for instance)
// to its visible text, one block per line.
func PlainText(s string) string {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find("script, style, noscript, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).AfterHtml("\n")

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if t := strings.Join(strings.Fields(line), " "); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
