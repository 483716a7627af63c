package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true, "#comment": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// TextFromHTML approximates the rendered text of a saved page: block elements start new
// lines, table cells on a row share one line, and whitespace within a line is collapsed.
func TextFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var b strings.Builder
	renderText(&b, doc.Find("body"))

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func renderText(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			b.WriteString(c.Text())
		case skipTags[name]:
		case name == "br":
			b.WriteByte('\n')
		case name == "td" || name == "th":
			renderText(b, c)
			b.WriteByte('\t')
		case blockTags[name]:
			b.WriteByte('\n')
			renderText(b, c)
			b.WriteByte('\n')
		default:
			renderText(b, c)
		}
	})
}
