package rag

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// loadHTML extracts readable text from an HTML page, skipping markup
// that carries no prose
func loadHTML(path string) ([]Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}

	// block elements become paragraphs so the splitter sees boundaries
	root.Find("p, h1, h2, h3, h4, h5, h6, li, td, th, pre, blockquote").Each(
		func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		})

	text := strings.TrimSpace(sb.String())
	if text == "" {
		// no block structure at all, fall back to the flattened text
		text = strings.TrimSpace(root.Text())
	}
	text = blankLines.ReplaceAllString(text, "\n\n")

	return []Document{{
		Content: text,
		Source:  path,
	}}, nil
}
