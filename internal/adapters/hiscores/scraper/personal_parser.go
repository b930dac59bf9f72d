// Package scraper reads the HTML hiscores personal page, used when the
// index_lite endpoint is unavailable.
package scraper

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Row is one table row: the category name and its numeric columns. Skill rows
// carry rank, level and experience; activity rows carry rank and score.
type Row struct {
	Name   string
	Values []int64
}

// ParsePersonalPage extracts every row whose first link names a hiscores
// table followed by at least two numeric cells.
func ParsePersonalPage(r io.Reader) ([]Row, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var rows []Row
	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if row, ok := extractRow(n); ok {
				rows = append(rows, row)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)
	return rows, nil
}

func extractRow(tr *html.Node) (Row, bool) {
	var row Row

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "td" {
			continue
		}
		if row.Name == "" {
			if link := findTableLink(c); link != nil {
				row.Name = strings.TrimSpace(getTextContent(link))
			}
			continue
		}
		if v, ok := parseNumber(getTextContent(c)); ok {
			row.Values = append(row.Values, v)
		}
	}

	return row, row.Name != "" && len(row.Values) >= 2
}

func findTableLink(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" && strings.Contains(attr.Val, "table=") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if link := findTableLink(c); link != nil {
			return link
		}
	}
	return nil
}

// parseNumber accepts thousands separators, as in "13,034,431".
func parseNumber(text string) (int64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(getTextContent(c))
	}

	return text.String()
}
