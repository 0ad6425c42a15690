package genius

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

const (
	containerAttr = "data-lyrics-container"
	excludeAttr   = "data-exclude-from-selection"
)

// ExtractLyrics returns the text of every lyrics container on a song page,
// in document order. <br> becomes a newline, other markup is dropped and
// entities are decoded. Elements marked as excluded from selection (ads,
// "read more" blurbs) are skipped. An empty string means the page has no
// lyrics containers.
func ExtractLyrics(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var parts []string
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && attr(n, containerAttr) == "true" {
			var sb strings.Builder
			writeText(&sb, n)
			parts = append(parts, sb.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if hasAttr(n, excludeAttr) {
			return
		}
		switch n.Data {
		case "br":
			sb.WriteString("\n")
			return
		case "script", "style":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
