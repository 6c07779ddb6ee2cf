package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const wordsPerMinute = 200

// PlainText extracts the visible text of an HTML fragment, with runs of
// whitespace collapsed. Script and style contents are skipped.
func PlainText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ReadingTime estimates minutes to read an HTML body, rounded up. Any
// non-empty body takes at least one minute.
func ReadingTime(body string) int {
	words := len(strings.Fields(PlainText(body)))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// EffectiveReadingTime is the upstream value, or an estimate from the body
// when upstream sent none.
func (a *Article) EffectiveReadingTime() int {
	if a.ReadingTime > 0 {
		return a.ReadingTime
	}
	return ReadingTime(a.Content)
}
