package browser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/kyak15/soccer-analytics/internal/usecase"
	"golang.org/x/net/html"
)

// nodesFromHTML selects nodes from a page snapshot. Text joins the node's
// text fragments with single spaces, close to what innerText shows for
// fixture rows built from nested spans.
func nodesFromHTML(doc, selector, attr string) ([]usecase.PageNode, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, crerr.Wrap(err, "parse page html")
	}

	var out []usecase.PageNode
	parsed.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		node := usecase.PageNode{Text: visibleText(sel)}
		if attr != "" {
			node.Attr, _ = sel.Attr(attr)
		}
		out = append(out, node)
	})
	return out, nil
}

func visibleText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			*parts = append(*parts, text)
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
