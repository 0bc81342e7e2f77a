package waitfortest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// query resolves loc under root the way a browser resolves it under an
// element: css, id, name and tag match descendants, and xpath is
// evaluated with root as the context node. Selectors that do not compile
// are errors, never empty results.
func query(root *html.Node, loc waitfor.Locator) ([]*html.Node, error) {
	switch loc.By {
	case waitfor.ByID:
		return withAttr(root, "id", loc.Value), nil
	case waitfor.ByName:
		return withAttr(root, "name", loc.Value), nil
	case waitfor.ByTag:
		sel := goquery.NewDocumentFromNode(root).Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return goquery.NodeName(s) == loc.Value
		})
		return sel.Nodes, nil
	case waitfor.ByCSS:
		return queryCSS(root, loc.Value)
	case waitfor.ByXPath:
		return queryXPath(root, loc.Value)
	default:
		return nil, fmt.Errorf("waitfortest: unsupported locator strategy %q", loc.By)
	}
}

func withAttr(root *html.Node, name, value string) []*html.Node {
	sel := goquery.NewDocumentFromNode(root).Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v == value
	})
	return sel.Nodes
}

func queryCSS(root *html.Node, selector string) ([]*html.Node, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("waitfortest: empty css selector")
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("waitfortest: bad css selector %q: %w", selector, err)
	}
	return goquery.NewDocumentFromNode(root).FindMatcher(m).Nodes, nil
}

func queryXPath(root *html.Node, expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("waitfortest: bad xpath %q: %w", expr, err)
	}
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			return nil, fmt.Errorf("waitfortest: xpath %q selects a non-element node", expr)
		}
	}
	return nodes, nil
}
