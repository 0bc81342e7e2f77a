package roddriver

import (
	"fmt"
	"strconv"

	"github.com/go-rod/rod"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

// query is a locator translated to rod's two lookup families.
type query struct {
	css   string
	xpath string
}

func compile(loc waitfor.Locator) (query, error) {
	switch loc.By {
	case waitfor.ByCSS:
		return query{css: loc.Value}, nil
	case waitfor.ByXPath:
		return query{xpath: loc.Value}, nil
	case waitfor.ByID:
		return query{css: "[id=" + strconv.Quote(loc.Value) + "]"}, nil
	case waitfor.ByName:
		return query{css: "[name=" + strconv.Quote(loc.Value) + "]"}, nil
	case waitfor.ByTag:
		return query{css: loc.Value}, nil
	default:
		return query{}, fmt.Errorf("rod: unsupported locator strategy %q", loc.By)
	}
}

// finder is implemented by *rod.Page and *rod.Element.
type finder interface {
	Elements(selector string) (rod.Elements, error)
	ElementsX(xpath string) (rod.Elements, error)
}

func (q query) all(f finder) (rod.Elements, error) {
	if q.xpath != "" {
		return f.ElementsX(q.xpath)
	}
	return f.Elements(q.css)
}
