package bisquit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Selector matches elements of the document. Selectors are written in
// CSS; a selector beginning with "/", "./", "(" or the prefix "xpath:" is
// evaluated as XPath instead.
type Selector interface {
	// Match reports whether n is selected.
	Match(n *html.Node) bool
	// Find returns the selected descendants of root in document order.
	Find(root *html.Node) []*html.Node
	String() string
}

// Compile parses a selector.
func Compile(sel string) (Selector, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}
	if expr, ok := xpathExpr(sel); ok {
		// Validate eagerly so bad markup surfaces at compile time.
		if _, err := htmlquery.QueryAll(&html.Node{Type: html.DocumentNode}, expr); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel, err)
		}
		return xpathSelector{expr: expr}, nil
	}
	m, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel, err)
	}
	return cssSelector{sel: sel, m: m}, nil
}

func xpathExpr(sel string) (string, bool) {
	if rest, ok := strings.CutPrefix(sel, "xpath:"); ok {
		return strings.TrimSpace(rest), true
	}
	if strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "./") || strings.HasPrefix(sel, "(") {
		return sel, true
	}
	return "", false
}

type cssSelector struct {
	sel string
	m   cascadia.Selector
}

func (s cssSelector) Match(n *html.Node) bool {
	return isElement(n) && s.m.Match(n)
}

func (s cssSelector) Find(root *html.Node) []*html.Node {
	return descendants(root, s.m.Match)
}

func (s cssSelector) String() string { return s.sel }

type xpathSelector struct {
	expr string
}

func (s xpathSelector) Match(n *html.Node) bool {
	if !isElement(n) {
		return false
	}
	top := n
	for top.Parent != nil {
		top = top.Parent
	}
	nodes, err := htmlquery.QueryAll(top, s.expr)
	if err != nil {
		return false
	}
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}

func (s xpathSelector) Find(root *html.Node) []*html.Node {
	nodes, err := htmlquery.QueryAll(root, s.expr)
	if err != nil {
		return nil
	}
	matched := make(map[*html.Node]bool, len(nodes))
	for _, m := range nodes {
		matched[m] = true
	}
	// htmlquery yields evaluation order; walk the tree to restore document order.
	return descendants(root, func(n *html.Node) bool { return matched[n] })
}

func (s xpathSelector) String() string { return "xpath:" + s.expr }

// selectorCache memoizes compiled selectors; markup repeats the same few
// selector strings on every dispatch.
type selectorCache struct {
	mu    sync.Mutex
	cache map[string]Selector
}

func (c *selectorCache) compile(sel string) (Selector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.cache[sel]; ok {
		return s, nil
	}
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	if c.cache == nil {
		c.cache = make(map[string]Selector)
	}
	c.cache[sel] = s
	return s, nil
}
