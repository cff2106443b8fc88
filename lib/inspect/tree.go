package inspect

import (
	"sort"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
	"golang.org/x/net/html"

	"github.com/pthm/bisquit"
)

// Tree draws the component hierarchy of doc. Each component lists its
// endpoint and, below it, the markers it owns directly.
func Tree(doc *html.Node) string {
	root := tree.NewTree(tree.NodeString("document"))
	var visit func(n *html.Node, parent *tree.Tree)
	visit = func(n *html.Node, parent *tree.Tree) {
		if n.Type == html.ElementNode {
			d := bisquit.ReadDeclarations(n)
			if hasClass(n, bisquit.ComponentClass) {
				parent = parent.AddChild(tree.NodeString(componentLabel(d)))
			}
			for _, m := range markerLabels(d) {
				parent.AddChild(tree.NodeString(describe(n) + " " + m))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, parent)
		}
	}
	visit(doc, root)
	return root.String()
}

func componentLabel(d bisquit.Declarations) string {
	label := d.Component
	if label == "" {
		label = "(no id)"
	}
	if d.Remote != "" {
		label += " -> " + d.Remote
	} else {
		label += " (local)"
	}
	return label
}

func markerLabels(d bisquit.Declarations) []string {
	triggers := make([]string, 0, len(d.On))
	for t := range d.On {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)

	labels := make([]string, 0, len(triggers))
	for _, t := range triggers {
		var events []string
		for _, target := range bisquit.ParseMarker(d.On[t]) {
			if target.Component != "" {
				events = append(events, target.Component+":"+target.Event)
			} else {
				events = append(events, target.Event)
			}
		}
		labels = append(labels, t+" => "+strings.Join(events, ", "))
	}
	return labels
}
