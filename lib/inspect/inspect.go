// Package inspect checks bisquit markup statically.
//
// It reports declarations the runtime would silently ignore or misroute:
// misspelled attributes, components without an id, markers naming absent
// components, and selectors that do not compile.
package inspect

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/bisquit"
)

// Severity ranks a diagnostic.
type Severity int

const (
	// SeverityWarning marks markup that works but is likely a mistake.
	SeverityWarning Severity = iota
	// SeverityError marks markup the runtime cannot act on.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one finding.
type Diagnostic struct {
	Severity Severity
	// Element describes the offending element, e.g. div#cart[cart].
	Element string
	// Attr is the attribute at fault, empty for element-level findings.
	Attr    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Attr == "" {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Element, d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", d.Severity, d.Element, d.Attr, d.Message)
}

// Options configures an Inspector.
type Options struct {
	// Logger receives a debug entry per diagnostic. Defaults to a no-op.
	Logger *zap.Logger
}

// Inspector lints documents.
type Inspector struct {
	opts Options
	log  *zap.Logger
}

// New creates an Inspector.
func New(opts Options) *Inspector {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{opts: opts, log: log}
}

// LintFile parses and lints the document at path. A path of "-" reads
// standard input.
func (in *Inspector) LintFile(path string) ([]Diagnostic, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return in.Lint(doc), nil
}

// ParseFile parses the document at path, or standard input for "-".
func ParseFile(path string) (*html.Node, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Lint returns the diagnostics for doc in document order.
func (in *Inspector) Lint(doc *html.Node) []Diagnostic {
	l := &linter{endpoints: make(map[string]string)}
	walk(doc, func(n *html.Node) {
		if id := attr(n, bisquit.AttrComponent); id != "" && hasClass(n, bisquit.ComponentClass) {
			l.ids = append(l.ids, id)
		}
	})
	sort.Strings(l.ids)

	walk(doc, l.element)
	for _, d := range l.out {
		in.log.Debug("markup diagnostic",
			zap.Stringer("severity", d.Severity),
			zap.String("element", d.Element),
			zap.String("attr", d.Attr),
			zap.String("message", d.Message))
	}
	return l.out
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

type linter struct {
	ids       []string
	endpoints map[string]string
	out       []Diagnostic
}

func (l *linter) report(sev Severity, n *html.Node, key, format string, args ...any) {
	l.out = append(l.out, Diagnostic{
		Severity: sev,
		Element:  describe(n),
		Attr:     key,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (l *linter) known(id string) bool {
	i := sort.SearchStrings(l.ids, id)
	return i < len(l.ids) && l.ids[i] == id
}

func (l *linter) element(n *html.Node) {
	d := bisquit.ReadDeclarations(n)
	for _, key := range d.Unknown {
		l.report(SeverityWarning, n, key, "unrecognized attribute")
	}

	component := hasClass(n, bisquit.ComponentClass)
	switch {
	case d.Component != "" && !component:
		l.report(SeverityError, n, bisquit.AttrComponent, "element lacks class %s and is never discovered", bisquit.ComponentClass)
	case component && d.Component == "":
		l.report(SeverityError, n, "", "component element has no %s id", bisquit.AttrComponent)
	}
	if d.Remote != "" && !component {
		l.report(SeverityWarning, n, bisquit.AttrRemote, "only component elements are posted to")
	}
	if component && d.Component != "" {
		if prev, ok := l.endpoints[d.Component]; ok && prev != d.Remote {
			l.report(SeverityError, n, bisquit.AttrRemote, "component %q already uses endpoint %q", d.Component, prev)
		} else if !ok {
			l.endpoints[d.Component] = d.Remote
		}
	}

	for _, key := range []string{bisquit.AttrScope, bisquit.AttrOverlay} {
		v, ok := attrOK(n, key)
		if !ok || v == bisquit.ScopeSelf {
			continue
		}
		if _, err := bisquit.Compile(v); err != nil {
			l.report(SeverityError, n, key, "%v", err)
		}
	}

	triggers := make([]string, 0, len(d.On))
	for t := range d.On {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)
	for _, t := range triggers {
		l.marker(n, bisquit.OnAttr(t), d.On[t])
	}
}

func (l *linter) marker(n *html.Node, key, value string) {
	targets := bisquit.ParseMarker(value)
	if len(targets) == 0 {
		l.report(SeverityWarning, n, key, "marker names no events")
		return
	}
	enclosed := enclosing(n) != nil
	for _, t := range targets {
		switch {
		case t.Component == "" && !enclosed:
			l.report(SeverityError, n, key, "event %q has no enclosing component", t.Event)
		case t.Component != "" && !l.known(t.Component):
			l.report(SeverityWarning, n, key, "component %q is not on the page", t.Component)
		}
	}
}

func enclosing(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && hasClass(n, bisquit.ComponentClass) {
			return n
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// describe renders n as tag#id[component].
func describe(n *html.Node) string {
	var b strings.Builder
	b.WriteString(n.Data)
	if id := attr(n, "id"); id != "" {
		b.WriteString("#" + id)
	}
	if c := attr(n, bisquit.AttrComponent); c != "" {
		b.WriteString("[" + c + "]")
	}
	return b.String()
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
