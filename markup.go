package bisquit

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Declarative markup vocabulary read from the document.
const (
	ComponentClass  = "bsqt-component"
	OverlayClass    = "bsqt-component-overlay"
	PendingClass    = "bsqt-pending-component-action"
	AttrComponent   = "data-component"
	AttrRemote      = "data-remote-controller"
	AttrScope       = "data-scope"
	AttrOverlay     = "data-overlay"
	AttrNoOverlay   = "data-no-overlay"
	AttrConfirm     = "data-confirm"
	AttrOnPrefix    = "data-on-"
	AttrParamPrefix = "data-param-"

	// ScopeSelf makes a scope or overlay declaration refer to the
	// declaring node itself.
	ScopeSelf = "this"
)

// Trigger kinds produced by the interceptor.
const (
	TriggerChange = "change"
	TriggerClick  = "click"
)

// OnAttr returns the marker attribute for a trigger kind, e.g. data-on-change.
// Trigger names are case-insensitive: parsed attribute names are lowercase.
func OnAttr(trigger string) string {
	return AttrOnPrefix + strings.ToLower(trigger)
}

// Param is one data-param-* declaration.
type Param struct {
	Key   string
	Value string
}

// Declarations is the typed view of the bisquit attributes on one node.
type Declarations struct {
	Component string
	Remote    string
	Scope     string
	Overlay   string
	NoOverlay bool
	Confirm   string
	// On maps trigger names (change, click, or custom) to marker values.
	On     map[string]string
	Params []Param
	// Unknown lists attributes that look like bisquit vocabulary but
	// match no recognized key, such as data-parm-id or data-on-.
	Unknown []string
}

// vocabulary lists the exact keys that misspellings are checked against.
var vocabulary = []string{
	AttrComponent, AttrRemote, AttrScope, AttrOverlay, AttrNoOverlay, AttrConfirm,
}

// ReadDeclarations parses the bisquit attributes of n.
func ReadDeclarations(n *html.Node) Declarations {
	var d Declarations
	if n == nil || n.Type != html.ElementNode {
		return d
	}
	for _, a := range n.Attr {
		key := a.Key
		switch {
		case key == AttrComponent:
			d.Component = a.Val
		case key == AttrRemote:
			d.Remote = a.Val
		case key == AttrScope:
			d.Scope = a.Val
		case key == AttrOverlay:
			d.Overlay = a.Val
		case key == AttrNoOverlay:
			d.NoOverlay = truthy(a.Val)
		case key == AttrConfirm:
			d.Confirm = a.Val
		case strings.HasPrefix(key, AttrOnPrefix) && len(key) > len(AttrOnPrefix):
			if d.On == nil {
				d.On = make(map[string]string)
			}
			d.On[key[len(AttrOnPrefix):]] = a.Val
		case strings.HasPrefix(key, AttrParamPrefix) && len(key) > len(AttrParamPrefix):
			d.Params = append(d.Params, Param{Key: key[len(AttrParamPrefix):], Value: a.Val})
		case suspicious(key):
			d.Unknown = append(d.Unknown, key)
		}
	}
	sort.Strings(d.Unknown)
	return d
}

// suspicious reports whether a data attribute is a near miss of the
// vocabulary: an empty on-/param- suffix, a recognized key with trailing
// text, or a key within edit distance one of a recognized key or prefix.
func suspicious(key string) bool {
	if !strings.HasPrefix(key, "data-") {
		return false
	}
	if key == strings.TrimSuffix(AttrOnPrefix, "-") || key == AttrOnPrefix ||
		key == strings.TrimSuffix(AttrParamPrefix, "-") || key == AttrParamPrefix {
		return true
	}
	for _, v := range vocabulary {
		if strings.HasPrefix(key, v) || editDistanceOne(key, v) {
			return true
		}
	}
	if i := strings.LastIndexByte(key, '-'); i > len("data-") {
		head := key[:i+1]
		if head != AttrParamPrefix && editDistanceOne(head, AttrParamPrefix) {
			return true
		}
	}
	return false
}

// editDistanceOne reports whether a and b differ by exactly one insertion,
// deletion or substitution.
func editDistanceOne(a, b string) bool {
	if a == b {
		return false
	}
	la, lb := len(a), len(b)
	if la-lb > 1 || lb-la > 1 {
		return false
	}
	if la < lb {
		a, b = b, a
		la, lb = lb, la
	}
	i := 0
	for i < lb && a[i] == b[i] {
		i++
	}
	if la == lb {
		return a[i+1:] == b[i+1:]
	}
	return a[i+1:] == b[i:]
}

// truthy mirrors how a flag attribute is read: present and not "false".
func truthy(v string) bool {
	return v != "false"
}
