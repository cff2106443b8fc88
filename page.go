package bisquit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Layout reports element geometry. Pages without a layout insert overlays
// unsized.
type Layout interface {
	Bounds(n *html.Node) (Rect, bool)
}

// Rect is an element's box in pixels, relative to its offset parent.
type Rect struct {
	Left, Top, Width, Height float64
}

// selection is a text control's cursor range.
type selection struct {
	start, end int
}

// Page is a live document with bisquit event dispatch attached.
//
// All document access is serialized by one lock, which plays the part of
// a browser's event loop: signals, debounce timers and response
// continuations each run to completion while holding it. Remote exchanges
// run on their own goroutines without it.
type Page struct {
	mu   sync.Mutex
	idle *sync.Cond
	root *html.Node

	cfg       Config
	log       *zap.Logger
	markupLog *zap.Logger
	transport Transport
	confirm   func(string) bool
	layout    Layout
	ctx       context.Context

	registry  *Registry
	selectors selectorCache
	debounce  *debouncer

	focused    *html.Node
	dirty      bool
	selections map[*html.Node]selection
	reported   map[*html.Node]bool

	// pending counts debounce timers and remote exchanges in flight.
	pending int
	closed  bool
}

// NewPage attaches dispatch to a parsed document.
func NewPage(root *html.Node, opts ...Option) *Page {
	o := buildOptions(opts)
	p := &Page{
		root:       root,
		cfg:        o.cfg,
		log:        o.logger.Named("dispatch"),
		markupLog:  o.logger.Named("markup"),
		transport:  o.transport,
		confirm:    o.confirm,
		layout:     o.layout,
		ctx:        o.ctx,
		selections: make(map[*html.Node]selection),
		reported:   make(map[*html.Node]bool),
	}
	p.idle = sync.NewCond(&p.mu)
	p.registry = NewRegistry(elementSet{p}, o.logger.Named("registry"))
	p.debounce = newDebouncer(p)
	if p.confirm == nil {
		p.confirm = func(message string) bool {
			p.log.Debug("confirm prompt affirmed", zap.String("message", message))
			return true
		}
	}
	return p
}

// ParsePage parses markup and attaches dispatch to it.
func ParsePage(r io.Reader, opts ...Option) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("bisquit: parse document: %w", err)
	}
	return NewPage(root, opts...), nil
}

// Config returns the page configuration.
func (p *Page) Config() Config {
	return p.cfg
}

// Component returns the handle for id, creating it on first use.
func (p *Page) Component(id string) *Component {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Get(id)
}

// Elements returns the elements bound to a component.
func (p *Page) Elements(id string) []*html.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.componentElements(id, nil)
}

// Change signals a committed value change on n.
func (p *Page) Change(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.change(n)
}

// Click signals a click on n.
func (p *Page) Click(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.click(n)
}

// KeyUp signals a keystroke on n.
func (p *Page) KeyUp(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyUp(n)
}

// Trigger fires a custom trigger from origin: the nearest element
// declaring data-on-<name> handles it as if it had been interacted with,
// with data merged into the payload.
func (p *Page) Trigger(origin *html.Node, name string, data map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trigger(origin, name, data)
}

// Focus moves focus to n. A focused field whose value changed since it
// gained focus fires a change signal as it loses focus.
func (p *Page) Focus(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focus(n)
}

// Blur removes focus, firing change when the focused field was edited.
func (p *Page) Blur() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blur(true)
}

// Focused returns the focused element and its selection range.
func (p *Page) Focused() (n *html.Node, start, end int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focused == nil {
		return nil, 0, 0
	}
	sel := p.selections[p.focused]
	return p.focused, sel.start, sel.end
}

// Value returns a form control's current value.
func (p *Page) Value(n *html.Node) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fieldValue(n)
}

// SetValue sets a form control's value, placing the cursor at the end. On
// the focused field this counts as user input.
func (p *Page) SetValue(n *html.Node, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setValue(n, v)
}

// Checked reports whether a checkbox or radio is checked.
func (p *Page) Checked(n *html.Node) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return hasAttr(n, "checked")
}

// SetChecked checks or unchecks a checkbox or radio. Checking a radio
// unchecks the others of its group. It signals nothing; follow with
// Click or Change to dispatch.
func (p *Page) SetChecked(n *html.Node, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	setChecked(p.root, n, on)
}

// Select sets a text control's selection range.
func (p *Page) Select(n *html.Node, start, end int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selections[n] = clampSelection(fieldValue(n), start, end)
}

// Type focuses n, replaces its value with v as user input and signals the
// keystroke.
func (p *Page) Type(n *html.Node, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focused != n {
		p.focus(n)
	}
	p.setValue(n, v)
	p.keyUp(n)
}

// Find returns the elements matching sel.
func (p *Page) Find(sel string) ([]*html.Node, error) {
	s, err := p.selectors.compile(sel)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return s.Find(p.root), nil
}

// FindOne returns the first element matching sel, or nil.
func (p *Page) FindOne(sel string) (*html.Node, error) {
	nodes, err := p.Find(sel)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// HTML renders the document.
func (p *Page) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return render(p.root)
}

// Do runs fn with the page locked and exclusive access to the tree.
func (p *Page) Do(fn func(root *html.Node)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.root)
}

// Wait blocks until no debounce timer or remote exchange is outstanding,
// cascades included.
func (p *Page) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending > 0 {
		p.idle.Wait()
	}
}

// WaitTimeout is Wait with an upper bound. It reports whether the page
// went idle in time.
func (p *Page) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// Close cancels pending debounce timers. Remote exchanges already issued
// still settle.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.debounce.stopAll()
}

func (p *Page) begin() {
	p.pending++
}

func (p *Page) end() {
	p.pending--
	if p.pending <= 0 {
		p.pending = 0
		p.idle.Broadcast()
	}
}

func (p *Page) focus(n *html.Node) {
	if p.focused == n {
		return
	}
	p.blur(true)
	p.focused = n
	p.dirty = false
	if _, ok := p.selections[n]; !ok && isTyping(n) {
		l := len(fieldValue(n))
		p.selections[n] = selection{l, l}
	}
}

// blur drops focus; fire controls whether an edited field signals change.
func (p *Page) blur(fire bool) {
	n := p.focused
	if n == nil {
		return
	}
	dirty := p.dirty
	p.focused = nil
	p.dirty = false
	if fire && dirty && attached(p.root, n) {
		p.change(n)
	}
}

func (p *Page) setValue(n *html.Node, v string) {
	setFieldValue(n, v)
	p.selections[n] = selection{len(v), len(v)}
	if n == p.focused {
		p.dirty = true
	}
}

func clampSelection(v string, start, end int) selection {
	l := len(v)
	if start < 0 {
		start = 0
	}
	if start > l {
		start = l
	}
	if end < start {
		end = start
	}
	if end > l {
		end = l
	}
	return selection{start, end}
}

// componentElements lists component-marked elements bound to id.
func (p *Page) componentElements(id string, within *html.Node) []*html.Node {
	if within == nil {
		within = p.root
	}
	match := func(n *html.Node) bool {
		return isComponent(n) && attr(n, AttrComponent) == id
	}
	var out []*html.Node
	if isElement(within) && match(within) {
		out = append(out, within)
	}
	return append(out, descendants(within, match)...)
}

// declarations reads n's bisquit attributes and reports unknown ones once
// per element.
func (p *Page) declarations(n *html.Node) Declarations {
	d := ReadDeclarations(n)
	if len(d.Unknown) > 0 && !p.reported[n] {
		p.reported[n] = true
		fields := []zap.Field{zap.Strings("attributes", d.Unknown), zap.String("element", n.Data)}
		if p.cfg.StrictMarkup {
			p.markupLog.Warn("unknown declarative attributes", fields...)
		} else {
			p.markupLog.Debug("unknown declarative attributes", fields...)
		}
	}
	return d
}

// elementSet lets the registry query the tree. Callers hold the page lock.
type elementSet struct {
	p *Page
}

func (s elementSet) ComponentElements(id string, within *html.Node) []*html.Node {
	return s.p.componentElements(id, within)
}
