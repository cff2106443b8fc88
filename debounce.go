package bisquit

import (
	"time"

	"golang.org/x/net/html"
)

// debouncer delays live-typing dispatches per originating element: a new
// keystroke on an element replaces that element's pending dispatch and
// restarts its timer, leaving other elements' timers alone.
type debouncer struct {
	p       *Page
	pending map[*html.Node]*debounceEntry
}

type debounceEntry struct {
	timer *time.Timer
	b     batch
}

func newDebouncer(p *Page) *debouncer {
	return &debouncer{p: p, pending: make(map[*html.Node]*debounceEntry)}
}

// schedule arms (or re-arms) the timer for origin. Callers hold the page
// lock.
func (d *debouncer) schedule(origin *html.Node, b batch) {
	if e, ok := d.pending[origin]; ok {
		if e.timer.Stop() {
			d.p.end()
		}
		delete(d.pending, origin)
	}

	e := &debounceEntry{b: b}
	d.pending[origin] = e
	d.p.begin()
	e.timer = time.AfterFunc(d.p.cfg.KeyUpDelay, func() {
		d.fire(origin, e)
	})
}

func (d *debouncer) fire(origin *html.Node, e *debounceEntry) {
	p := d.p
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.end()

	// A newer keystroke may have replaced this entry after the timer
	// fired but before the lock was acquired.
	if d.pending[origin] != e {
		return
	}
	delete(d.pending, origin)
	e.b.emit(p)
}

// stopAll cancels every pending timer. Callers hold the page lock.
func (d *debouncer) stopAll() {
	for origin, e := range d.pending {
		if e.timer.Stop() {
			d.p.end()
		}
		delete(d.pending, origin)
	}
}
