package bisquit

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/pthm/bisquit/wire"
)

func TestLocalHandlerShortCircuits(t *testing.T) {
	rec := &recorder{}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="cart" data-remote-controller="/cart">
			<button data-on-click="toggle" data-param-id="4">Toggle</button>
		</div>`, WithTransport(rec))

	var got map[string]any
	var element *html.Node
	p.Component("cart").On("toggle", func(c *Context, data map[string]any) {
		got = data
		element = c.Element()
	})

	p.Click(mustFind(t, p, "button"))

	if diff := cmp.Diff(map[string]any{"id": "4"}, got); diff != "" {
		t.Errorf("handler data mismatch (-want +got):\n%s", diff)
	}
	if element == nil || attr(element, AttrComponent) != "cart" {
		t.Errorf("Element() = %v, want the cart component", element)
	}
	if n := len(rec.Calls()); n != 0 {
		t.Errorf("transport called %d times, want 0", n)
	}
	if strings.Contains(p.HTML(), OverlayClass) {
		t.Error("local handlers must not insert an overlay")
	}
}

func TestRemoteDispatchReplacesComponent(t *testing.T) {
	g := newGate(&wire.Response{
		HTML: `<div class="bsqt-component" data-component="cart" data-remote-controller="/cart"><p>2 items</p></div>`,
	}, nil)
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="cart" data-remote-controller="/cart">
			<p>1 item</p>
			<button data-on-click="add" data-param-item="tea">Add</button>
		</div>`, WithTransport(g))

	p.Click(mustFind(t, p, "button"))

	c := <-g.started
	if c.endpoint != "/cart" {
		t.Errorf("endpoint = %q, want /cart", c.endpoint)
	}
	want := wire.Request{Event: "add", Data: map[string]any{"item": "tea"}}
	if diff := cmp.Diff(want, c.req); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(p.HTML(), OverlayClass) {
		t.Error("an overlay should cover the component while the request is in flight")
	}

	close(g.release)
	waitIdle(t, p)

	out := p.HTML()
	if !strings.Contains(out, "2 items") || strings.Contains(out, "1 item<") {
		t.Errorf("HTML() = %q, want the replaced component", out)
	}
	if strings.Contains(out, OverlayClass) {
		t.Error("overlay should be removed after settling")
	}
}

func TestRemoteDispatchInnerTarget(t *testing.T) {
	rec := &recorder{respond: func(call) (*wire.Response, error) {
		return &wire.Response{Inner: "<li>new</li>", Target: ".list"}, nil
	}}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="todo" data-remote-controller="/todo">
			<ul class="list"><li>old</li></ul>
			<span class="keep">kept</span>
			<button data-on-click="reload">Reload</button>
		</div>`, WithTransport(rec))

	p.Click(mustFind(t, p, "button"))
	waitIdle(t, p)

	ul := mustFind(t, p, "ul.list")
	if got := render(ul); got != `<ul class="list"><li>new</li></ul>` {
		t.Errorf("list = %q, want new children", got)
	}
	if mustFind(t, p, "span.keep") == nil {
		t.Error("content outside the target should stay")
	}
}

func TestParamsOuterDeclarationWins(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c" data-param-x="outer" data-param-top="1">
			<section data-param-x="middle" data-param-mid="2">
				<button data-on-click="go" data-param-x="inner" data-param-low="3">Go</button>
			</section>
		</div>`)

	var got map[string]any
	p.Component("c").On("go", func(c *Context, data map[string]any) { got = data })
	p.Click(mustFind(t, p, "button"))

	want := map[string]any{"x": "outer", "top": "1", "mid": "2", "low": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsStopAtComponent(t *testing.T) {
	p := newTestPage(t, `
		<div data-param-outside="1">
			<div class="bsqt-component" data-component="c">
				<button data-on-click="go">Go</button>
			</div>
		</div>`)

	var got map[string]any
	p.Component("c").On("go", func(c *Context, data map[string]any) { got = data })
	p.Click(mustFind(t, p, "button"))

	if _, ok := got["outside"]; ok {
		t.Errorf("payload = %v, params above the component must not be collected", got)
	}
}

func TestChangeSerializesOrigin(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   map[string]any
	}{
		{
			name:   "enabled field",
			markup: `<select name="size" data-on-change="pick"><option>s</option><option selected>m</option></select>`,
			want:   map[string]any{"size": "m"},
		},
		{
			name:   "disabled field",
			markup: `<select name="size" disabled data-on-change="pick"><option selected>m</option></select>`,
			want:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPage(t, `<div class="bsqt-component" data-component="c">`+tt.markup+`</div>`)
			var got map[string]any
			p.Component("c").On("pick", func(c *Context, data map[string]any) { got = data })

			p.Change(mustFind(t, p, "select"))

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScopeSerialization(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		click string
	}{
		{"this", "this", "button"},
		{"ancestor selector", "form", "button"},
		{"descendant selector", ".fields", "form"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPage(t, `
				<div class="bsqt-component" data-component="c">
					<form data-scope="`+tt.scope+`" data-on-click="save">
						<div class="fields">
							<input name="user.name" value="Ada">
							<input name="tags[]" value="x">
							<input name="tags[]" value="y">
							<input type="checkbox" name="agree" value="true" checked>
							<input name="secret" value="s" disabled>
						</div>
						<button type="button">Save</button>
					</form>
				</div>`)

			var got map[string]any
			p.Component("c").On("save", func(c *Context, data map[string]any) { got = data })
			p.Click(mustFind(t, p, tt.click))

			want := map[string]any{
				"user":  map[string]any{"name": "Ada"},
				"tags":  []any{"x", "y"},
				"agree": true,
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMultipleEventsGetOwnPayloads(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<button data-on-click="a;b" data-param-n="1">Go</button>
		</div>`)

	var order []string
	var second map[string]any
	comp := p.Component("c")
	comp.On("a", func(c *Context, data map[string]any) {
		order = append(order, "a")
		data["n"] = "changed"
	})
	comp.On("b", func(c *Context, data map[string]any) {
		order = append(order, "b")
		second = data
	})

	p.Click(mustFind(t, p, "button"))

	if diff := cmp.Diff([]string{"a", "b"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if second["n"] != "1" {
		t.Errorf("second payload n = %v, want 1", second["n"])
	}
}

func TestRouting(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="outer" id="o">
			<div class="bsqt-component" data-component="inner" id="i">
				<button id="plain" data-on-click="ping">Plain</button>
				<button id="named" data-on-click="outer:ping">Named</button>
				<button id="sibling" data-on-click="side:ping">Sibling</button>
			</div>
		</div>
		<div class="bsqt-component" data-component="side" id="s1"></div>
		<div class="bsqt-component" data-component="side" id="s2"></div>`)

	var got []string
	record := func(c *Context, data map[string]any) {
		got = append(got, attr(c.Element(), "id"))
	}
	p.Component("outer").On("ping", record)
	p.Component("inner").On("ping", record)
	p.Component("side").On("ping", record)

	p.Click(mustFind(t, p, "#plain"))
	p.Click(mustFind(t, p, "#named"))
	p.Click(mustFind(t, p, "#sibling"))

	if diff := cmp.Diff([]string{"i", "o", "s1"}, got); diff != "" {
		t.Errorf("claims mismatch (-want +got):\n%s", diff)
	}
}

func TestDetachedOriginDropped(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<button data-on-click="go">Go</button>
		</div>`)
	called := false
	p.Component("c").On("go", func(c *Context, data map[string]any) { called = true })

	btn := mustFind(t, p, "button")
	p.Do(func(root *html.Node) {
		btn.Parent.RemoveChild(btn)
	})
	p.Click(btn)

	if called {
		t.Error("events from detached elements should be dropped")
	}
	if err := p.Trigger(btn, "click", nil); !errors.Is(err, ErrDetached) {
		t.Errorf("Trigger(detached) error = %v, want ErrDetached", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
		calls  int
	}{
		{"declined", false, 0},
		{"accepted", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked string
			p := newTestPage(t, `
				<div class="bsqt-component" data-component="c">
					<button data-on-click="delete" data-confirm="Really?">Delete</button>
				</div>`,
				WithConfirm(func(msg string) bool {
					asked = msg
					return tt.answer
				}))

			calls := 0
			p.Component("c").On("delete", func(c *Context, data map[string]any) { calls++ })
			p.Click(mustFind(t, p, "button"))

			if asked != "Really?" {
				t.Errorf("confirm message = %q, want Really?", asked)
			}
			if calls != tt.calls {
				t.Errorf("handler called %d times, want %d", calls, tt.calls)
			}
		})
	}
}

func TestTrigger(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<div id="box" data-on-refresh="reload" data-param-k="v"><span id="child"></span></div>
		</div>`)

	var got map[string]any
	p.Component("c").On("reload", func(c *Context, data map[string]any) { got = data })

	data := map[string]any{"page": 2}
	if err := p.Trigger(mustFind(t, p, "#child"), "refresh", data); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{"page": 2, "k": "v"}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if _, ok := data["k"]; ok {
		t.Error("Trigger() must not modify the caller's data")
	}

	got = nil
	if err := p.Trigger(mustFind(t, p, "#child"), "Refresh", nil); err != nil {
		t.Fatalf("Trigger(Refresh) error = %v", err)
	}
	if got == nil {
		t.Error("trigger names should match markers case-insensitively")
	}

	if err := p.Trigger(mustFind(t, p, "#child"), "missing", nil); !IsNoTrigger(err) {
		t.Errorf("Trigger(missing) error = %v, want no trigger", err)
	}
	if err := p.Trigger(&html.Node{Type: html.TextNode}, "refresh", nil); !errors.Is(err, ErrNotElement) {
		t.Errorf("Trigger(text) error = %v, want ErrNotElement", err)
	}
}

func TestBlurFiresChange(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<input name="title" value="old" data-on-change="rename">
		</div>`)

	var got []map[string]any
	p.Component("c").On("rename", func(c *Context, data map[string]any) { got = append(got, data) })

	in := mustFind(t, p, "input")
	p.Focus(in)
	p.Blur()
	if len(got) != 0 {
		t.Fatalf("blur without edit fired %d changes, want 0", len(got))
	}

	p.Focus(in)
	p.SetValue(in, "new")
	p.Blur()
	if diff := cmp.Diff([]map[string]any{{"title": "new"}}, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestCascadeOrder(t *testing.T) {
	rec := &recorder{respond: func(c call) (*wire.Response, error) {
		if c.req.Event != "save" {
			return &wire.Response{}, nil
		}
		return &wire.Response{Trigger: []wire.Cascade{
			{Event: "refresh", Data: map[string]any{"n": float64(1)}},
			{Component: "other", Event: "reset"},
		}}, nil
	}}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="form" data-remote-controller="/form">
			<button data-on-click="save">Save</button>
		</div>
		<div class="bsqt-component" data-component="other" id="other"></div>`,
		WithTransport(rec))

	var order []string
	var refreshData map[string]any
	var resetOn string
	p.Component("form").On("refresh", func(c *Context, data map[string]any) {
		order = append(order, "refresh")
		refreshData = data
	})
	p.Component("other").On("reset", func(c *Context, data map[string]any) {
		order = append(order, "reset")
		resetOn = attr(c.Element(), "id")
	})

	p.Click(mustFind(t, p, "button"))
	waitIdle(t, p)

	if diff := cmp.Diff([]string{"refresh", "reset"}, order); diff != "" {
		t.Errorf("cascade order mismatch (-want +got):\n%s", diff)
	}
	if refreshData["n"] != float64(1) {
		t.Errorf("refresh data = %v, want n=1", refreshData)
	}
	if resetOn != "other" {
		t.Errorf("reset claimed by %q, want other", resetOn)
	}
}

func TestCascadeTarget(t *testing.T) {
	rec := &recorder{respond: func(c call) (*wire.Response, error) {
		return &wire.Response{Trigger: []wire.Cascade{{Event: "mark", Target: "li"}}}, nil
	}}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="list" data-remote-controller="/list">
			<ul><li id="a"></li><li id="b"></li></ul>
			<button data-on-click="sync">Sync</button>
		</div>`, WithTransport(rec))

	var got int
	p.Component("list").On("mark", func(c *Context, data map[string]any) { got++ })
	p.Click(mustFind(t, p, "button"))
	waitIdle(t, p)

	if got != 2 {
		t.Errorf("mark fired %d times, want once per matching descendant", got)
	}
}

func TestFocusSurvivesPatch(t *testing.T) {
	rec := &recorder{respond: func(call) (*wire.Response, error) {
		return &wire.Response{HTML: `
			<div class="bsqt-component" data-component="c" data-remote-controller="/c">
				<input name="title" value="">
				<button data-on-click="save">Save</button>
			</div>`}, nil
	}}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c" data-remote-controller="/c">
			<input name="title" value="">
			<button data-on-click="save">Save</button>
		</div>`, WithTransport(rec))

	in := mustFind(t, p, "input")
	p.Focus(in)
	p.SetValue(in, "abc")
	p.Select(in, 2, 2)
	p.Click(mustFind(t, p, "button"))
	waitIdle(t, p)

	focused, start, end := p.Focused()
	if focused == nil || focused == in {
		t.Fatalf("Focused() = %v, want the new input", focused)
	}
	if got := p.Value(focused); got != "abc" {
		t.Errorf("restored value = %q, want abc", got)
	}
	if start != 2 || end != 2 {
		t.Errorf("restored selection = %d..%d, want 2..2", start, end)
	}
	if n := len(rec.Calls()); n != 1 {
		t.Errorf("transport called %d times, want 1 (no change on patch blur)", n)
	}

	// the restored value is not an edit: blurring must not fire change
	p.Blur()
	waitIdle(t, p)
	if n := len(rec.Calls()); n != 1 {
		t.Errorf("transport called %d times after blur, want 1", n)
	}
}

func TestDebounceCoalesces(t *testing.T) {
	rec := &recorder{}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="search" data-remote-controller="/search" data-on-change="filter">
			<input name="q">
		</div>`, WithTransport(rec), WithKeyUpDelay(50*time.Millisecond))

	in := mustFind(t, p, "input")
	p.Type(in, "a")
	p.Type(in, "ab")
	p.Type(in, "abc")

	pending := false
	p.Do(func(*html.Node) { pending = hasClass(in, PendingClass) })
	if !pending {
		t.Error("input should carry the pending class while a dispatch is scheduled")
	}

	waitIdle(t, p)

	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("transport called %d times, want 1", len(calls))
	}
	want := wire.Request{Event: "filter", Data: map[string]any{"q": "abc"}}
	if diff := cmp.Diff(want, calls[0].req); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	p.Do(func(*html.Node) { pending = hasClass(in, PendingClass) })
	if pending {
		t.Error("pending class should be removed once the dispatch completes")
	}
}

func TestDebouncePerElement(t *testing.T) {
	rec := &recorder{}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="f" data-remote-controller="/f" data-on-change="save">
			<input name="a"><input name="b">
		</div>`, WithTransport(rec), WithKeyUpDelay(30*time.Millisecond))

	a := mustFind(t, p, "input[name=a]")
	b := mustFind(t, p, "input[name=b]")
	p.SetValue(a, "1")
	p.KeyUp(a)
	p.SetValue(b, "2")
	p.KeyUp(b)
	waitIdle(t, p)

	if n := len(rec.Calls()); n != 2 {
		t.Errorf("transport called %d times, want one per element", n)
	}
}

func TestLiveTypingSkipsPatch(t *testing.T) {
	rec := &recorder{respond: func(call) (*wire.Response, error) {
		return &wire.Response{
			HTML:    `<div class="bsqt-component" data-component="search">replaced</div>`,
			Trigger: []wire.Cascade{{Event: "typed"}},
		}, nil
	}}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="search" data-remote-controller="/search" data-on-change="filter">
			<input name="q">
		</div>`, WithTransport(rec), WithKeyUpDelay(10*time.Millisecond))

	typed := 0
	p.Component("search").On("typed", func(c *Context, data map[string]any) { typed++ })

	p.Type(mustFind(t, p, "input"), "abc")
	waitIdle(t, p)

	if strings.Contains(p.HTML(), "replaced") {
		t.Error("live-typing responses must not patch the document")
	}
	if typed != 1 {
		t.Errorf("cascade fired %d times, want 1", typed)
	}
	if strings.Contains(p.HTML(), OverlayClass) {
		t.Error("live typing must not leave an overlay")
	}
}

func TestCloseCancelsDebounce(t *testing.T) {
	rec := &recorder{}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="s" data-remote-controller="/s" data-on-change="filter">
			<input name="q">
		</div>`, WithTransport(rec), WithKeyUpDelay(50*time.Millisecond))

	p.Type(mustFind(t, p, "input"), "abc")
	p.Close()
	waitIdle(t, p)
	time.Sleep(80 * time.Millisecond)

	if n := len(rec.Calls()); n != 0 {
		t.Errorf("transport called %d times after Close, want 0", n)
	}
}

func TestOverlayPlacement(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		overlay bool
		before  string
	}{
		{
			name: "component",
			markup: `<div class="bsqt-component" data-component="c" data-remote-controller="/c" id="comp">
				<button data-on-click="go">Go</button></div>`,
			overlay: true,
			before:  "comp",
		},
		{
			name: "declared target",
			markup: `<div class="bsqt-component" data-component="c" data-remote-controller="/c">
				<section class="card" id="card"><button data-on-click="go" data-overlay=".card">Go</button></section></div>`,
			overlay: true,
			before:  "card",
		},
		{
			name: "suppressed",
			markup: `<div class="bsqt-component" data-component="c" data-remote-controller="/c" data-no-overlay>
				<button data-on-click="go">Go</button></div>`,
			overlay: false,
		},
		{
			name: "innermost declaration decides",
			markup: `<div class="bsqt-component" data-component="c" data-remote-controller="/c" id="comp">
				<section id="outer" data-overlay="this"><button data-on-click="go" data-overlay=".nomatch">Go</button></section></div>`,
			overlay: true,
			before:  "comp",
		},
		{
			name: "explicitly not suppressed",
			markup: `<div class="bsqt-component" data-component="c" data-remote-controller="/c" id="comp" data-no-overlay="false">
				<button data-on-click="go">Go</button></div>`,
			overlay: true,
			before:  "comp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGate(&wire.Response{}, nil)
			p := newTestPage(t, tt.markup, WithTransport(g))

			p.Click(mustFind(t, p, "button"))
			<-g.started

			overlays, _ := p.Find("." + OverlayClass)
			if !tt.overlay {
				if len(overlays) != 0 {
					t.Errorf("found %d overlays, want none", len(overlays))
				}
			} else {
				if len(overlays) != 1 {
					t.Fatalf("found %d overlays, want 1", len(overlays))
				}
				var next string
				p.Do(func(*html.Node) { next = attr(overlays[0].NextSibling, "id") })
				if next != tt.before {
					t.Errorf("overlay placed before %q, want %q", next, tt.before)
				}
			}

			close(g.release)
			waitIdle(t, p)
			if overlays, _ := p.Find("." + OverlayClass); len(overlays) != 0 {
				t.Errorf("found %d overlays after settling, want none", len(overlays))
			}
		})
	}
}

type fixedLayout struct{}

func (fixedLayout) Bounds(n *html.Node) (Rect, bool) {
	return Rect{Left: 1, Top: 2, Width: 30, Height: 40}, true
}

func TestOverlayUsesLayout(t *testing.T) {
	g := newGate(&wire.Response{}, nil)
	p := newTestPage(t, `<div class="bsqt-component" data-component="c" data-remote-controller="/c">
		<button data-on-click="go">Go</button></div>`, WithTransport(g), WithLayout(fixedLayout{}))

	p.Click(mustFind(t, p, "button"))
	<-g.started
	overlay := mustFind(t, p, "."+OverlayClass)
	var style string
	p.Do(func(*html.Node) { style = attr(overlay, "style") })
	close(g.release)
	waitIdle(t, p)

	want := "position:absolute;left:1px;top:2px;width:30px;height:40px"
	if style != want {
		t.Errorf("overlay style = %q, want %q", style, want)
	}
}

func TestFailedDispatchCleansUp(t *testing.T) {
	rec := &recorder{respond: func(call) (*wire.Response, error) {
		return nil, &StatusError{Endpoint: "/s", Code: 500}
	}}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="s" data-remote-controller="/s" data-on-change="filter">
			<input name="q">
			<button data-on-click="go">Go</button>
		</div>`, WithTransport(rec), WithKeyUpDelay(10*time.Millisecond))

	in := mustFind(t, p, "input")
	p.Type(in, "x")
	p.Click(mustFind(t, p, "button"))
	waitIdle(t, p)

	out := p.HTML()
	if strings.Contains(out, OverlayClass) {
		t.Error("overlay should be removed after a failed dispatch")
	}
	if strings.Contains(out, PendingClass) {
		t.Error("pending class should be removed after a failed dispatch")
	}
}

func TestMissingEndpoint(t *testing.T) {
	rec := &recorder{}
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<button data-on-click="go">Go</button>
		</div>`, WithTransport(rec))

	p.Click(mustFind(t, p, "button"))
	waitIdle(t, p)

	if n := len(rec.Calls()); n != 0 {
		t.Errorf("transport called %d times, want 0", n)
	}
	if strings.Contains(p.HTML(), OverlayClass) {
		t.Error("overlay should not outlive a dispatch without endpoint")
	}
}

func TestContextDispatch(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="a"><button data-on-click="go">Go</button></div>
		<div class="bsqt-component" data-component="b"></div>`)

	var got map[string]any
	p.Component("a").On("go", func(c *Context, data map[string]any) {
		c.Dispatch("b", "hello", map[string]any{"from": "a"})
	})
	p.Component("b").On("hello", func(c *Context, data map[string]any) { got = data })

	p.Click(mustFind(t, p, "button"))

	if diff := cmp.Diff(map[string]any{"from": "a"}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestScopeXPathTakesFirstInDocumentOrder(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<div id="h" data-scope="xpath: .//*[@class='s']" data-on-click="save">
				<fieldset class="s"><input name="first" value="1"></fieldset>
				<fieldset class="s"><input name="second" value="2"></fieldset>
			</div>
		</div>`)

	var got map[string]any
	p.Component("c").On("save", func(c *Context, data map[string]any) { got = data })
	p.Click(mustFind(t, p, "#h"))

	if diff := cmp.Diff(map[string]any{"first": "1"}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckboxChangePayload(t *testing.T) {
	p := newTestPage(t, `
		<div class="bsqt-component" data-component="c">
			<input type="checkbox" name="agree" value="true" data-on-change="toggle">
			<input type="checkbox" name="color" value="red" data-on-change="toggle">
		</div>`)

	var got []map[string]any
	p.Component("c").On("toggle", func(c *Context, data map[string]any) { got = append(got, data) })

	agree := mustFind(t, p, "input[name=agree]")
	p.SetChecked(agree, true)
	p.Change(agree)
	p.SetChecked(agree, false)
	p.Change(agree)

	color := mustFind(t, p, "input[name=color]")
	p.SetChecked(color, true)
	p.Change(color)

	want := []map[string]any{
		{"agree": true},
		{"agree": false},
		{"color": "red"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payloads mismatch (-want +got):\n%s", diff)
	}
}
