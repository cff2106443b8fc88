// Package bisquit runs declarative component markup against a parsed
// document: it turns user activity on annotated elements into named
// events, routes them to the component that owns them, and either runs a
// local handler or exchanges the event with the component's remote
// controller and patches the returned markup into the page.
//
// A component is any element with the bsqt-component class and a
// data-component id. Elements inside it declare what they emit:
//
//	<div class="bsqt-component" data-component="cart" data-remote-controller="/_bsqt/cart-1a2b3c4d">
//	    <input name="qty" value="1">
//	    <button data-on-click="add;header:refresh" data-param-item="tea">Add</button>
//	</div>
//
// A Page owns the document and plays the browser's part:
//
//	page, err := bisquit.ParsePage(resp.Body,
//	    bisquit.WithTransport(bisquit.NewHTTPTransport(nil, "http://localhost:8080")),
//	    bisquit.WithLogger(logger))
//	btn, _ := page.FindOne("button")
//	page.Click(btn)
//	page.Wait()
//
// # Events
//
// A data-on-<trigger> attribute lists events separated by ";". Each is
// either an event name for the enclosing component or "component:event".
// The payload is built from the fields under data-scope (or the origin
// field itself), then every data-param-* on the way up to the component,
// outer declarations winning. Typing in a text field below a
// data-on-change container emits once the key-up delay passes without
// further keystrokes.
//
// # Routing
//
// An event walks from its origin toward the root and is handled by the
// first component element that claims it: unnamed events by the nearest
// component, named events by the nearest component with that id. A named
// event no ancestor claims goes to the first element of that component in
// the document.
//
// # Remote exchange
//
// Without a local handler the event is posted to the component's
// data-remote-controller endpoint. While it is in flight an overlay covers
// the component (or data-overlay's target). The answer may replace the
// component, its children or selected descendants, and may cascade
// further events; a focused text field survives the patch with its value
// and selection. Package remote implements the server side.
//
// # Concurrency
//
// A Page serializes everything that touches its tree. Local handlers run
// while the page is locked and must use their Context rather than the
// Page's own methods.
package bisquit
