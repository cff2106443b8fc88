// Package remote answers bisquit dispatches on the server.
//
// A page dispatches an event to a component's endpoint as a form POST
// carrying the event name and a JSON payload. A Controller routes that
// event to a handler, and the handler's Result says how the page changes:
// markup replacing the component (or its children, or a narrower target)
// and follow-up events to cascade.
//
//	cart := remote.New("cart")
//	cart.On("add", func(ctx context.Context, req *remote.Request) remote.Result {
//	    item := req.String("item")
//	    store.Add(ctx, item)
//	    return remote.Replace(cartView(store.Items())).
//	        TriggerComponent("header", "refresh", nil).
//	        Flash(remote.FlashSuccess, "Added "+item)
//	})
//
//	reg := remote.NewRegistry(key)
//	reg.Add(cart)
//	http.Handle(remote.PathPrefix, reg.Handler())
//
// # Markup
//
// Templates bind elements to controllers with attribute builders:
//
//	<div { cart.Attrs()... }>
//	    <button { remote.OnClick("add")... } { remote.Params(map[string]string{"item": "tea"})... }>Add</button>
//	</div>
//
// Each controller receives a unique endpoint derived from its name and
// source location. The registry prevents endpoint collisions at
// registration time.
//
// # State
//
// Controllers can round-trip state through the page without trusting the
// client: StateParam embeds a signed (or, with Sensitive, encrypted)
// msgpack token as a parameter, and Request.State decodes it on the next
// dispatch.
//
// # Security
//
// Registry.Handler rejects mutating requests that lack the
// X-Requested-With: XMLHttpRequest header every bisquit page sends, which
// a cross-site form post cannot set.
package remote
