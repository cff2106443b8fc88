package remote

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/bisquit"
	"github.com/pthm/bisquit/wire"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Toasts is the component id flash messages are cascaded to, and
// FlashEvent the event they arrive as.
const (
	Toasts     = "toasts"
	FlashEvent = "flash"
)

// ToastSlot is the class of the empty element closing the toast container.
// Each new toast replaces the slot together with a fresh one, so toasts
// accumulate instead of replacing each other.
const ToastSlot = "toast-slot"

// Flash represents a one-time notification message.
//
// Flash messages cascade to the toasts component as a "flash" event with
// the level and message as data. The page handles that event however it
// likes: a local handler, or the controller returned by NewToasts.
type Flash struct {
	Level   string // success, error, warning, info
	Message string
}

func (f Flash) cascade() wire.Cascade {
	return wire.Cascade{
		Component: Toasts,
		Event:     FlashEvent,
		Data:      map[string]any{"level": f.Level, "message": f.Message},
	}
}

// RenderFlash renders one toast.
//
// The data-auto-dismiss attribute tells the page's toast handler to
// remove the toast after the given delay (milliseconds).
func RenderFlash(f Flash) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div class="toast toast-`)
		sb.WriteString(html.EscapeString(f.Level))
		sb.WriteString(`" data-auto-dismiss="3000">`)
		sb.WriteString(html.EscapeString(f.Message))
		sb.WriteString(`</div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// ToastContainer returns a templ component for the toast container.
//
// Add this to your layout template (typically near the end of <body>):
//
//	@remote.ToastContainer(toasts)
//
// Pass the controller from NewToasts to have flashes rendered by the
// server, or nil to handle the flash event locally on the page.
func ToastContainer(c *Controller) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div id="toasts" class="`)
		sb.WriteString(bisquit.ComponentClass)
		sb.WriteString(` toast-container" `)
		sb.WriteString(bisquit.AttrComponent)
		sb.WriteString(`="`)
		sb.WriteString(Toasts)
		sb.WriteString(`"`)
		if c != nil {
			sb.WriteString(` `)
			sb.WriteString(bisquit.AttrRemote)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(c.Endpoint()))
			sb.WriteString(`"`)
		}
		sb.WriteString(`>`)
		sb.WriteString(toastSlotMarkup)
		sb.WriteString(`</div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

const toastSlotMarkup = `<div class="` + ToastSlot + `"></div>`

// AppendFlash renders one toast followed by a new slot. Patch it over the
// container's slot to append the toast.
func AppendFlash(f Flash) templ.Component {
	return templ.Join(RenderFlash(f), templ.Raw(toastSlotMarkup))
}

// NewToasts returns a controller for the toasts component that answers
// each flash event by appending that toast to the container.
func NewToasts() *Controller {
	c := &Controller{
		name:     Toasts,
		endpoint: PathPrefix + Toasts + "-" + componentHash(Toasts, 1),
		handlers: make(map[string]HandlerFunc),
	}
	c.On(FlashEvent, func(ctx context.Context, req *Request) Result {
		f := Flash{Level: req.String("level"), Message: req.String("message")}
		if f.Message == "" {
			return None()
		}
		return Replace(AppendFlash(f)).Target("." + ToastSlot)
	})
	return c
}
