package components

import (
	"github.com/nfrund/attendance/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// NotificationAreaID is the id of the toast container.
const NotificationAreaID = "notifications"

// Notification renders one toast.
func Notification(n view.Notification) g.Node {
	role := "status"
	if n.Kind == view.KindError {
		role = "alert"
	}
	return h.Div(
		h.Class("toast toast-"+n.Kind),
		h.Role(role),
		h.Strong(g.Text(n.Title)),
		h.Span(g.Text(n.Text)),
	)
}

// NotificationArea is the #notifications container. With oob set it is an
// htmx out-of-band swap so a fragment response can replace the toasts too.
func NotificationArea(oob bool, children ...g.Node) g.Node {
	return h.Div(
		h.ID(NotificationAreaID),
		g.If(oob, hx.SwapOOB("true")),
		h.Aria("live", "polite"),
		g.Group(children),
	)
}

// Notifications renders a toast per notification.
func Notifications(notes []view.Notification) []g.Node {
	return g.Map(notes, Notification)
}
