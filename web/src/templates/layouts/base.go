package layouts

import (
	"github.com/nfrund/attendance/internal/view"
	"github.com/nfrund/attendance/web/src/templates/components"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the HTML document, the theme stylesheet and the
// notification area.
func Base(title string, theme view.Theme, toasts []g.Node, content g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Data("theme", string(theme.Mode)),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(CalculateTitle(title))),
				h.StyleEl(g.Raw(theme.CSS())),
				h.Script(h.Src(htmxSrc), h.Defer()),
			),
			h.Body(
				components.NotificationArea(false, toasts...),
				h.Main(h.Class("page"), content),
			),
		),
	)
}
