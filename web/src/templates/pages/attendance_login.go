package pages

import (
	dto "github.com/nfrund/attendance/internal/view/dto/attendance"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const (
	// IntentSubmit and IntentTogglePassword are the values of the "intent"
	// button sent with the form.
	IntentSubmit         = "submit"
	IntentTogglePassword = "toggle-password"

	// FormID is the id of the login form; htmx swaps the form in place.
	FormID = "attendance-form"
	// InFlightDisabled selects every button of the form. A plain selector
	// makes htmx disable all matches, where "find" would stop at the first.
	InFlightDisabled = "#" + FormID + " button"

	submitLabel = "Login & Mark Attendance"
	busyLabel   = "Logging In..."
)

// AttendanceLogin is the attendance login card.
func AttendanceLogin(data dto.LoginData) g.Node {
	subheader := "Attendance session not found"
	if data.SessionID != "" {
		subheader = "Session: " + data.SessionID
	}

	return h.Div(
		h.Class("card"),
		h.Header(
			h.Class("card-header"),
			h.H1(g.Text("Attendance Login")),
			h.P(g.Text(subheader)),
		),
		AttendanceLoginForm(data),
		h.Footer(
			h.Class("card-footer"),
			g.Text("Attendance is only for registered users."),
		),
	)
}

// AttendanceLoginForm is the form itself. It is also the fragment returned to
// htmx requests, which swap it in place.
func AttendanceLoginForm(data dto.LoginData) g.Node {
	toggleLabel := "Show password"
	toggleText := "Show"
	if data.ShowPassword {
		toggleLabel = "Hide password"
		toggleText = "Hide"
	}

	return h.Form(
		h.ID(FormID),
		h.Method("post"),
		h.Action(data.Action),
		g.If(data.Loading, h.Class("is-loading")),
		hx.Post(data.Action),
		hx.Target("this"),
		hx.Swap("outerHTML"),
		g.Attr("hx-disabled-elt", InFlightDisabled),
		// A second submit while one is in flight is dropped, not queued.
		g.Attr("hx-sync", "this:drop"),

		g.If(data.CSRFToken != "", h.Input(h.Type("hidden"), h.Name("csrf_token"), h.Value(data.CSRFToken))),
		h.Input(h.Type("hidden"), h.Name("show_password"), h.Value(boolValue(data.ShowPassword))),
		// First submit button in the form, so Enter submits rather than toggles.
		h.Button(h.Type("submit"), h.Name("intent"), h.Value(IntentSubmit), h.Class("default-submit"),
			h.TabIndex("-1"), h.Aria("hidden", "true"), g.If(data.Loading, h.Disabled())),

		h.Div(
			h.Class("field"),
			h.Label(h.For("email"), g.Text("Email Address")),
			h.Input(h.ID("email"), h.Type("email"), h.Name("email"), h.Value(data.Email),
				h.AutoComplete("email"), g.If(data.Loading, h.Disabled())),
		),
		h.Div(
			h.Class("field"),
			h.Label(h.For("password"), g.Text("Password")),
			h.Input(h.ID("password"), h.Type(data.PasswordType), h.Name("password"), h.Value(data.Password),
				h.AutoComplete("current-password"), g.If(data.Loading, h.Disabled())),
			h.Button(
				h.Type("submit"), h.Name("intent"), h.Value(IntentTogglePassword), h.Class("toggle"),
				h.Aria("label", toggleLabel), h.TabIndex("-1"), g.If(data.Loading, h.Disabled()),
				g.Text(toggleText),
			),
		),

		g.If(data.Error != "", h.Div(h.Class("alert"), h.Role("alert"), g.Text(data.Error))),

		h.Button(
			h.Type("submit"), h.Name("intent"), h.Value(IntentSubmit), h.Class("submit"),
			g.If(data.Loading, h.Disabled()),
			h.Span(h.Class("idle-label"), g.Text(submitLabel)),
			h.Span(h.Class("busy-label"), h.Span(h.Class("spinner"), h.Aria("hidden", "true")), g.Text(busyLabel)),
		),
	)
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
