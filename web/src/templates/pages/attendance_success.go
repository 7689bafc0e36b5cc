package pages

import (
	dto "github.com/nfrund/attendance/internal/view/dto/attendance"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// AttendanceSuccess is the confirmation page shown after a recorded check.
func AttendanceSuccess(data dto.SuccessData) g.Node {
	body := "Your attendance has been recorded."
	if data.SessionID == "" {
		body = "Attendance session not found."
	}

	return h.Div(
		h.Class("card"),
		h.Header(
			h.Class("card-header"),
			h.H1(g.Text("Attendance Recorded")),
			g.If(data.SessionID != "", h.P(g.Text("Session: "+data.SessionID))),
		),
		h.P(g.Text(body)),
		h.Footer(
			h.Class("card-footer"),
			h.A(h.Href(data.LoginURL), g.Text("Back to attendance login")),
		),
	)
}
