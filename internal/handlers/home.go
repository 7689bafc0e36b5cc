package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HomeHandler handles requests for the site root.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet sends visitors to the attendance login, keeping the query string
// so links like /?session=abc keep working.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	target := LoginPath
	if q := c.QueryString(); q != "" {
		target += "?" + q
	}
	return c.Redirect(http.StatusFound, target)
}
