package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer defines the contract for rendering templ components and gomponents nodes.
type Renderer interface {
	// RenderComponent renders a component to a slice of bytes.
	RenderComponent(ctx context.Context, component interface{}) ([]byte, error)

	// RenderPage writes a full HTML response with the given status.
	RenderPage(c echo.Context, status int, component interface{}) error
}

// UniversalRenderer handles rendering for both component types.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode is the structural interface of gomponents.Node.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component interface{}, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T. Component must be templ.Component or implement Render(io.Writer) error (like gomponents.Node)", component)
	}
}

// RenderComponent implements the Renderer interface.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface for full HTTP responses.
// The component is rendered into a buffer first so a rendering error can
// still produce a proper error response.
func (tr *UniversalRenderer) RenderPage(c echo.Context, status int, component interface{}) error {
	body, err := tr.RenderComponent(c.Request().Context(), component)
	if err != nil {
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements the echo.Renderer interface for use with c.Render(status, name, component).
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return tr.render(c.Request().Context(), data, w)
}
