package view

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Mode is the colour scheme of a page.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"

	themeParam = "theme"

	// ThemeCookieName remembers the theme chosen with ?theme=.
	ThemeCookieName = "theme"
)

// Theme is the explicit palette handed to the page renderers.
type Theme struct {
	Mode          Mode
	Primary       string
	PrimaryDark   string
	PrimaryLight  string
	Secondary     string
	Background    string
	Paper         string
	Text          string
	TextSecondary string
	Divider       string
	Error         string
	ErrorSurface  string
	Success       string
}

// LightTheme is the default palette.
func LightTheme() Theme {
	return Theme{
		Mode:          ModeLight,
		Primary:       "#2563eb",
		PrimaryDark:   "#1d4ed8",
		PrimaryLight:  "#60a5fa",
		Secondary:     "#7c3aed",
		Background:    "#f8fafc",
		Paper:         "#ffffff",
		Text:          "#0f172a",
		TextSecondary: "#64748b",
		Divider:       "#e2e8f0",
		Error:         "#b91c1c",
		ErrorSurface:  "#fef2f2",
		Success:       "#15803d",
	}
}

// DarkTheme is the palette used in dark mode.
func DarkTheme() Theme {
	return Theme{
		Mode:          ModeDark,
		Primary:       "#3b82f6",
		PrimaryDark:   "#1e40af",
		PrimaryLight:  "#93c5fd",
		Secondary:     "#a78bfa",
		Background:    "#0f172a",
		Paper:         "#1e293b",
		Text:          "#f1f5f9",
		TextSecondary: "#94a3b8",
		Divider:       "#334155",
		Error:         "#fca5a5",
		ErrorSurface:  "#450a0a",
		Success:       "#86efac",
	}
}

// ThemeFor returns the palette for a mode name; anything but "dark" is light.
func ThemeFor(mode string) Theme {
	if Mode(strings.ToLower(strings.TrimSpace(mode))) == ModeDark {
		return DarkTheme()
	}
	return LightTheme()
}

// ResolveTheme picks the theme for a request: the ?theme= parameter (which is
// remembered in a cookie), then the theme cookie, then fallback.
func ResolveTheme(c echo.Context, fallback string) Theme {
	if mode := c.QueryParam(themeParam); mode != "" {
		theme := ThemeFor(mode)
		c.SetCookie(&http.Cookie{
			Name:     ThemeCookieName,
			Value:    string(theme.Mode),
			Path:     "/",
			Expires:  time.Now().UTC().Add(365 * 24 * time.Hour),
			SameSite: http.SameSiteLaxMode,
		})
		return theme
	}
	if ck, err := c.Cookie(ThemeCookieName); err == nil && ck.Value != "" {
		return ThemeFor(ck.Value)
	}
	return ThemeFor(fallback)
}

// PageBackground is the full-viewport gradient behind the card.
func (t Theme) PageBackground() string {
	if t.Mode == ModeDark {
		return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", t.Background, alpha(t.PrimaryDark, 0.8))
	}
	return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", t.Primary, t.Secondary)
}

// ButtonBackground returns the idle and hover gradients of the submit button.
func (t Theme) ButtonBackground() (idle, hover string) {
	if t.Mode == ModeDark {
		return fmt.Sprintf("linear-gradient(135deg, %s, %s)", t.Primary, t.PrimaryLight),
			fmt.Sprintf("linear-gradient(135deg, %s, %s)", t.PrimaryDark, t.Primary)
	}
	return fmt.Sprintf("linear-gradient(135deg, %s, %s)", t.Primary, t.PrimaryDark),
		fmt.Sprintf("linear-gradient(135deg, %s, %s)", t.PrimaryDark, t.Secondary)
}

// CardShadow returns the resting and hover shadows of the card.
func (t Theme) CardShadow() (rest, hover string) {
	if t.Mode == ModeDark {
		return "0 20px 60px rgba(0,0,0,0.4)", "0 25px 80px rgba(0,0,0,0.5)"
	}
	return "0 20px 60px rgba(0,0,0,0.12)", "0 25px 80px rgba(0,0,0,0.15)"
}

// CSS renders the stylesheet for the theme.
func (t Theme) CSS() string {
	btnIdle, btnHover := t.ButtonBackground()
	shadow, shadowHover := t.CardShadow()
	btnGlow := "0 8px 25px rgba(37, 99, 235, 0.3)"
	if t.Mode == ModeDark {
		btnGlow = "0 8px 25px rgba(59, 130, 246, 0.4)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":root{color-scheme:%s;--primary:%s;--text:%s;--text-secondary:%s;--error:%s;--error-surface:%s;--success:%s}\n",
		t.Mode, t.Primary, t.Text, t.TextSecondary, t.Error, t.ErrorSurface, t.Success)
	b.WriteString("*{box-sizing:border-box}html,body{margin:0;padding:0;font-family:Inter,system-ui,sans-serif;color:var(--text)}\n")
	fmt.Fprintf(&b, ".page{position:fixed;inset:0;display:flex;align-items:center;justify-content:center;padding:16px;background:%s;transition:all .3s ease-in-out}\n", t.PageBackground())
	fmt.Fprintf(&b, ".card{width:90%%;max-width:420px;border-radius:24px;padding:24px;background:%s;backdrop-filter:blur(20px);border:1px solid %s;box-shadow:%s;transition:all .3s ease-in-out;animation:slide-up .8s ease-out}\n",
		alpha(t.Paper, 0.95), alpha(t.Divider, 0.2), shadow)
	fmt.Fprintf(&b, ".card:hover{box-shadow:%s;transform:translateY(-2px)}\n", shadowHover)
	b.WriteString("@keyframes slide-up{from{transform:translateY(40px);opacity:0}to{transform:none;opacity:1}}\n")
	b.WriteString(".card-header{text-align:center;margin-bottom:16px}.card-header h1{font-size:1.5rem;font-weight:700;margin:0 0 4px}.card-header p{margin:0;color:var(--text-secondary)}\n")
	fmt.Fprintf(&b, ".field{position:relative;margin-bottom:16px}.field label{display:block;font-size:.85rem;margin-bottom:4px;color:var(--text-secondary)}.field input{width:100%%;padding:12px 44px 12px 12px;border-radius:8px;border:1px solid %s;background:transparent;color:var(--text);font-size:1rem}\n", t.Divider)
	b.WriteString(".field input:focus{outline:2px solid var(--primary);border-color:transparent}\n")
	b.WriteString(".toggle{position:absolute;right:6px;bottom:6px;border:0;background:transparent;color:var(--primary);cursor:pointer;padding:6px 8px;font-size:.8rem}\n")
	b.WriteString(".alert{padding:12px;border-radius:8px;margin-bottom:16px;background:var(--error-surface);color:var(--error)}\n")
	fmt.Fprintf(&b, ".submit{width:100%%;padding:12px;border:0;border-radius:16px;color:#fff;font-size:1.1rem;font-weight:700;cursor:pointer;background:%s;transition:all .2s}\n", btnIdle)
	fmt.Fprintf(&b, ".submit:hover{background:%s;transform:translateY(-1px);box-shadow:%s}.submit:active{transform:none}.submit:disabled{opacity:.7;cursor:progress}\n", btnHover, btnGlow)
	b.WriteString(".default-submit{position:absolute;left:-9999px;width:1px;height:1px;overflow:hidden}\n")
	b.WriteString(".busy-label{display:none}.htmx-request .busy-label,.is-loading .busy-label{display:inline-flex;align-items:center;gap:8px}.htmx-request .idle-label,.is-loading .idle-label{display:none}\n")
	b.WriteString(".spinner{width:16px;height:16px;border:2px solid currentColor;border-right-color:transparent;border-radius:50%;animation:spin .8s linear infinite}@keyframes spin{to{transform:rotate(360deg)}}\n")
	b.WriteString(".card-footer{text-align:center;margin-top:16px;font-size:.875rem;color:var(--text-secondary)}\n")
	fmt.Fprintf(&b, "#notifications{position:fixed;top:16px;left:50%%;transform:translateX(-50%%);z-index:10;display:flex;flex-direction:column;gap:8px}.toast{min-width:280px;padding:12px 16px;border-radius:12px;background:%s;box-shadow:%s;animation:toast-out 6s forwards}\n", t.Paper, shadow)
	b.WriteString(".toast strong{display:block}.toast-success strong{color:var(--success)}.toast-error strong{color:var(--error)}@keyframes toast-out{0%,85%{opacity:1}100%{opacity:0;visibility:hidden}}\n")
	return b.String()
}

// alpha converts a #rrggbb colour to rgba with the given opacity.
func alpha(hex string, a float64) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", r, g, b, a)
}
