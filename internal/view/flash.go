package view

import (
	"encoding/gob"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// FlashSessionName is the cookie holding pending notifications.
	FlashSessionName = "flash-session"

	// Notification kinds, also used as the flash keys.
	KindSuccess = "success"
	KindError   = "error"
)

// Notification is a transient message shown as a toast.
type Notification struct {
	Kind  string
	Title string
	Text  string
}

// FlashData holds the notifications pending for the current request.
type FlashData struct {
	Success []Notification
	Error   []Notification
}

// All returns every notification, successes first.
func (f FlashData) All() []Notification {
	return append(append([]Notification{}, f.Success...), f.Error...)
}

func init() {
	// Flashes are gob-encoded into the cookie store.
	gob.Register(Notification{})
}

// SuccessNotification builds a success toast.
func SuccessNotification(title, text string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Text: text}
}

// ErrorNotification builds a failure toast.
func ErrorNotification(title, text string) Notification {
	return Notification{Kind: KindError, Title: title, Text: text}
}

// setFlash sets a flash message in the session.
func setFlash(c echo.Context, key string, n Notification) {
	sess, err := session.Get(FlashSessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(n, key)
	_ = sess.Save(c.Request(), c.Response())
}

// SetFlashSuccess queues a success notification for the next page.
func SetFlashSuccess(c echo.Context, title, text string) {
	setFlash(c, KindSuccess, SuccessNotification(title, text))
}

// SetFlashError queues a failure notification for the next page.
func SetFlashError(c echo.Context, title, text string) {
	setFlash(c, KindError, ErrorNotification(title, text))
}

// GetFlashData retrieves and clears flash messages from the session.
func GetFlashData(c echo.Context) FlashData {
	var data FlashData

	sess, err := session.Get(FlashSessionName, c)
	if err != nil {
		return data
	}

	// Flashes() reads and removes the values; saving persists the removal.
	successFlashes := sess.Flashes(KindSuccess)
	errorFlashes := sess.Flashes(KindError)
	if len(successFlashes) == 0 && len(errorFlashes) == 0 {
		return data
	}

	data.Success = toNotifications(successFlashes)
	data.Error = toNotifications(errorFlashes)
	_ = sess.Save(c.Request(), c.Response())
	return data
}

func toNotifications(values []interface{}) []Notification {
	out := make([]Notification, 0, len(values))
	for _, v := range values {
		if n, ok := v.(Notification); ok {
			out = append(out, n)
		}
	}
	return out
}
