package attendance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/attendance/internal/domain"
)

// SessionParam is the query parameter carrying the attendance session id.
const SessionParam = "session"

var validate = validator.New()

// Credentials is the login payload sent to the attendance backend.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Form is the state of one attendance login form. A Form belongs to a
// single request and must not be shared between goroutines.
type Form struct {
	SessionID   string
	Credentials Credentials

	Error        string
	ShowPassword bool
	Loading      bool
}

// ResolveSession reads the session id from the query string. A missing id
// leaves SessionID empty and sets the inline error.
func (f *Form) ResolveSession(query url.Values) {
	f.SessionID = query.Get(SessionParam)
	if f.SessionID == "" {
		f.Error = domain.MsgSessionMissingInURL
	}
}

// SetEmail updates the email field. Any change clears a visible error.
func (f *Form) SetEmail(v string) {
	if v == f.Credentials.Email {
		return
	}
	f.Credentials.Email = v
	f.Error = ""
}

// SetPassword updates the password field. Any change clears a visible error.
func (f *Form) SetPassword(v string) {
	if v == f.Credentials.Password {
		return
	}
	f.Credentials.Password = v
	f.Error = ""
}

// TogglePassword flips password visibility. It is a no-op while a check is
// in flight.
func (f *Form) TogglePassword() {
	if f.Loading {
		return
	}
	f.ShowPassword = !f.ShowPassword
}

// PasswordInputType is the type attribute of the rendered password input.
func (f *Form) PasswordInputType() string {
	if f.ShowPassword {
		return "text"
	}
	return "password"
}

// Validate checks the required fields and the session id, in that order.
// It sets the inline error on failure.
func (f *Form) Validate() error {
	if err := validate.Struct(f.Credentials); err != nil {
		f.Error = domain.MsgFieldsRequired
		return domain.ErrMissingFields
	}
	if f.SessionID == "" {
		f.Error = domain.MsgSessionMissing
		return domain.ErrMissingSession
	}
	return nil
}

// Submit validates the form and performs exactly one attendance check.
// Loading is true only while the check runs. If ctx is done by the time the
// check returns, the outcome is discarded and ErrAborted is returned.
func (f *Form) Submit(ctx context.Context, checker Checker, cookies []*http.Cookie) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	f.Loading = true
	f.Error = ""
	defer func() { f.Loading = false }()

	result, err := checker.Check(ctx, f.SessionID, f.Credentials, cookies)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAborted, ctxErr)
	}
	if err != nil {
		f.Error = MessageFor(err)
		return nil, err
	}
	if result == nil {
		result = &Result{}
	}
	return result, nil
}
