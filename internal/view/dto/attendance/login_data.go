package attendance

// LoginData is the View Model for the attendance login form.
type LoginData struct {
	SessionID    string
	Email        string
	Password     string
	Error        string
	PasswordType string
	ShowPassword bool
	Loading      bool
	Action       string
	CSRFToken    string
}

// SuccessData is the View Model for the attendance confirmation page.
type SuccessData struct {
	SessionID string
	LoginURL  string
}
