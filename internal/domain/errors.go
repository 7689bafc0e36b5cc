package domain

import "errors"

// Sentinel errors for the attendance flow. Handlers classify failures with
// errors.Is and map them to the user-facing messages below.
var (
	ErrMissingSession = errors.New("attendance session id missing")
	ErrMissingFields  = errors.New("email and password are required")
	ErrAborted        = errors.New("attendance check aborted")
)

// User-facing messages shown inline and in notifications.
const (
	MsgSessionMissingInURL = "Attendance session ID missing in URL."
	MsgSessionMissing      = "Attendance session ID missing."
	MsgFieldsRequired      = "All fields are required"
	MsgNetworkError        = "Network error. Please try again."
)
