package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the attendance login form submission. Required-field
// checks happen in the attendance form so the user sees the inline message.
type LoginRequest struct {
	Email        string `form:"email"`
	Password     string `form:"password"`
	ShowPassword bool   `form:"show_password"`
	Intent       string `form:"intent" validate:"omitempty,oneof=submit toggle-password"`
}
