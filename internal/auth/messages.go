package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// SendCodeRequest asks for a verification code to be issued to Email.
type SendCodeRequest struct {
	Email string `json:"email"`
}

// Validate ensures the email is present and well formed.
func (req SendCodeRequest) Validate() error {
	req.Email = strings.TrimSpace(req.Email)
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email must be a valid address"),
		),
	)
}

// VerifyRequest exchanges a verification code for a session token.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate ensures both fields are present.
func (req VerifyRequest) Validate() error {
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required.Error("email is required")),
		validation.Field(&req.Code, validation.Required.Error("code is required")),
	)
}
