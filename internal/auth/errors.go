package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeEmailInvalid   = "AUTH_EMAIL_INVALID"
	TextCodeEmailForbidden = "AUTH_EMAIL_NOT_ALLOWED"
	TextCodeInputInvalid   = "AUTH_INPUT_INVALID"
	TextCodeCodeInvalid    = "AUTH_CODE_INVALID"
	TextCodeTokenInvalid   = "AUTH_TOKEN_INVALID"
	TextCodeSessionExpired = "AUTH_SESSION_EXPIRED"
	TextCodeStoreFailed    = "AUTH_STORE_FAILED"
	TextCodeDeliveryFailed = "AUTH_CODE_DELIVERY_FAILED"
	TextCodeSigningFailed  = "AUTH_TOKEN_SIGNING_FAILED"
)

var (
	ErrEmailNotAllowed = errors.New("email is not allowed")
	ErrInvalidCode     = errors.New("invalid or expired code")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionExpired  = errors.New("session expired")
)

func validationError(err error, textCode string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).WithTextCode(textCode)
}

func authorizationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuthz, err.Error()).WithTextCode(TextCodeEmailForbidden)
}

func authenticationError(err error, textCode string) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, err.Error()).WithTextCode(textCode)
}

func internalError(err error, message, textCode string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).WithTextCode(textCode)
}
