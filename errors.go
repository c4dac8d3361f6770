package userbase

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenExpired tags expired session tokens
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed tags malformed or badly signed tokens
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeInvalidCredentials tags failed credential checks
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// TextCodeUserNotFound tags missing user records
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeEmailTaken tags duplicate email conflicts
	TextCodeEmailTaken = "EMAIL_TAKEN"
	// TextCodeValidation tags payload validation failures
	TextCodeValidation = "VALIDATION_ERROR"
	// TextCodeForbidden tags authorization failures
	TextCodeForbidden = "INSUFFICIENT_PERMISSIONS"
)

// ErrTokenExpired is returned when a session token is past its expiry.
// Callers must not branch on the sub-reason; like every verification failure
// it carries the auth category and a 401.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail parsing or signature checks.
var ErrTokenMalformed = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned when an email or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when a looked-up user record does not exist.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrEmailTaken is returned when a signup or create collides with an
// existing account email.
var ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// NewValidationError wraps per-field validation failures. The field map ends
// up under the "errors" key of the terminal JSON body.
func NewValidationError(message string, fields map[string]string) *errors.Error {
	return errors.New(message, errors.CategoryValidation).
		WithTextCode(TextCodeValidation).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"fields": fields})
}

// NewAuthorizationError builds an authorization failure with a contextual
// message, e.g. for the ownership rule on per-resource handlers.
func NewAuthorizationError(message string) *errors.Error {
	return errors.New(message, errors.CategoryAuthz).
		WithTextCode(TextCodeForbidden).
		WithCode(errors.CodeForbidden)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
