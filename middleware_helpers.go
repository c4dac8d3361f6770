package userbase

import (
	"github.com/gofiber/fiber/v2"

	"github.com/calposa/userbase/middleware/authware"
)

// NewTokenValidator adapts a TokenService to the authware validator interface.
func NewTokenValidator(ts TokenService) authware.TokenValidator {
	return tokenValidatorAdapter{service: ts}
}

type tokenValidatorAdapter struct {
	service TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (authware.AuthClaims, error) {
	claims, err := a.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireAdmin gates a route to admins.
func RequireAdmin() fiber.Handler {
	return authware.RequireRole(RoleAdmin)
}

// RequireStaff gates a route to admins and moderators.
func RequireStaff() fiber.Handler {
	return authware.RequireRole(RoleAdmin, RoleModerator)
}
