package authware

import "github.com/gofiber/fiber/v2"

// RequireRole returns a gate that passes the request through only when the
// authenticated identity's role is a member of the allowed set. Membership is
// the whole check; roles carry no privilege ordering. The gate fails closed:
// a missing identity is an authentication failure, not a skip.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return ErrAuthenticationRequired
		}

		role := claims.Role()
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}

		return ErrInsufficientPermissions
	}
}
