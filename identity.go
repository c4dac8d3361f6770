package userbase

import (
	"github.com/gofiber/fiber/v2"

	"github.com/calposa/userbase/middleware/authware"
)

// Identity is the authenticated principal attached to a request after token
// verification. It is created once per request and never mutated.
type Identity struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// IdentityFromClaims builds the request identity out of validated claims.
func IdentityFromClaims(claims AuthClaims) *Identity {
	if claims == nil {
		return nil
	}

	return &Identity{
		ID:    claims.UserID(),
		Email: claims.Email(),
		Role:  claims.Role(),
	}
}

// IdentityFromUser builds an identity from a stored user record, used when
// minting tokens at signup/signin time.
func IdentityFromUser(user *User) Identity {
	return Identity{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
	}
}

// CanManage implements the ownership rule: an action on a resource owned by
// ownerID is permitted to admins and to the owner itself.
func (i *Identity) CanManage(ownerID string) bool {
	if i == nil {
		return false
	}
	return i.Role == RoleAdmin || i.ID == ownerID
}

// CurrentIdentity extracts the authenticated identity placed in the request
// by the authware middleware. Handlers behind a gate can rely on it being
// present; the bool guards the defensive paths.
func CurrentIdentity(c *fiber.Ctx) (*Identity, bool) {
	claims, ok := authware.ClaimsFromCtx(c)
	if !ok {
		return nil, false
	}

	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return nil, false
	}

	return IdentityFromClaims(authClaims), true
}
