package userbase_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calposa/userbase"
)

func sampleClaims() *userbase.JWTClaims {
	return &userbase.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "c0a80101-0000-4000-8000-000000000001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UID:       "c0a80101-0000-4000-8000-000000000001",
		UserEmail: "jane@example.com",
		UserRole:  userbase.RoleModerator,
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := &userbase.Identity{
		ID:    "c0a80101-0000-4000-8000-000000000001",
		Email: "jane@example.com",
		Role:  userbase.RoleUser,
	}

	ctx := userbase.WithIdentityContext(context.Background(), identity)

	got, ok := userbase.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = userbase.IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := sampleClaims()

	ctx := userbase.WithClaimsContext(context.Background(), claims)

	got, ok := userbase.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, claims.UserID(), got.UserID())

	_, ok = userbase.GetClaims(context.Background())
	assert.False(t, ok)
}

func TestContextEnricherAdapter(t *testing.T) {
	claims := sampleClaims()

	ctx := userbase.ContextEnricherAdapter(context.Background(), claims)

	gotClaims, ok := userbase.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, claims.Email(), gotClaims.Email())

	identity, ok := userbase.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, claims.UserID(), identity.ID)
	assert.Equal(t, userbase.RoleModerator, identity.Role)
}

func TestIdentityFromClaims(t *testing.T) {
	identity := userbase.IdentityFromClaims(sampleClaims())
	require.NotNil(t, identity)
	assert.Equal(t, "jane@example.com", identity.Email)

	assert.Nil(t, userbase.IdentityFromClaims(nil))
}

func TestIdentityCanManage(t *testing.T) {
	owner := &userbase.Identity{ID: "owner-id", Role: userbase.RoleUser}
	admin := &userbase.Identity{ID: "admin-id", Role: userbase.RoleAdmin}
	moderator := &userbase.Identity{ID: "mod-id", Role: userbase.RoleModerator}

	assert.True(t, owner.CanManage("owner-id"))
	assert.False(t, owner.CanManage("other-id"))

	assert.True(t, admin.CanManage("anyone"))

	// Moderators hold no implicit ownership over other accounts.
	assert.False(t, moderator.CanManage("other-id"))
	assert.True(t, moderator.CanManage("mod-id"))

	var nilIdentity *userbase.Identity
	assert.False(t, nilIdentity.CanManage("anyone"))
}
