package userbase_test

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calposa/userbase"
)

func newTestTokenService(key string) userbase.TokenService {
	return userbase.NewTokenService([]byte(key), 24, "test-issuer", []string{"test-audience"}, nil)
}

func testIdentity() userbase.Identity {
	return userbase.Identity{
		ID:    "c0a80101-0000-4000-8000-000000000001",
		Email: "user@example.com",
		Role:  userbase.RoleUser,
	}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	svc := newTestTokenService("test-signing-key")
	identity := testIdentity()

	token, err := svc.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, identity.ID, claims.Subject())
	assert.Equal(t, identity.ID, claims.UserID())
	assert.Equal(t, identity.Email, claims.Email())
	assert.Equal(t, identity.Role, claims.Role())

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.Expires(), time.Minute)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt(), time.Minute)
}

func TestTokenService_GenerateUniqueTokenIDs(t *testing.T) {
	svc := newTestTokenService("test-signing-key")

	first, err := svc.Generate(testIdentity())
	require.NoError(t, err)

	second, err := svc.Generate(testIdentity())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_ValidateExpired(t *testing.T) {
	svc := newTestTokenService("test-signing-key")

	claims := &userbase.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   "c0a80101-0000-4000-8000-000000000001",
			Audience:  jwt.ClaimStrings{"test-audience"},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UID:       "c0a80101-0000-4000-8000-000000000001",
		UserEmail: "user@example.com",
		UserRole:  userbase.RoleUser,
	}

	token, err := svc.SignClaims(claims)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, userbase.IsTokenExpiredError(err))

	var rich *goerrors.Error
	require.ErrorAs(t, err, &rich)
	assert.Equal(t, goerrors.CategoryAuth, rich.Category)
	assert.Equal(t, goerrors.CodeUnauthorized, rich.Code)
}

func TestTokenService_ValidateFailures(t *testing.T) {
	svc := newTestTokenService("test-signing-key")
	other := newTestTokenService("a-different-key")

	validToken, err := other.Generate(testIdentity())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Garbage token",
			token: "not-a-jwt",
		},
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Wrong signing key",
			token: validToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			require.Error(t, err)
			assert.True(t, userbase.IsMalformedError(err))

			var rich *goerrors.Error
			require.ErrorAs(t, err, &rich)
			assert.Equal(t, goerrors.CategoryAuth, rich.Category)
			assert.Equal(t, goerrors.CodeUnauthorized, rich.Code)
			assert.Equal(t, userbase.TextCodeTokenMalformed, rich.TextCode)
		})
	}
}

func TestTokenService_ValidateIssuerMismatch(t *testing.T) {
	svc := newTestTokenService("test-signing-key")
	rogue := userbase.NewTokenService([]byte("test-signing-key"), 24, "other-issuer", []string{"test-audience"}, nil)

	token, err := rogue.Generate(testIdentity())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, userbase.IsMalformedError(err))
}

func TestTokenService_ValidateAudienceMismatch(t *testing.T) {
	svc := newTestTokenService("test-signing-key")
	rogue := userbase.NewTokenService([]byte("test-signing-key"), 24, "test-issuer", []string{"other-audience"}, nil)

	token, err := rogue.Generate(testIdentity())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, userbase.IsMalformedError(err))

	t.Run("Any configured audience matches", func(t *testing.T) {
		multi := userbase.NewTokenService([]byte("test-signing-key"), 24, "test-issuer",
			[]string{"other-audience", "test-audience"}, nil)

		token, err := newTestTokenService("test-signing-key").Generate(testIdentity())
		require.NoError(t, err)

		_, err = multi.Validate(token)
		assert.NoError(t, err)
	})
}

type capturedLogs struct {
	messages []string
}

func (l *capturedLogs) Debug(format string, args ...any) { l.record(format, args...) }
func (l *capturedLogs) Info(format string, args ...any)  { l.record(format, args...) }
func (l *capturedLogs) Warn(format string, args ...any)  { l.record(format, args...) }
func (l *capturedLogs) Error(format string, args ...any) { l.record(format, args...) }

func (l *capturedLogs) record(format string, args ...any) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func TestTokenService_ValidateRejectsUnsignedAlg(t *testing.T) {
	logger := &capturedLogs{}
	svc := userbase.NewTokenService([]byte("test-signing-key"), 24, "", nil, logger)

	// An attacker-supplied token claiming alg "none" must hit the signing
	// method check, not the signature verifier.
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"c0a80101-0000-4000-8000-000000000001"}`))
	token := header + "." + payload + "."

	_, err := svc.Validate(token)
	require.Error(t, err)
	assert.True(t, userbase.IsMalformedError(err))

	require.NotEmpty(t, logger.messages)
	assert.Contains(t, logger.messages[0], "none")
	assert.NotContains(t, logger.messages[0], "%!(")
}
