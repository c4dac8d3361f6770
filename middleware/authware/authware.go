// Package authware is the request gating middleware: it locates a candidate
// session token (auth cookie first, then the Authorization header), validates
// it, and attaches the resulting claims to the request for downstream role
// gates and handlers. It is deliberately decoupled from the root package: the
// narrow TokenValidator and AuthClaims interfaces below avoid an import cycle.
package authware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const (
	// DefaultCookieName is the credential cookie name
	DefaultCookieName = "authToken"
	// DefaultAuthScheme is the Authorization header prefix that gets stripped
	DefaultAuthScheme = "Bearer"
	// DefaultContextKey is the locals key holding the validated claims
	DefaultContextKey = "identity"
)

// ErrTokenRequired is returned when neither credential source yields a token.
var ErrTokenRequired = errors.New("authentication token required", errors.CategoryAuth).
	WithTextCode("TOKEN_REQUIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is the uniform verification failure surfaced to clients.
var ErrTokenInvalid = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(errors.CodeUnauthorized)

// ErrAuthenticationRequired is returned by gates running without an identity.
// Unreachable when middleware ordering is respected; gates fail closed anyway.
var ErrAuthenticationRequired = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode("AUTHENTICATION_REQUIRED").
	WithCode(errors.CodeUnauthorized)

// ErrInsufficientPermissions is returned when the identity role is not in the
// allowed set of a gate.
var ErrInsufficientPermissions = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode("INSUFFICIENT_PERMISSIONS").
	WithCode(errors.CodeForbidden)

// AuthClaims mirrors the root package claims interface without importing it
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Role() string
}

// TokenValidator validates a raw token and returns structured claims
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// Logger is the minimal logging surface the middleware needs
type Logger interface {
	Error(format string, args ...any)
}

type Config struct {
	// Validator is required
	Validator TokenValidator
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool
	// CookieName defaults to DefaultCookieName
	CookieName string
	// AuthScheme defaults to DefaultAuthScheme
	AuthScheme string
	// ContextKey defaults to DefaultContextKey
	ContextKey string
	// ErrorHandler terminates failed requests; by default errors bubble up
	// to the application error handler
	ErrorHandler fiber.ErrorHandler
	// ContextEnricher propagates claims to the standard Go context after a
	// successful validation
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context
	Logger          Logger
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("AUTHWARE: middleware configuration: Validator is required.")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

// New returns the authentication middleware. Requests without a valid token
// never reach the wrapped handlers.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		token, fromCookie := ExtractToken(c, cfg.CookieName, cfg.AuthScheme)
		if token == "" {
			return cfg.ErrorHandler(c, ErrTokenRequired)
		}

		claims, err := cfg.Validator.Validate(token)
		if err != nil {
			// A stale or forged cookie must not linger client-side.
			if fromCookie {
				expireCookie(c, cfg.CookieName)
			}

			var rich *errors.Error
			if errors.As(err, &rich) && rich.Category == errors.CategoryAuth {
				return cfg.ErrorHandler(c, err)
			}

			cfg.Logger.Error("authware token validation failed: %v", err)
			return cfg.ErrorHandler(c, ErrTokenInvalid)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return c.Next()
	}
}

// ExtractToken locates a candidate token following the credential source
// precedence: the auth cookie wins, then the Authorization header. A
// case-sensitive "<scheme> " prefix is stripped from the header; otherwise
// the raw header value is used as-is. The bool reports whether the token came
// from the cookie.
func ExtractToken(c *fiber.Ctx, cookieName, authScheme string) (string, bool) {
	if v := c.Cookies(cookieName); v != "" {
		return v, true
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	if prefix := authScheme + " "; strings.HasPrefix(header, prefix) {
		return header[len(prefix):], false
	}

	return header, false
}

// ClaimsFromCtx returns the claims attached by New under the default key.
func ClaimsFromCtx(c *fiber.Ctx) (AuthClaims, bool) {
	raw := c.Locals(DefaultContextKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

func expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
