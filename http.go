package userbase

import (
	stderrors "errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ErrorResponse is the JSON envelope every failed request ends with.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Stack   string            `json:"stack,omitempty"`
}

// SetAuthCookie writes the session token cookie using the configured
// name and expiration.
func SetAuthCookie(c *fiber.Ctx, cfg Config, token string) {
	duration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		duration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetCookieName(),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		MaxAge:   int(duration.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearAuthCookie expires the session token cookie.
func ClearAuthCookie(c *fiber.Ctx, cfg Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetCookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// NewErrorHandler builds the app level fiber error handler. It is the
// single place that turns errors into HTTP responses: rich errors keep
// their status, text code, and field map, everything else collapses to
// a 500. Stack traces are only exposed outside production.
func NewErrorHandler(logger Logger, production bool) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := err.Error()
		var fields map[string]string

		var rich *goerrors.Error
		var fiberErr *fiber.Error

		switch {
		case stderrors.As(err, &rich):
			if rich.Code > 0 {
				status = rich.Code
			}
			message = rich.Message
			if raw, ok := rich.Metadata["fields"]; ok {
				if fm, ok := raw.(map[string]string); ok {
					fields = fm
				}
			}
		case stderrors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed: %s %s: %v", c.Method(), c.Path(), err)
			if production {
				message = "internal server error"
			}
		}

		body := ErrorResponse{
			Success: false,
			Message: message,
			Errors:  fields,
		}

		if !production && status >= fiber.StatusInternalServerError {
			body.Stack = string(debug.Stack())
		}

		return c.Status(status).JSON(body)
	}
}
