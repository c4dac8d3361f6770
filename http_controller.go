package userbase

import (
	stderrors "errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthController serves the signup, signin, signout, and profile
// endpoints.
type AuthController struct {
	cfg    Config
	logger Logger
	users  Users
	tokens TokenService
}

type AuthControllerOption func(*AuthController)

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(a *AuthController) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAuthController(cfg Config, users Users, tokens TokenService, opts ...AuthControllerOption) *AuthController {
	a := &AuthController{
		cfg:    cfg,
		logger: defLogger{},
		users:  users,
		tokens: tokens,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// RegisterAuthRoutes mounts the auth endpoints on the given router.
// The protected middleware guards the profile route.
func RegisterAuthRoutes(router fiber.Router, ctrl *AuthController, protected fiber.Handler) {
	router.Post("/signup", ctrl.Signup)
	router.Post("/signin", ctrl.Signin)
	router.Post("/signout", ctrl.Signout)
	router.Get("/profile", protected, ctrl.Profile)
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	payload := SignupPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Role == "" {
		payload.Role = RoleUser
	}

	if err := payload.Validate(); err != nil {
		return NewValidationError("validation failed", FormatValidationErrorToMap(err))
	}

	// Self signup never grants elevated roles.
	role := RoleUser
	if payload.Role != RoleUser {
		a.logger.Warn("signup requested role %q for %s, coercing to %q", payload.Role, payload.Email, RoleUser)
	}

	if _, err := a.users.GetByEmail(c.Context(), payload.Email); err == nil {
		return ErrEmailTaken
	} else if !stderrors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return err
	}

	created, err := a.users.Create(c.Context(), &User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	token, err := a.tokens.Generate(IdentityFromUser(created))
	if err != nil {
		return err
	}

	SetAuthCookie(c, a.cfg, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "account created",
		"user":    created,
		"token":   token,
	})
}

func (a *AuthController) Signin(c *fiber.Ctx) error {
	payload := SigninPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	if err := payload.Validate(); err != nil {
		return NewValidationError("validation failed", FormatValidationErrorToMap(err))
	}

	user, err := a.users.GetByEmail(c.Context(), payload.Email)
	if err != nil {
		if stderrors.Is(err, ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if !user.IsActive {
		return ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	token, err := a.tokens.Generate(IdentityFromUser(user))
	if err != nil {
		return err
	}

	SetAuthCookie(c, a.cfg, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "signed in",
		"user":    user,
		"token":   token,
	})
}

func (a *AuthController) Signout(c *fiber.Ctx) error {
	ClearAuthCookie(c, a.cfg)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "signed out",
	})
}

func (a *AuthController) Profile(c *fiber.Ctx) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return errors.New("authentication required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    identity,
	})
}
