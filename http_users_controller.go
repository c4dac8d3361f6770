package userbase

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// UsersController serves the admin and self-service user management
// endpoints.
type UsersController struct {
	logger Logger
	users  Users
}

type UsersControllerOption func(*UsersController)

func WithUsersLogger(logger Logger) UsersControllerOption {
	return func(u *UsersController) {
		if logger != nil {
			u.logger = logger
		}
	}
}

func NewUsersController(users Users, opts ...UsersControllerOption) *UsersController {
	u := &UsersController{
		logger: defLogger{},
		users:  users,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}

	return u
}

// RegisterUserRoutes mounts the user management endpoints under /users.
// Every route requires authentication; the admin gate is applied per
// route. The static /stats route is registered ahead of /:id so fiber
// does not capture "stats" as an id.
func RegisterUserRoutes(router fiber.Router, ctrl *UsersController, protected fiber.Handler) {
	group := router.Group("/users", protected)

	group.Get("/stats", RequireAdmin(), ctrl.Stats)
	group.Get("/", RequireAdmin(), ctrl.List)
	group.Post("/", RequireAdmin(), ctrl.Create)
	group.Get("/:id", ctrl.Get)
	group.Put("/:id/toggle-status", RequireAdmin(), ctrl.ToggleStatus)
	group.Put("/:id", ctrl.Update)
	group.Delete("/:id", RequireAdmin(), ctrl.Delete)
}

func (u *UsersController) List(c *fiber.Ctx) error {
	query, fieldErrors := ParseUsersQuery(
		c.Query("page"),
		c.Query("limit"),
		c.Query("role"),
		c.Query("search"),
	)
	if len(fieldErrors) > 0 {
		return NewValidationError("invalid query parameters", fieldErrors)
	}

	records, total, err := u.users.List(c.Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       records,
		"pagination": NewPagination(query.Page, query.Limit, total),
	})
}

func (u *UsersController) Stats(c *fiber.Ctx) error {
	stats, err := u.users.Stats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (u *UsersController) Get(c *fiber.Ctx) error {
	id, fieldErrors := ParseUserID(c.Params("id"))
	if len(fieldErrors) > 0 {
		return NewValidationError("invalid user id", fieldErrors)
	}

	identity, ok := CurrentIdentity(c)
	if !ok {
		return errors.New("authentication required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	if !identity.CanManage(id.String()) {
		return NewAuthorizationError("you can only access your own account")
	}

	user, err := u.users.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

func (u *UsersController) Create(c *fiber.Ctx) error {
	payload := CreateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	payload.Normalize()

	if err := payload.Validate(); err != nil {
		return NewValidationError("validation failed", FormatValidationErrorToMap(err))
	}

	if _, err := u.users.GetByEmail(c.Context(), payload.Email); err == nil {
		return ErrEmailTaken
	} else if !stderrors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return err
	}

	created, err := u.users.Create(c.Context(), &User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         payload.Role,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "user created",
		"data":    created,
	})
}

func (u *UsersController) Update(c *fiber.Ctx) error {
	id, fieldErrors := ParseUserID(c.Params("id"))
	if len(fieldErrors) > 0 {
		return NewValidationError("invalid user id", fieldErrors)
	}

	identity, ok := CurrentIdentity(c)
	if !ok {
		return errors.New("authentication required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	if !identity.CanManage(id.String()) {
		return NewAuthorizationError("you can only update your own account")
	}

	payload := UpdateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	payload.Normalize()

	if err := payload.Validate(); err != nil {
		return NewValidationError("validation failed", FormatValidationErrorToMap(err))
	}

	patch := payload.Patch()

	// Only admins can reassign roles or toggle activation here.
	if identity.Role != RoleAdmin {
		if patch.Role != nil {
			u.logger.Warn("user %s attempted role change, dropping field", identity.ID)
			patch.Role = nil
		}
		patch.IsActive = nil
	}

	if payload.Password != nil {
		hash, err := HashPassword(*payload.Password)
		if err != nil {
			return err
		}
		patch.PasswordHash = &hash
	}

	updated, err := u.users.UpdateFields(c.Context(), id, patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "user updated",
		"data":    updated,
	})
}

func (u *UsersController) ToggleStatus(c *fiber.Ctx) error {
	id, fieldErrors := ParseUserID(c.Params("id"))
	if len(fieldErrors) > 0 {
		return NewValidationError("invalid user id", fieldErrors)
	}

	identity, ok := CurrentIdentity(c)
	if !ok {
		return errors.New("authentication required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	if identity.ID == id.String() {
		return errors.New("you cannot change your own account status", errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	}

	user, err := u.users.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	next := !user.IsActive
	updated, err := u.users.UpdateFields(c.Context(), id, &UserPatch{IsActive: &next})
	if err != nil {
		return err
	}

	message := "user activated"
	if !next {
		message = "user deactivated"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    updated,
	})
}

func (u *UsersController) Delete(c *fiber.Ctx) error {
	id, fieldErrors := ParseUserID(c.Params("id"))
	if len(fieldErrors) > 0 {
		return NewValidationError("invalid user id", fieldErrors)
	}

	identity, ok := CurrentIdentity(c)
	if !ok {
		return errors.New("authentication required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	if identity.ID == id.String() {
		return errors.New("you cannot delete your own account", errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	}

	if err := u.users.DeleteByID(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "user deleted",
	})
}
