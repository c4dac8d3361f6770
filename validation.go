package userbase

import (
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// Two name character classes are in play on purpose: public signup sticks to
// the ASCII class, while the admin create/update validators also accept
// accented letters. Collapsing them would silently change the signup contract.
var (
	signupNameRe   = regexp.MustCompile(`^[A-Za-z\s]+$`)
	extendedNameRe = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	minSearchLen = 2
)

// SignupPayload is the public registration payload
type SignupPayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// Validate will run validation rules, collecting every field error in one pass
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Match(signupNameRe).Error("name can only contain letters and spaces"),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			validation.Match(emailRe).Error("invalid email format"),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 0).Error("password must be at least 6 characters"),
		),
		validation.Field(
			&r.Role,
			validation.Required,
			validation.In(RoleUser, RoleModerator, RoleAdmin).Error("invalid role"),
		),
	)
}

// SigninPayload is the login payload
type SigninPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r SigninPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			validation.Match(emailRe).Error("invalid email format"),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// CreateUserPayload is the admin create payload
type CreateUserPayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// Normalize trims the name, lowercases the email, and defaults the role.
// Run it before Validate so the rules see the values that get persisted.
func (r *CreateUserPayload) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = RoleUser
	}
}

// Validate will run validation rules, collecting every field error in one pass
func (r CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(2, 0).Error("name must be at least 2 characters"),
			validation.Match(extendedNameRe).Error("name can only contain letters and spaces"),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			validation.Match(emailRe).Error("invalid email format"),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 0).Error("password must be at least 6 characters"),
		),
		validation.Field(
			&r.Role,
			validation.In(RoleUser, RoleModerator, RoleAdmin).Error("invalid role"),
		),
	)
}

// UpdateUserPayload is the partial update payload; every field is optional
type UpdateUserPayload struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
	IsActive *bool   `json:"isActive" form:"isActive"`
}

// Normalize trims and lowercases the provided fields in place
func (r *UpdateUserPayload) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &lowered
	}
}

// Validate will run validation rules; absent fields are skipped, provided
// fields follow the same rules as create
func (r UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.NilOrNotEmpty.Error("name must be at least 2 characters"),
			validation.Length(2, 0).Error("name must be at least 2 characters"),
			validation.Match(extendedNameRe).Error("name can only contain letters and spaces"),
		),
		validation.Field(
			&r.Email,
			validation.NilOrNotEmpty.Error("invalid email format"),
			validation.Match(emailRe).Error("invalid email format"),
		),
		validation.Field(
			&r.Password,
			validation.NilOrNotEmpty.Error("password must be at least 6 characters"),
			validation.Length(6, 0).Error("password must be at least 6 characters"),
		),
		validation.Field(
			&r.Role,
			validation.NilOrNotEmpty.Error("invalid role"),
			validation.In(RoleUser, RoleModerator, RoleAdmin).Error("invalid role"),
		),
	)
}

// Patch converts the payload into the repository patch shape
func (r UpdateUserPayload) Patch() *UserPatch {
	return &UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

// ParseUsersQuery validates raw list query parameters, collecting every field
// error in one pass. Absent values fall back to defaults; the returned map is
// nil-safe to range and empty when the query is valid.
func ParseUsersQuery(page, limit, role, search string) (*UsersQuery, map[string]string) {
	fieldErrors := map[string]string{}
	q := &UsersQuery{
		Page:  defaultPage,
		Limit: defaultLimit,
	}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			fieldErrors["page"] = "page must be a positive integer"
		} else {
			q.Page = n
		}
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxLimit {
			fieldErrors["limit"] = "limit must be between 1 and 100"
		} else {
			q.Limit = n
		}
	}

	if role != "" {
		parsed, ok := ParseRole(role)
		if !ok {
			fieldErrors["role"] = "invalid role filter"
		} else {
			q.Role = parsed
		}
	}

	if search != "" {
		trimmed := strings.TrimSpace(search)
		if len(trimmed) < minSearchLen {
			fieldErrors["search"] = "search must be at least 2 characters"
		} else {
			q.Search = trimmed
		}
	}

	return q, fieldErrors
}

// ParseUserID validates a path id against the persistence layer's id format.
func ParseUserID(id string) (uuid.UUID, map[string]string) {
	if id == "" {
		return uuid.Nil, map[string]string{"id": "user id is required"}
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, map[string]string{"id": "invalid user id format"}
	}

	return parsed, nil
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field → message map for the terminal JSON body.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
