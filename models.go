package userbase

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default account role
	RoleUser UserRole = "user"
	// RoleModerator can access staff endpoints alongside admins
	RoleModerator UserRole = "moderator"
	// RoleAdmin can manage every account
	RoleAdmin UserRole = "admin"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	IsActive      bool       `bun:"is_active" json:"isActive"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// UserPatch carries the optional fields of a partial update. Nil means
// leave the column untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
	IsActive     *bool
}

// IsZero reports whether the patch would touch no columns.
func (p *UserPatch) IsZero() bool {
	if p == nil {
		return true
	}
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil &&
		p.Role == nil && p.IsActive == nil
}

// UsersQuery holds normalized list filters.
type UsersQuery struct {
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
	Role   UserRole `json:"role,omitempty"`
	Search string   `json:"search,omitempty"`
}

// Offset returns the record offset for the current page.
func (q UsersQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination is the page envelope returned alongside list results.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination derives the page envelope from a query and a total count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// UserStats summarizes account counts.
type UserStats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	Inactive int            `json:"inactive"`
	ByRole   map[string]int `json:"byRole"`
}
