package userbase

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the narrow repository contract the HTTP layer consumes.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch *UserPatch) (*User, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *UsersQuery) ([]*User, int, error)
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*UserStats, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the bun-backed Users store.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.getByColumn(ctx, "id", id.String())
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getByColumn(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (a *users) getByColumn(ctx context.Context, column, value string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load user")
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	prepareUserDefaults(record)

	created, err := a.Repository.CreateTx(ctx, a.db, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return created, nil
}

func (a *users) UpdateFields(ctx context.Context, id uuid.UUID, patch *UserPatch) (*User, error) {
	if patch.IsZero() {
		return a.GetByID(ctx, id)
	}

	q := a.db.NewUpdate().
		Model((*User)(nil)).
		Where("id = ?", id.String()).
		Where("deleted_at IS NULL").
		Set("updated_at = CURRENT_TIMESTAMP")

	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.PasswordHash != nil {
		q = q.Set("password_hash = ?", *patch.PasswordHash)
	}
	if patch.Role != nil {
		q = q.Set("user_role = ?", *patch.Role)
	}
	if patch.IsActive != nil {
		q = q.Set("is_active = ?", *patch.IsActive)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrUserNotFound
	}

	return a.GetByID(ctx, id)
}

func (a *users) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id.String()).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (a *users) List(ctx context.Context, query *UsersQuery) ([]*User, int, error) {
	records := []*User{}

	q := a.db.NewSelect().Model(&records)

	if query.Role != "" {
		q = q.Where("?TableAlias.user_role = ?", query.Role)
	}

	if query.Search != "" {
		like := "%" + strings.ToLower(query.Search) + "%"
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				WhereOr("lower(?TableAlias.name) LIKE ?", like).
				WhereOr("lower(?TableAlias.email) LIKE ?", like)
		})
	}

	total, err := q.
		Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		ScanAndCount(ctx)

	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	return records, total, nil
}

func (a *users) Count(ctx context.Context) (int, error) {
	total, err := a.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count users")
	}
	return total, nil
}

func (a *users) Stats(ctx context.Context) (*UserStats, error) {
	total, err := a.Count(ctx)
	if err != nil {
		return nil, err
	}

	active, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.is_active = ?", true).
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to count active users")
	}

	var rows []struct {
		Role  string `bun:"role"`
		Count int    `bun:"count"`
	}

	err = a.db.NewSelect().
		Model((*User)(nil)).
		ColumnExpr("?TableAlias.user_role AS role").
		ColumnExpr("count(*) AS count").
		GroupExpr("?TableAlias.user_role").
		Scan(ctx, &rows)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to aggregate users by role")
	}

	byRole := make(map[string]int, len(rows))
	for _, row := range rows {
		byRole[row.Role] = row.Count
	}

	return &UserStats{
		Total:    total,
		Active:   active,
		Inactive: total - active,
		ByRole:   byRole,
	}, nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
