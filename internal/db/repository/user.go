package repository

import (
	"context"
	"database/sql"
	"time"

	"grocery-graph/internal/domain"
)

// UserRepo is the relational account store. Accounts are soft-deactivated,
// never removed, so graph counterparts keep a valid external id to point at.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a UserRepo on the given pool.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, name, role, is_active, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, name, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.Role, boolToInt(u.Active), unixF(now), unixF(now))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, mapDBError(rows.Err())
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, role = ?, updated_at = ? WHERE id = ?`,
		u.Email, u.Name, u.Role, unixF(time.Now().UTC()), u.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := requireRowAffected(res, "user"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active), unixF(time.Now().UTC()), id)
	if err != nil {
		return mapDBError(err)
	}
	return requireRowAffected(res, "user")
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u       domain.User
		active  int64
		created float64
		updated float64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &active, &created, &updated); err != nil {
		return nil, mapDBError(err)
	}
	u.Active = active != 0
	u.CreatedAt = timeFromUnixF(created)
	u.UpdatedAt = timeFromUnixF(updated)
	return &u, nil
}
